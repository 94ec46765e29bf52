package bot

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/aisyah-ai/telegraph/internal/settings"
)

// SettingsHandler exposes the merged per-chat settings over HTTP, mirroring
// the per-section endpoints of the other services: GET reads the merged
// object, POST saves whichever sections the body carries, DELETE clears all
// sections.
func (b *Bot) SettingsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/settings/")
		if key == "" || strings.Contains(key, "/") {
			http.NotFound(w, r)
			return
		}
		ctx := r.Context()

		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, b.settings.Load(ctx, key))
		case http.MethodPost:
			var s settings.Settings
			if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			if err := b.settings.Save(ctx, key, s); err != nil {
				b.logger.Error("Failed to save settings",
					zap.Error(err),
					zap.String("chat_id", key))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "Settings saved"})
		case http.MethodDelete:
			if err := b.settings.Clear(ctx, key); err != nil {
				b.logger.Error("Failed to clear settings",
					zap.Error(err),
					zap.String("chat_id", key))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "Settings deleted"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
