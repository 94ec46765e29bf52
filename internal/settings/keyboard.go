package settings

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const buttonsPerRow = 2

// CreateKeyboard renders the inline keyboard for a menu path against the
// chat's saved settings. The navigation row (Back, Close) always comes first;
// option buttons follow two per row. hasMenu is false when the path resolves
// to a leaf, which tells the caller the press was a value selection rather
// than navigation.
func CreateKeyboard(menu *Menu, saved Settings, data string) (markup tgbotapi.InlineKeyboardMarkup, hasMenu bool) {
	buttons := keyboardButtons(menu, saved, data)

	rows := [][]tgbotapi.InlineKeyboardButton{{
		tgbotapi.NewInlineKeyboardButtonData("⇐ Back", ParentPath(data)),
		tgbotapi.NewInlineKeyboardButtonData("ㄨ Close", ClosePath),
	}}
	for i := 0; i < len(buttons); i += buttonsPerRow {
		end := i + buttonsPerRow
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...), len(buttons) > 0
}

func keyboardButtons(menu *Menu, saved Settings, data string) []tgbotapi.InlineKeyboardButton {
	children := menu.Children
	if item := menu.Find(data); item != nil {
		children = item.Children
	}

	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(children))
	for _, child := range children {
		label := child.Label
		if len(child.Children) == 0 && isSelected(saved, child.Data) {
			label += " ✅"
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, child.Data))
	}
	return buttons
}

// isSelected reports whether a leaf's path key names the currently saved
// value: the saved scalar at the field path must equal the leaf's final
// segment. Scalar leaves without a literal suffix never match.
func isSelected(saved Settings, data string) bool {
	segments := strings.Split(data, PathSeparator)
	if len(segments) < 2 {
		return false
	}
	value, ok := ValueAt(saved, segments[:len(segments)-1])
	return ok && value == segments[len(segments)-1]
}
