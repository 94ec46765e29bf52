package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aisyah-ai/telegraph/internal/history"
	"github.com/aisyah-ai/telegraph/internal/interaction"
	"github.com/aisyah-ai/telegraph/internal/lock"
	"github.com/aisyah-ai/telegraph/internal/ratelimit"
	"github.com/aisyah-ai/telegraph/internal/settings"
	"github.com/aisyah-ai/telegraph/internal/tools"
)

const (
	rateLimitedReply = "Hari ini kamu uda banyak chat sama aku, besok lagi ya!"
	forgetReply      = "----- 👌 💬 ❌ 👍 -----"
	settingsTitle    = "⚙️ Settings"

	startPrompt       = "You are engaging in a conversation with me at the first time. Say hello and introduce yourself and ask me to introduce myself."
	descriptionPrompt = "Tell me about yourself."
	helpPrompt        = "Let me know what you can do for me."
	privacyPrompt     = "Please reassure me that my data is safe when we chat."

	timestampFormat = "2006-01-02 15.04.05"
)

// Telegram is the slice of the Bot API the gateway uses; *tgbotapi.BotAPI
// satisfies it.
type Telegram interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(cfg tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Bot is the Telegraph gateway: it routes every inbound Telegram update
// through the rate limiter, the per-chat lock, the chat history, and the
// response-eligibility decision, calling out to the agent, whisper, and
// sonata capabilities as needed.
type Bot struct {
	tg    Telegram
	self  tgbotapi.User
	token string

	history      *history.Store
	locker       *lock.Locker
	limiter      *ratelimit.Limiter
	interactions *interaction.Tracker
	settings     *settings.Manager

	agent   tools.Agent
	whisper tools.Whisper
	sonata  tools.Sonata

	logger *zap.Logger
	loc    *time.Location
}

// Deps bundles the gateway's collaborators.
type Deps struct {
	History      *history.Store
	Locker       *lock.Locker
	Limiter      *ratelimit.Limiter
	Interactions *interaction.Tracker
	Settings     *settings.Manager
	Agent        tools.Agent
	Whisper      tools.Whisper
	Sonata       tools.Sonata
}

func New(tg Telegram, self tgbotapi.User, token string, deps Deps, logger *zap.Logger) *Bot {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.UTC
	}
	return &Bot{
		tg:           tg,
		self:         self,
		token:        token,
		history:      deps.History,
		locker:       deps.Locker,
		limiter:      deps.Limiter,
		interactions: deps.Interactions,
		settings:     deps.Settings,
		agent:        deps.Agent,
		whisper:      deps.Whisper,
		sonata:       deps.Sonata,
		logger:       logger,
		loc:          loc,
	}
}

// Run consumes updates until the channel closes, handling each on its own
// goroutine. The webhook acknowledgment never waits on a turn; the per-chat
// lock is what serializes turns, not the scheduling.
func (b *Bot) Run(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		go b.HandleUpdate(update)
	}
}

// HandleUpdate processes one update to completion. The turn runs on a shallow
// copy of the Bot whose logger carries the turn id, so every log line of the
// turn is correlatable.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	ctx := context.Background()
	turn := *b
	turn.logger = b.logger.With(
		zap.String("turn_id", uuid.New().String()),
		zap.Int("update_id", update.UpdateID))
	turn.logger.Debug("Handling update")

	if update.CallbackQuery != nil {
		turn.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	message := update.Message
	if message == nil {
		return
	}
	if message.IsCommand() {
		turn.handleCommand(ctx, message)
		return
	}
	turn.handleMessage(ctx, message)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleAgentCommand(ctx, message, startPrompt)
	case "description":
		b.handleAgentCommand(ctx, message, descriptionPrompt)
	case "help":
		b.handleAgentCommand(ctx, message, helpPrompt)
	case "privacy":
		b.handleAgentCommand(ctx, message, privacyPrompt)
	case "forget":
		b.handleForget(ctx, message)
	case "settings":
		b.handleSettingsCommand(ctx, message)
	default:
		b.sendText(message, "Unknown command. Use /help to see available commands.")
	}
}

// handleAgentCommand asks the agent with a canned prompt and no history.
// Commands always produce a reply; eligibility never applies here.
func (b *Bot) handleAgentCommand(ctx context.Context, message *tgbotapi.Message, prompt string) {
	chatID := strconv.FormatInt(message.Chat.ID, 10)

	if b.limiter.IsRateLimited(ctx, b.senderID(message)) {
		b.sendText(message, rateLimitedReply)
		return
	}
	if err := b.locker.Acquire(ctx, chatID); err != nil {
		b.logger.Error("Failed to acquire chat lock",
			zap.Error(err),
			zap.String("chat_id", chatID))
		return
	}
	defer b.locker.Release(ctx, chatID)

	response, err := b.agent.Chat(ctx, tools.ChatInput{
		ChatID:      chatID,
		MessageID:   strconv.Itoa(message.MessageID),
		SenderID:    b.senderID(message),
		SenderName:  senderName(message),
		Message:     prompt,
		ChatHistory: []history.Message{},
	})
	if err != nil {
		b.logger.Error("Agent command failed",
			zap.Error(err),
			zap.String("chat_id", chatID),
			zap.String("command", message.Command()))
		b.sendText(message, err.Error())
		return
	}
	b.reply(message, Output{Message: response, ReplyType: ReplyText})
}

func (b *Bot) handleForget(ctx context.Context, message *tgbotapi.Message) {
	chatID := strconv.FormatInt(message.Chat.ID, 10)
	if err := b.history.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear chat history",
			zap.Error(err),
			zap.String("chat_id", chatID))
	}
	b.sendText(message, forgetReply)
}

func (b *Bot) handleSettingsCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := strconv.FormatInt(message.Chat.ID, 10)
	saved := b.settings.Load(ctx, chatID)
	markup, _ := settings.CreateKeyboard(b.settings.Menu(), saved, settings.RootPath)

	msg := tgbotapi.NewMessage(message.Chat.ID, settingsTitle)
	msg.ReplyMarkup = markup
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error("Failed to send settings menu",
			zap.Error(err),
			zap.String("chat_id", chatID))
	}
}

// handleCallbackQuery walks the settings menu. A menu path re-renders the
// keyboard in place, a leaf path saves the selected value, and the close
// sentinel deletes the menu message.
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, "")
		return
	}
	data := query.Data
	chatID := strconv.FormatInt(query.Message.Chat.ID, 10)

	if data == settings.ClosePath {
		if _, err := b.tg.Request(tgbotapi.NewDeleteMessage(query.Message.Chat.ID, query.Message.MessageID)); err != nil {
			b.logger.Error("Failed to delete settings message",
				zap.Error(err),
				zap.String("chat_id", chatID))
		}
		b.answerCallback(query.ID, "")
		return
	}

	saved := b.settings.Load(ctx, chatID)
	markup, hasMenu := settings.CreateKeyboard(b.settings.Menu(), saved, data)
	if hasMenu {
		b.editMessage(query, settingsTitle, markup)
		b.answerCallback(query.ID, "")
		return
	}

	if err := b.settings.SaveSetting(ctx, chatID, data); err != nil {
		b.logger.Error("Failed to save setting",
			zap.Error(err),
			zap.String("chat_id", chatID),
			zap.String("data", data))
		b.answerCallback(query.ID, "Failed to update settings")
		return
	}
	b.editMessage(query, "✅ Settings updated", markup)
	b.answerCallback(query.ID, "Settings updated")
}

// handleMessage runs the full pipeline for one non-command inbound message.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := strconv.FormatInt(message.Chat.ID, 10)
	senderID := b.senderID(message)

	if b.limiter.IsRateLimited(ctx, senderID) {
		b.sendText(message, rateLimitedReply)
		return
	}
	if err := b.locker.Acquire(ctx, chatID); err != nil {
		b.logger.Error("Failed to acquire chat lock",
			zap.Error(err),
			zap.String("chat_id", chatID))
		return
	}
	defer b.locker.Release(ctx, chatID)

	cfg := b.settings.Load(ctx, chatID)
	limit := 0
	if cfg.Telegraph.ChatHistoryLimit != nil {
		limit = *cfg.Telegraph.ChatHistoryLimit
	}

	userMessage := b.constructUserMessage(ctx, message)
	chatHistory := b.history.AppendLimited(ctx, chatID, limit, history.Message{
		SenderName: senderName(message),
		Type:       "human",
		Message:    userMessage,
		Timestamp:  b.now(),
	})

	if !b.shouldRespond(ctx, message, userMessage) {
		return
	}

	b.sendChatAction(message.Chat.ID, "typing")
	b.interactions.Track(ctx, chatID, senderID)

	response, err := b.agent.Chat(ctx, tools.ChatInput{
		ChatID:      chatID,
		MessageID:   strconv.Itoa(message.MessageID),
		SenderID:    senderID,
		SenderName:  senderName(message),
		Message:     userMessage,
		ChatHistory: chatHistory[:len(chatHistory)-1],
	})
	if err != nil {
		b.logger.Error("Agent chat failed",
			zap.Error(err),
			zap.String("chat_id", chatID))
		b.sendText(message, err.Error())
		return
	}

	b.reply(message, b.composeOutput(ctx, message, response))

	b.history.AppendLimited(ctx, chatID, limit, history.Message{
		SenderName: b.self.FirstName,
		Type:       "ai",
		Message:    response,
		Timestamp:  b.now(),
	})
}

func (b *Bot) now() string {
	return time.Now().In(b.loc).Format(timestampFormat)
}

func (b *Bot) senderID(message *tgbotapi.Message) string {
	if message.From == nil {
		return ""
	}
	return strconv.FormatInt(message.From.ID, 10)
}

// senderName is the first word of the sender's first name, falling back to
// last name, then username.
func senderName(message *tgbotapi.Message) string {
	if message.From == nil {
		return "Unknown"
	}
	name := message.From.FirstName
	if name == "" {
		name = message.From.LastName
	}
	if name == "" {
		name = message.From.UserName
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[0]
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.tg.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Error("Failed to answer callback query",
			zap.Error(err),
			zap.String("callback_id", id))
	}
}

func (b *Bot) editMessage(query *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, markup)
	if _, err := b.tg.Send(edit); err != nil {
		b.logger.Error("Failed to edit settings message",
			zap.Error(err),
			zap.Int64("chat_id", query.Message.Chat.ID))
	}
}
