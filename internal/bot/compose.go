package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aisyah-ai/telegraph/internal/eligibility"
	"github.com/aisyah-ai/telegraph/internal/tools"
)

const listenErrorReply = "Error: I can't listen to this voice message."

// ReplyType selects the platform API used for the outbound reply.
type ReplyType string

const (
	ReplyText  ReplyType = "text"
	ReplyVoice ReplyType = "voice"
	ReplyPhoto ReplyType = "photo"
)

// Output is a normalized outbound reply. For voice and photo replies Message
// holds the media URL.
type Output struct {
	Message   string
	ReplyType ReplyType
}

func (b *Bot) shouldRespond(ctx context.Context, message *tgbotapi.Message, userMessage string) bool {
	mentionsBot := eligibility.MentionsBot(userMessage, b.self.FirstName, b.self.UserName)
	return eligibility.ShouldRespond(eligibility.Signals{
		FromBot:     message.From != nil && message.From.ID == b.self.ID,
		PrivateChat: message.Chat.IsPrivate(),
		ReplyToBot: message.ReplyToMessage != nil &&
			message.ReplyToMessage.From != nil &&
			message.ReplyToMessage.From.ID == b.self.ID,
		MentionsBot: mentionsBot,
		RecentlyInteracted: b.interactions.IsRecent(ctx,
			strconv.FormatInt(message.Chat.ID, 10), b.senderID(message)),
		HasQuestionMark:    strings.Contains(message.Text, "?"),
		MentionsOtherUsers: hasMentionEntity(message) && !mentionsBot,
	})
}

func hasMentionEntity(message *tgbotapi.Message) bool {
	for _, entity := range message.Entities {
		if entity.Type == "mention" {
			return true
		}
	}
	return false
}

// constructUserMessage flattens any inbound message kind into one plain-text
// representation for the history and the agent.
func (b *Bot) constructUserMessage(ctx context.Context, message *tgbotapi.Message) string {
	fileURLs := b.fileURLs(message)
	reply := message.ReplyToMessage

	if message.Voice != nil || (reply != nil && reply.Voice != nil) {
		url := popURL(&fileURLs)
		if url == "" {
			return ""
		}
		text, err := b.whisper.Listen(ctx, url)
		if err != nil {
			b.logger.Warn("Failed to transcribe voice message",
				zap.Error(err),
				zap.Int64("chat_id", message.Chat.ID))
			return listenErrorReply
		}
		return text
	}

	if message.Audio != nil || message.Photo != nil ||
		(reply != nil && (reply.Photo != nil || reply.Audio != nil)) {
		parts := make([]string, 0, 2)
		if message.Caption != "" {
			parts = append(parts, message.Caption)
		}
		if url := popURL(&fileURLs); url != "" {
			parts = append(parts, url)
		}
		return strings.Join(parts, "\n")
	}

	switch {
	case message.Sticker != nil:
		return message.Sticker.Emoji
	case message.Location != nil:
		return fmt.Sprintf("Location: %v, %v",
			message.Location.Latitude, message.Location.Longitude)
	case message.Venue != nil:
		return "Venue: " + message.Venue.Title
	case message.Contact != nil:
		return "Contact: " + message.Contact.PhoneNumber
	case message.Video != nil || message.Animation != nil:
		return message.Caption
	case message.Poll != nil:
		options := make([]string, 0, len(message.Poll.Options))
		for _, option := range message.Poll.Options {
			options = append(options, "["+option.Text+"]")
		}
		return fmt.Sprintf("Polling\nQuestion: %s\nOptions: %s",
			message.Poll.Question, strings.Join(options, ", "))
	}
	return message.Text
}

// fileURLs resolves every file reference on the message (and its replied-to
// message) into fetchable URLs, preserving the photo-sizes-first order so
// the last entry is the most relevant file. Resolution failures are logged
// and skipped.
func (b *Bot) fileURLs(message *tgbotapi.Message) []string {
	var fileIDs []string
	addPhotos := func(sizes []tgbotapi.PhotoSize) {
		for _, photo := range sizes {
			fileIDs = append(fileIDs, photo.FileID)
		}
	}

	addPhotos(message.Photo)
	reply := message.ReplyToMessage
	if reply != nil {
		addPhotos(reply.Photo)
	}
	if message.Voice != nil {
		fileIDs = append(fileIDs, message.Voice.FileID)
	}
	if reply != nil && reply.Voice != nil {
		fileIDs = append(fileIDs, reply.Voice.FileID)
	}
	if message.Audio != nil {
		fileIDs = append(fileIDs, message.Audio.FileID)
	}
	if reply != nil && reply.Audio != nil {
		fileIDs = append(fileIDs, reply.Audio.FileID)
	}

	urls := make([]string, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		file, err := b.tg.GetFile(tgbotapi.FileConfig{FileID: fileID})
		if err != nil {
			b.logger.Warn("Failed to resolve file",
				zap.Error(err),
				zap.String("file_id", fileID))
			continue
		}
		urls = append(urls, file.Link(b.token))
	}
	return urls
}

func popURL(urls *[]string) string {
	if len(*urls) == 0 {
		return ""
	}
	url := (*urls)[len(*urls)-1]
	*urls = (*urls)[:len(*urls)-1]
	return url
}

// composeOutput decides how to deliver the agent's response: an embedded
// image link becomes a photo reply; a voice question or an embedded audio
// link is synthesized to speech, degrading to text when synthesis fails.
func (b *Bot) composeOutput(ctx context.Context, message *tgbotapi.Message, agentResponse string) Output {
	if photoLink := extractPhotoLink(agentResponse); photoLink != "" {
		return Output{Message: photoLink, ReplyType: ReplyPhoto}
	}

	if message.Voice != nil || extractAudioLink(agentResponse) != "" {
		audioURL, err := b.sonata.Speak(ctx, tools.SpeakInput{
			Text: agentResponse,
			Metadata: tools.SpeakMetadata{
				ChatID:    strconv.FormatInt(message.Chat.ID, 10),
				MessageID: strconv.Itoa(message.MessageID),
			},
		})
		if err != nil {
			b.logger.Warn("Failed to synthesize speech",
				zap.Error(err),
				zap.Int64("chat_id", message.Chat.ID))
			return Output{Message: agentResponse, ReplyType: ReplyText}
		}
		if audioURL == "" {
			return Output{Message: agentResponse, ReplyType: ReplyText}
		}
		return Output{Message: audioURL, ReplyType: ReplyVoice}
	}

	return Output{Message: agentResponse, ReplyType: ReplyText}
}

// reply sends the composed output, threading it to the originating message
// outside private chats.
func (b *Bot) reply(message *tgbotapi.Message, output Output) {
	switch output.ReplyType {
	case ReplyVoice:
		b.sendChatAction(message.Chat.ID, "record_voice")
	case ReplyPhoto:
		b.sendChatAction(message.Chat.ID, "upload_photo")
	default:
		b.sendChatAction(message.Chat.ID, "typing")
	}

	replyTo := 0
	if !message.Chat.IsPrivate() {
		replyTo = message.MessageID
	}

	var chattable tgbotapi.Chattable
	switch output.ReplyType {
	case ReplyVoice:
		voice := tgbotapi.NewVoice(message.Chat.ID, tgbotapi.FileURL(output.Message))
		voice.ReplyToMessageID = replyTo
		chattable = voice
	case ReplyPhoto:
		photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileURL(output.Message))
		photo.ReplyToMessageID = replyTo
		chattable = photo
	default:
		text := tgbotapi.NewMessage(message.Chat.ID, output.Message)
		text.ReplyToMessageID = replyTo
		chattable = text
	}

	if _, err := b.tg.Send(chattable); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID),
			zap.String("reply_type", string(output.ReplyType)))
	}
}

// sendText replies with plain text, threaded outside private chats.
func (b *Bot) sendText(message *tgbotapi.Message, text string) {
	b.reply(message, Output{Message: text, ReplyType: ReplyText})
}

func (b *Bot) sendChatAction(chatID int64, action string) {
	if _, err := b.tg.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		b.logger.Warn("Failed to send chat action",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("action", action))
	}
}
