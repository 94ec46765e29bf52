package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestConstructUserMessageText(t *testing.T) {
	tb := newTestBot(t)
	msg := privateMessage("just words")
	if got := tb.bot.constructUserMessage(context.Background(), msg); got != "just words" {
		t.Errorf("got %q, want the raw text", got)
	}
}

func TestConstructUserMessageVoice(t *testing.T) {
	tb := newTestBot(t)
	tb.bot.whisper = &fakeWhisper{text: "what time is it"}

	msg := privateMessage("")
	msg.Voice = &tgbotapi.Voice{FileID: "voice-1"}
	if got := tb.bot.constructUserMessage(context.Background(), msg); got != "what time is it" {
		t.Errorf("got %q, want the transcription", got)
	}
}

func TestConstructUserMessageVoiceTranscriptionFails(t *testing.T) {
	tb := newTestBot(t)
	tb.bot.whisper = &fakeWhisper{err: errors.New("whisper down")}

	msg := privateMessage("")
	msg.Voice = &tgbotapi.Voice{FileID: "voice-1"}
	if got := tb.bot.constructUserMessage(context.Background(), msg); got != listenErrorReply {
		t.Errorf("got %q, want the listen error notice", got)
	}
}

func TestConstructUserMessagePhotoWithCaption(t *testing.T) {
	tb := newTestBot(t)
	msg := privateMessage("")
	msg.Caption = "look at this"
	msg.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}

	got := tb.bot.constructUserMessage(context.Background(), msg)
	parts := strings.Split(got, "\n")
	if len(parts) != 2 {
		t.Fatalf("got %q, want caption and URL on separate lines", got)
	}
	if parts[0] != "look at this" {
		t.Errorf("caption = %q", parts[0])
	}
	// The largest photo size is listed last, so its URL wins.
	if !strings.Contains(parts[1], "large") {
		t.Errorf("url = %q, want the largest size's file", parts[1])
	}
}

func TestConstructUserMessageSticker(t *testing.T) {
	tb := newTestBot(t)
	msg := privateMessage("")
	msg.Sticker = &tgbotapi.Sticker{Emoji: "👍"}
	if got := tb.bot.constructUserMessage(context.Background(), msg); got != "👍" {
		t.Errorf("got %q, want the sticker emoji", got)
	}
}

func TestConstructUserMessageLocation(t *testing.T) {
	tb := newTestBot(t)
	msg := privateMessage("")
	msg.Location = &tgbotapi.Location{Latitude: -6.2, Longitude: 106.8}
	got := tb.bot.constructUserMessage(context.Background(), msg)
	if !strings.HasPrefix(got, "Location: ") {
		t.Errorf("got %q, want a Location line", got)
	}
}

func TestConstructUserMessageContactAndVenue(t *testing.T) {
	tb := newTestBot(t)

	msg := privateMessage("")
	msg.Contact = &tgbotapi.Contact{PhoneNumber: "+628123"}
	if got := tb.bot.constructUserMessage(context.Background(), msg); got != "Contact: +628123" {
		t.Errorf("contact = %q", got)
	}

	msg = privateMessage("")
	msg.Venue = &tgbotapi.Venue{Title: "Monas"}
	if got := tb.bot.constructUserMessage(context.Background(), msg); got != "Venue: Monas" {
		t.Errorf("venue = %q", got)
	}
}

func TestConstructUserMessagePoll(t *testing.T) {
	tb := newTestBot(t)
	msg := privateMessage("")
	msg.Poll = &tgbotapi.Poll{
		Question: "Lunch?",
		Options: []tgbotapi.PollOption{
			{Text: "Nasi goreng"},
			{Text: "Sate"},
		},
	}
	got := tb.bot.constructUserMessage(context.Background(), msg)
	want := "Polling\nQuestion: Lunch?\nOptions: [Nasi goreng], [Sate]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestComposeOutputPhotoLink(t *testing.T) {
	tb := newTestBot(t)
	out := tb.bot.composeOutput(context.Background(), privateMessage("draw me"),
		"Here: https://img.example.com/cat.png")
	if out.ReplyType != ReplyPhoto {
		t.Fatalf("reply type = %q, want photo", out.ReplyType)
	}
	if out.Message != "https://img.example.com/cat.png" {
		t.Errorf("photo url = %q", out.Message)
	}
}

func TestComposeOutputVoiceQuestionSpoken(t *testing.T) {
	tb := newTestBot(t)
	tb.bot.sonata = &fakeSonata{url: "https://cdn.example.com/reply.ogg"}

	msg := privateMessage("")
	msg.Voice = &tgbotapi.Voice{FileID: "voice-1"}
	out := tb.bot.composeOutput(context.Background(), msg, "It is noon.")
	if out.ReplyType != ReplyVoice {
		t.Fatalf("reply type = %q, want voice", out.ReplyType)
	}
	if out.Message != "https://cdn.example.com/reply.ogg" {
		t.Errorf("voice url = %q", out.Message)
	}
}

func TestComposeOutputSpeechFailureDegradesToText(t *testing.T) {
	tb := newTestBot(t)
	tb.bot.sonata = &fakeSonata{err: errors.New("sonata down")}

	msg := privateMessage("")
	msg.Voice = &tgbotapi.Voice{FileID: "voice-1"}
	out := tb.bot.composeOutput(context.Background(), msg, "It is noon.")
	if out.ReplyType != ReplyText || out.Message != "It is noon." {
		t.Errorf("got %+v, want the plain text fallback", out)
	}
}

func TestComposeOutputDisabledSpeechDegradesToText(t *testing.T) {
	tb := newTestBot(t)

	msg := privateMessage("")
	msg.Voice = &tgbotapi.Voice{FileID: "voice-1"}
	out := tb.bot.composeOutput(context.Background(), msg, "It is noon.")
	if out.ReplyType != ReplyText || out.Message != "It is noon." {
		t.Errorf("got %+v, want the plain text fallback", out)
	}
}

func TestComposeOutputPlainText(t *testing.T) {
	tb := newTestBot(t)
	out := tb.bot.composeOutput(context.Background(), privateMessage("hi"), "Hello!")
	if out.ReplyType != ReplyText || out.Message != "Hello!" {
		t.Errorf("got %+v, want plain text", out)
	}
}

func TestSenderName(t *testing.T) {
	cases := []struct {
		name string
		from *tgbotapi.User
		want string
	}{
		{"first word of first name", &tgbotapi.User{FirstName: "Dewi Lestari"}, "Dewi"},
		{"last name fallback", &tgbotapi.User{LastName: "Lestari"}, "Lestari"},
		{"username fallback", &tgbotapi.User{UserName: "dewi88"}, "dewi88"},
		{"nothing", &tgbotapi.User{}, "Unknown"},
		{"whitespace-only first name", &tgbotapi.User{FirstName: " "}, "Unknown"},
		{"whitespace-only last name", &tgbotapi.User{LastName: "  "}, "Unknown"},
		{"no sender", nil, "Unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := &tgbotapi.Message{From: tc.from}
			if got := senderName(msg); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
