// Package eligibility decides whether the bot should answer a given inbound
// message. In private chats the bot always answers; in group chats it answers
// only when it is plausibly being addressed, so it does not spam every
// message.
package eligibility

import "strings"

// Signals are the facts about one inbound message that the decision depends
// on. All of them are computed by the gateway before calling ShouldRespond.
type Signals struct {
	FromBot            bool // the sender is the bot itself
	PrivateChat        bool // one-on-one chat
	ReplyToBot         bool // the message replies to one of the bot's messages
	MentionsBot        bool // the text names the bot
	RecentlyInteracted bool // the bot addressed this sender here within the decay window
	HasQuestionMark    bool // the raw text contains "?"
	MentionsOtherUsers bool // the message @-mentions someone, and not the bot
}

// ShouldRespond reports whether the bot must generate a reply. A follow-up
// question inside the decay window counts as still addressing the bot, unless
// it mentions somebody else.
func ShouldRespond(s Signals) bool {
	if s.FromBot {
		return false
	}
	return s.PrivateChat ||
		s.ReplyToBot ||
		s.MentionsBot ||
		(s.RecentlyInteracted && s.HasQuestionMark && !s.MentionsOtherUsers)
}

// MentionsBot reports whether text names the bot by display name or username,
// case-insensitively.
func MentionsBot(text, botName, botUsername string) bool {
	msg := strings.ToLower(text)
	return strings.Contains(msg, strings.ToLower(botName)) ||
		strings.Contains(msg, strings.ToLower(botUsername))
}
