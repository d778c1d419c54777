package transcript

// Activity types produced by the converter.
const (
	ActivityMessage = "message"
	ActivityTyping  = "typing"
)

// Participant roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// DefaultChannelID marks transcripts produced by this tool unless the
// script says otherwise.
const DefaultChannelID = "chatdown"

// ChannelAccount identifies one conversation participant.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID string `json:"id"`
}

// Activity is one structured record of the converted transcript.
type Activity struct {
	Type         string              `json:"type"`
	ID           string              `json:"id"`
	Timestamp    string              `json:"timestamp"`
	ChannelID    string              `json:"channelId"`
	From         ChannelAccount      `json:"from"`
	Recipient    ChannelAccount      `json:"recipient"`
	Conversation ConversationAccount `json:"conversation"`
	Text         string              `json:"text,omitempty"`
}
