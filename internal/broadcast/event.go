package broadcast

// Category 事件类别，和会话ID一起构成channel key
type Category string

const (
	CategoryMessage Category = "message"
	CategoryTask    Category = "task"
	CategoryRead    Category = "read"
)

// Event is the wire shape delivered to subscribers: a discriminant plus
// the entity payload rendered for transmission.
type Event struct {
	Type    Category `json:"type"`
	Payload any      `json:"payload,omitempty"`
}

// ReadReceipt 一次mark-read只广播一条回执，不是每条消息一条
type ReadReceipt struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
}

// Key addresses one conversation and one event category.
func Key(conversationID string, category Category) string {
	return string(category) + ":" + conversationID
}
