package domain

// Conversation is the thread a user talks to the assistant in.
type Conversation struct {
	ID        ConversationID
	UserID    UserID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Record is anything persisted in a conversation timeline.
// Implemented only by *Message and *Response.
type Record interface {
	RecordID() MessageID
	record()
}

// Message is an incoming user message.
type Message struct {
	ID             MessageID
	ConversationID ConversationID
	Sender         Role
	Content        string
	CreatedAt      Timestamp
}

func (m *Message) RecordID() MessageID { return m.ID }
func (*Message) record()               {}

// Response is a generated reply to a Message.
type Response struct {
	ID             MessageID
	ConversationID ConversationID
	MessageID      MessageID // originating user message
	Content        string
	ResponseType   ResponseType
	CreatedAt      Timestamp
}

func (r *Response) RecordID() MessageID { return r.ID }
func (*Response) record()               {}
