package models

// Event kinds carried on the bus. Payloads are explicit tagged structs,
// validated at the boundary instead of free-form maps.
const (
	EventChatMessage = "chat_message"
	EventChatUpdate  = "chat_update"
	EventError       = "error"
)

// ChatMessageEvent is fanned out to every live connection in a chat room
// after the message is durably stored. It is self-contained so viewers
// do not have to re-fetch from storage.
type ChatMessageEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// ChatUpdateEvent is fanned out to both participants' chat-list streams
// after a chat is created.
type ChatUpdateEvent struct {
	Type string   `json:"type"`
	Data ChatView `json:"data"`
}

// ErrorEvent is echoed to the sending connection when an inbound
// realtime message could not be persisted.
type ErrorEvent struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// InboundChatMessage is the payload clients send on a chat socket.
type InboundChatMessage struct {
	Message    string  `json:"message"`
	Attachment *string `json:"attachment,omitempty"`
}
