package models

// ReplyKind discriminates what a command handler produced. The presentation
// layer switches on it instead of inspecting the payload's shape.
type ReplyKind string

const (
	// ReplyText is a plain text message.
	ReplyText ReplyKind = "text"
	// ReplyDocument is a file to deliver (CSV export, database backup). Text,
	// when set, accompanies the file as a caption.
	ReplyDocument ReplyKind = "document"
)

// Reply is the tagged result of a dispatched command.
type Reply struct {
	Kind     ReplyKind
	Text     string
	FilePath string
}

// TextReply builds a plain text reply.
func TextReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

// DocumentReply builds a file reply with an optional caption.
func DocumentReply(path, caption string) Reply {
	return Reply{Kind: ReplyDocument, FilePath: path, Text: caption}
}

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	ChatID  int64  `json:"chat_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}
