package chat

import "github.com/corpusai/corpuschat/llm"

// ReplyKind tags how a reply is delivered.
type ReplyKind int

const (
	// ReplyComplete carries the full answer text; no retrieval happened.
	ReplyComplete ReplyKind = iota
	// ReplyIncremental carries a live fragment stream; retrieval happened.
	ReplyIncremental
)

// Reply is the engine's answer to one user turn. Branch on Kind: Text is set
// for ReplyComplete, Stream for ReplyIncremental.
//
// For complete replies the engine has already appended the assistant turn to
// the conversation. For incremental replies the caller appends the consumed
// text (Stream.Text) once it stops reading; a partial prefix is valid.
type Reply struct {
	Kind   ReplyKind
	Text   string
	Stream *llm.Stream
}
