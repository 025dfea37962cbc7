package events

import "github.com/koscakluka/tonechat/core/replies"

const (
	KindReplyReceived Kind = "reply.received"
	KindReplyFailed   Kind = "reply.failed"
)

// ReplyReceived carries the reply to the request of turn TurnID.
type ReplyReceived struct {
	Base
	TurnID string
	Reply  replies.Reply
}

func NewReplyReceived(turnID string, reply replies.Reply) ReplyReceived {
	return ReplyReceived{Base: NewBase(KindReplyReceived), TurnID: turnID, Reply: reply}
}

// ReplyFailed marks that the request of turn TurnID failed, either with a
// non-success status or in transport.
type ReplyFailed struct {
	Base
	TurnID string
	Err    error
}

func NewReplyFailed(turnID string, err error) ReplyFailed {
	return ReplyFailed{Base: NewBase(KindReplyFailed), TurnID: turnID, Err: err}
}
