package server

import stun "github.com/ztun/ztun"

// ResultKind discriminates the three shapes Server.HandleMessage can
// return: spec.md's MessageResult = Discard | Ok | Response(Message).
type ResultKind int

const (
	// ResultDiscard means the caller should drop the packet silently.
	ResultDiscard ResultKind = iota
	// ResultOk means the message was valid and handled but produces no
	// outbound message (indications).
	ResultOk
	// ResultResponse carries an outbound Message the caller should send.
	ResultResponse
)

func (k ResultKind) String() string {
	switch k {
	case ResultDiscard:
		return "discard"
	case ResultOk:
		return "ok"
	case ResultResponse:
		return "response"
	default:
		return "unknown"
	}
}

// MessageResult is the outcome of a single HandleMessage call.
type MessageResult struct {
	Kind    ResultKind
	Message *stun.Message
}

func discard() MessageResult {
	return MessageResult{Kind: ResultDiscard}
}

func ok() MessageResult {
	return MessageResult{Kind: ResultOk}
}

func response(m *stun.Message) MessageResult {
	return MessageResult{Kind: ResultResponse, Message: m}
}
