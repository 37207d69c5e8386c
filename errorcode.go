package stun

import (
	"errors"
	"fmt"
	"io"
)

// ErrorCode is the numeric STUN error code, e.g. 400, 401, 420, 438.
//
// On the wire it is split into a 3-bit class (code / 100) and an 8-bit
// number (code % 100); see RFC 8489 Section 14.8.
type ErrorCode int

// Error codes used by the server state machine. The server puts the
// phrase Reason returns for each code into every ERROR-CODE attribute
// it builds. The phrases follow RFC 8489, except for 420, whose phrase
// is "Unknown comprehension-required attributes".
const (
	CodeTryAlternate  ErrorCode = 300
	CodeBadRequest    ErrorCode = 400
	CodeUnauthenticated ErrorCode = 401
	CodeUnknownAttribute ErrorCode = 420
	CodeStaleNonce    ErrorCode = 438
	CodeServerError   ErrorCode = 500
)

// Reason returns the reason phrase for c (see the constants above), or
// "Unknown Error" if c is not one of the named constants.
func (c ErrorCode) Reason() string {
	switch c {
	case CodeTryAlternate:
		return "Try Alternate"
	case CodeBadRequest:
		return "Bad Request"
	case CodeUnauthenticated:
		return "Unauthenticated"
	case CodeUnknownAttribute:
		return "Unknown comprehension-required attributes"
	case CodeStaleNonce:
		return "Stale Nonce"
	case CodeServerError:
		return "Server Error"
	default:
		return "Unknown Error"
	}
}

// ErrNoDefaultReason is returned by ErrorCode.AddTo for a code with no
// recommended reason phrase; use ErrorCodeAttribute directly instead.
var ErrNoDefaultReason = errors.New("no default reason for ErrorCode")

// AddTo adds an ERROR-CODE attribute to m using c's default reason
// phrase. Returns ErrNoDefaultReason if c has none.
func (c ErrorCode) AddTo(m *Message) error {
	if c.Reason() == "Unknown Error" {
		return ErrNoDefaultReason
	}
	a := &ErrorCodeAttribute{Code: c, Reason: []byte(c.Reason())}
	return a.AddTo(m)
}

const (
	errorCodeReasonMaxB = 763
	errorCodeValueBase  = 4 // class + number + 2 reserved bytes
	errorCodeClassBase  = 100
)

// ErrReasonTooLong means the ERROR-CODE reason phrase exceeds the
// 763-byte wire limit (RFC 8489 Section 14.8).
var ErrReasonTooLong = errors.New("reason phrase bigger than 763 bytes")

// ErrorCodeAttribute represents the ERROR-CODE attribute with an
// explicit reason phrase, as opposed to ErrorCode's built-in defaults.
type ErrorCodeAttribute struct {
	Code   ErrorCode
	Reason []byte
}

func (c ErrorCodeAttribute) String() string {
	return fmt.Sprintf("%d: %s", c.Code, c.Reason)
}

// AddTo adds ERROR-CODE attribute to m.
func (c *ErrorCodeAttribute) AddTo(m *Message) error {
	if len(c.Reason) > errorCodeReasonMaxB {
		return ErrReasonTooLong
	}
	value := make([]byte, errorCodeValueBase+len(c.Reason))
	num := int(c.Code) % errorCodeClassBase
	class := int(c.Code) / errorCodeClassBase
	value[2] = byte(class)
	value[3] = byte(num)
	copy(value[4:], c.Reason)
	m.Add(AttrErrorCode, value)

	return nil
}

// GetFrom decodes ERROR-CODE attribute from m. Can return
// ErrAttributeNotFound, or io.ErrUnexpectedEOF if the value is shorter
// than the fixed 4-byte prefix.
func (c *ErrorCodeAttribute) GetFrom(m *Message) error {
	v, err := m.Get(AttrErrorCode)
	if err != nil {
		return err
	}
	if len(v) < errorCodeValueBase {
		return io.ErrUnexpectedEOF
	}
	class := int(v[2])
	number := int(v[3])
	code := class*errorCodeClassBase + number
	c.Code = ErrorCode(code)
	c.Reason = v[4:]

	return nil
}
