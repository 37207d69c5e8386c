package stun

// MessageBuilder is a staged constructor for outbound messages. Unlike
// Message.Build (which just runs a fixed list of Setters over a fresh
// message), MessageBuilder tracks class/method/transaction-id as
// required fields and enforces the append order invariant 4:
// MESSAGE-INTEGRITY before MESSAGE-INTEGRITY-SHA256 before FINGERPRINT,
// regardless of the order its own setter methods were called in.
type MessageBuilder struct {
	classSet  bool
	methodSet bool
	txIDSet   bool

	class  MessageClass
	method Method
	txID   [TransactionIDSize]byte

	attrs []Setter

	integrityKey        []byte
	wantIntegrity       bool
	integritySHA256Key  []byte
	wantIntegritySHA256 bool
	wantFingerprint     bool
}

// NewMessageBuilder returns an empty *MessageBuilder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// SetClass sets the message class.
func (b *MessageBuilder) SetClass(c MessageClass) *MessageBuilder {
	b.class = c
	b.classSet = true

	return b
}

// SetMethod sets the message method.
func (b *MessageBuilder) SetMethod(m Method) *MessageBuilder {
	b.method = m
	b.methodSet = true

	return b
}

// SetTransactionID sets an explicit transaction id.
func (b *MessageBuilder) SetTransactionID(id [TransactionIDSize]byte) *MessageBuilder {
	b.txID = id
	b.txIDSet = true

	return b
}

// RandomTransactionID sets the transaction id to a fresh crypto/rand value.
func (b *MessageBuilder) RandomTransactionID() *MessageBuilder {
	return b.SetTransactionID(NewTransactionID())
}

// AddAttribute queues s to be applied, in call order, before the
// integrity/fingerprint attributes build adds.
func (b *MessageBuilder) AddAttribute(s Setter) *MessageBuilder {
	b.attrs = append(b.attrs, s)

	return b
}

// AddMessageIntegrity requests a MESSAGE-INTEGRITY attribute computed
// with key, appended ahead of any MESSAGE-INTEGRITY-SHA256 or
// FINGERPRINT requested on this builder.
func (b *MessageBuilder) AddMessageIntegrity(key []byte) *MessageBuilder {
	b.integrityKey = key
	b.wantIntegrity = true

	return b
}

// AddMessageIntegritySHA256 requests a MESSAGE-INTEGRITY-SHA256
// attribute computed with key.
func (b *MessageBuilder) AddMessageIntegritySHA256(key []byte) *MessageBuilder {
	b.integritySHA256Key = key
	b.wantIntegritySHA256 = true

	return b
}

// AddFingerprint requests a trailing FINGERPRINT attribute.
func (b *MessageBuilder) AddFingerprint() *MessageBuilder {
	b.wantFingerprint = true

	return b
}

// BuildError is returned by Build when required fields are missing.
type BuildError string

func (e BuildError) Error() string { return string(e) }

// ErrInvalidMessage means class, method, or transaction id were never
// set on the builder.
const ErrInvalidMessage BuildError = "class, method and transaction id must be set before build"

// Build assembles the final *Message. Ordering is mandatory regardless
// of call order: queued attributes first, then MESSAGE-INTEGRITY, then
// MESSAGE-INTEGRITY-SHA256, then FINGERPRINT.
func (b *MessageBuilder) Build() (*Message, error) {
	if !b.classSet || !b.methodSet || !b.txIDSet {
		return nil, ErrInvalidMessage
	}

	m := New()
	m.Type = MessageType{Class: b.class, Method: b.method}
	m.TransactionID = b.txID
	m.WriteHeader()

	for _, a := range b.attrs {
		if err := a.AddTo(m); err != nil {
			return nil, err
		}
	}
	if b.wantIntegrity {
		if err := MessageIntegrity(b.integrityKey).AddTo(m); err != nil {
			return nil, err
		}
	}
	if b.wantIntegritySHA256 {
		if err := MessageIntegritySHA256(b.integritySHA256Key).AddTo(m); err != nil {
			return nil, err
		}
	}
	if b.wantFingerprint {
		if err := Fingerprint.AddTo(m); err != nil {
			return nil, err
		}
	}
	m.WriteLength()

	return m, nil
}
