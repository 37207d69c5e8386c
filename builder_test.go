package stun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageBuilder_InvalidMessage(t *testing.T) {
	_, err := NewMessageBuilder().Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = NewMessageBuilder().SetClass(ClassRequest).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = NewMessageBuilder().
		SetClass(ClassRequest).
		SetMethod(MethodBinding).
		Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMessageBuilder_RoundTrip(t *testing.T) {
	m, err := NewMessageBuilder().
		SetClass(ClassRequest).
		SetMethod(MethodBinding).
		RandomTransactionID().
		AddAttribute(NewSoftware("ztun")).
		AddFingerprint().
		Build()
	assert.NoError(t, err)

	decoded, err := ReadMessage(m.reader())
	assert.NoError(t, err)
	assert.True(t, decoded.Equal(m))
	assert.NoError(t, Fingerprint.Check(decoded))
}

func TestMessageBuilder_AttributeOrder(t *testing.T) {
	key := []byte("pass")
	m, err := NewMessageBuilder().
		SetClass(ClassRequest).
		SetMethod(MethodBinding).
		RandomTransactionID().
		AddFingerprint().          // requested before integrity calls below...
		AddMessageIntegritySHA256(key).
		AddMessageIntegrity(key). // ...but must still be appended first
		Build()
	assert.NoError(t, err)

	var (
		idxIntegrity, idxIntegritySHA256, idxFingerprint int
	)
	for i, a := range m.Attributes {
		switch a.Type {
		case AttrMessageIntegrity:
			idxIntegrity = i
		case AttrMessageIntegritySHA256:
			idxIntegritySHA256 = i
		case AttrFingerprint:
			idxFingerprint = i
		}
	}
	assert.Less(t, idxIntegrity, idxIntegritySHA256)
	assert.Less(t, idxIntegritySHA256, idxFingerprint)

	assert.NoError(t, MessageIntegrity(key).Check(m))
	assert.NoError(t, MessageIntegritySHA256(key).Check(m))
	assert.NoError(t, Fingerprint.Check(m))
}

func TestMessageBuilder_LongTerm(t *testing.T) {
	integrity := NewLongTermIntegrity("user", "realm", "pass")
	assert.Equal(t, "84 93 fb c5 3b a5 82 fb 4c 04 4c 45 6b dc 40 eb",
		hexSpaced(integrity))

	m, err := NewMessageBuilder().
		SetClass(ClassRequest).
		SetMethod(MethodBinding).
		RandomTransactionID().
		AddAttribute(NewUsername("user")).
		AddAttribute(NewRealm("realm")).
		AddAttribute(NewNonce("nonce")).
		AddMessageIntegrity(integrity).
		Build()
	assert.NoError(t, err)
	assert.NoError(t, integrity.Check(m))
}

func hexSpaced(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*3)
	for i, v := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hexdigits[v>>4], hexdigits[v&0xf])
	}

	return string(out)
}
