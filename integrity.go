// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package stun

import (
	"crypto/hmac"
	"crypto/md5"  //nolint:gosec
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
)

// separator for credentials.
const credentialsSep = ":"

// NewLongTermIntegrity returns new MessageIntegrity with key for long-term
// credentials. Password, username, and realm must be OpaqueString-prepared.
func NewLongTermIntegrity(username, realm, password string) MessageIntegrity {
	k := strings.Join([]string{username, realm, password}, credentialsSep)
	h := md5.New()   //nolint:gosec
	fmt.Fprint(h, k) //nolint:errcheck

	return MessageIntegrity(h.Sum(nil))
}

// NewLongTermIntegritySHA256 returns new MessageIntegritySHA256 with key for
// long-term credentials, for servers negotiating the SHA-256 password
// algorithm. Password, username, and realm must be OpaqueString-prepared.
func NewLongTermIntegritySHA256(username, realm, password string) MessageIntegritySHA256 {
	k := strings.Join([]string{username, realm, password}, credentialsSep)
	h := sha256.New()
	fmt.Fprint(h, k) //nolint:errcheck

	return MessageIntegritySHA256(h.Sum(nil))
}

// NewShortTermIntegrity returns new MessageIntegrity with key for short-term
// credentials. Password must be OpaqueString-prepared.
func NewShortTermIntegrity(password string) MessageIntegrity {
	return MessageIntegrity(password)
}

// NewShortTermIntegritySHA256 returns new MessageIntegritySHA256 with key
// for short-term credentials. Password must be OpaqueString-prepared.
func NewShortTermIntegritySHA256(password string) MessageIntegritySHA256 {
	return MessageIntegritySHA256(password)
}

// MessageIntegrity represents MESSAGE-INTEGRITY attribute.
//
// RFC 8489 Section 14.5.
type MessageIntegrity []byte

// MessageIntegritySHA256 represents MESSAGE-INTEGRITY-SHA256 attribute.
//
// RFC 8489 Section 14.6.
type MessageIntegritySHA256 []byte

func (i MessageIntegrity) String() string {
	return fmt.Sprintf("KEY: 0x%x", []byte(i))
}

func (i MessageIntegritySHA256) String() string {
	return fmt.Sprintf("KEY: 0x%x", []byte(i))
}

const messageIntegritySize = 20
const messageIntegritySHA256Size = 32

// ErrFingerprintBeforeIntegrity means that FINGERPRINT attribute is already in
// message, so MESSAGE-INTEGRITY attribute cannot be added.
var ErrFingerprintBeforeIntegrity = errors.New("FINGERPRINT before MESSAGE-INTEGRITY attribute")

// AddTo adds MESSAGE-INTEGRITY attribute to message.
func (i MessageIntegrity) AddTo(msg *Message) error {
	for _, a := range msg.Attributes {
		// Message should not contain FINGERPRINT attribute
		// before MESSAGE-INTEGRITY.
		if a.Type == AttrFingerprint {
			return ErrFingerprintBeforeIntegrity
		}
	}
	// The text used as input to HMAC is the STUN message,
	// including the header, up to and including the attribute preceding the
	// MESSAGE-INTEGRITY attribute.
	length := msg.Length
	// Adjusting m.Length to contain MESSAGE-INTEGRITY TLV.
	msg.Length += messageIntegritySize + attributeHeaderSize
	msg.WriteLength() // writing length to m.Raw
	mac := hmac.New(sha1.New, i)
	mac.Write(msg.Raw) //nolint:errcheck
	v := mac.Sum(nil)
	msg.Length = length // changing m.Length back

	msg.Add(AttrMessageIntegrity, v)

	return nil
}

// AddTo adds MESSAGE-INTEGRITY-SHA256 attribute to message. Invariant 4:
// whenever FINGERPRINT is present, MESSAGE-INTEGRITY-SHA256 must precede it,
// just as MESSAGE-INTEGRITY does.
func (i MessageIntegritySHA256) AddTo(msg *Message) error {
	for _, a := range msg.Attributes {
		if a.Type == AttrFingerprint {
			return ErrFingerprintBeforeIntegrity
		}
	}
	length := msg.Length
	msg.Length += messageIntegritySHA256Size + attributeHeaderSize
	msg.WriteLength()
	mac := hmac.New(sha256.New, i)
	mac.Write(msg.Raw) //nolint:errcheck
	v := mac.Sum(nil)
	msg.Length = length

	msg.Add(AttrMessageIntegritySHA256, v)

	return nil
}

// ErrIntegrityMismatch means that computed HMAC differs from expected.
var ErrIntegrityMismatch = errors.New("integrity check failed")

// Check checks MESSAGE-INTEGRITY attribute.
func (i MessageIntegrity) Check(msg *Message) error {
	val, err := msg.Get(AttrMessageIntegrity)
	if err != nil {
		return err
	}

	b, err := rawBeforeAttr(msg, AttrMessageIntegrity, messageIntegritySize)
	if err != nil {
		return err
	}
	mac := hmac.New(sha1.New, i)
	mac.Write(b) //nolint:errcheck
	expected := mac.Sum(nil)

	if !hmac.Equal(val, expected) {
		return ErrIntegrityMismatch
	}
	return nil
}

// Check checks MESSAGE-INTEGRITY-SHA256 attribute.
func (i MessageIntegritySHA256) Check(msg *Message) error {
	val, err := msg.Get(AttrMessageIntegritySHA256)
	if err != nil {
		return err
	}

	b, err := rawBeforeAttr(msg, AttrMessageIntegritySHA256, messageIntegritySHA256Size)
	if err != nil {
		return err
	}
	mac := hmac.New(sha256.New, i)
	mac.Write(b) //nolint:errcheck
	expected := mac.Sum(nil)

	if !hmac.Equal(val, expected) {
		return ErrIntegrityMismatch
	}
	return nil
}

// rawBeforeAttr recomputes the header length as it was when attr was added
// (pre-inflated by attr's own size, excluding every attribute that follows
// it) and returns the message bytes up to but excluding attr's TLV.
func rawBeforeAttr(msg *Message, attr AttrType, size int) ([]byte, error) {
	var (
		length         = msg.Length
		afterAttr      bool
		sizeReduced    int
	)
	for _, a := range msg.Attributes {
		if afterAttr {
			sizeReduced += nearestPaddedValueLength(int(a.Length))
			sizeReduced += attributeHeaderSize
		}
		if a.Type == attr {
			afterAttr = true
		}
	}
	msg.Length -= uint32(sizeReduced) //nolint:gosec // G115
	msg.WriteLength()
	startOfAttr := messageHeaderSize + msg.Length - uint32(attributeHeaderSize+size) //nolint:gosec // G115
	b := msg.Raw[:startOfAttr]
	msg.Length = length
	msg.WriteLength()
	return b, nil
}
