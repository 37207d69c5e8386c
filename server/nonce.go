package server

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
)

// nonceCookie is the 9-byte implementation-defined literal prefix that
// makes this server's NONCE values self-identifying, per spec.md's
// EXTERNAL INTERFACES section.
const nonceCookie = "ztunNonce"

const (
	nonceCookieSize   = 9
	nonceFeaturesB64  = 4 // 3 raw bytes, base64-encoded
	nonceFeaturesRaw  = 3
	noncePayloadSize  = 16 // id(8) + validity(8)
	nonceTotalSize    = nonceCookieSize + nonceFeaturesB64 + noncePayloadSize
	nonceValidityUsec = 60_000_000 // 60 seconds, spec.md's get_or_update default

	passwordAlgorithmsBit uint32 = 1 << 23
	usernameAnonymityBit  uint32 = 1 << 22
)

// ErrInvalidNonce means the byte slice is shorter than the fixed
// 29-byte nonce encoding, or its 4-byte features field is not valid
// base64.
var ErrInvalidNonce = errors.New("invalid nonce: wrong length")

// ErrInvalidCookieStart means the nonce's 9-byte prefix does not match
// nonceCookie.
var ErrInvalidCookieStart = errors.New("invalid nonce: bad cookie prefix")

// Features are the per-nonce security-feature flags spec.md describes:
// bit 23 (password-algorithms) and bit 22 (username-anonymity) of a
// 3-byte, base64-encoded field. Bits 0-21 are reserved and always zero.
type Features struct {
	PasswordAlgorithms bool
	UsernameAnonymity  bool
}

func (f Features) encode() [nonceFeaturesRaw]byte {
	var v uint32
	if f.PasswordAlgorithms {
		v |= passwordAlgorithmsBit
	}
	if f.UsernameAnonymity {
		v |= usernameAnonymityBit
	}

	return [nonceFeaturesRaw]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

func decodeFeatures(b [nonceFeaturesRaw]byte) Features {
	v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])

	return Features{
		PasswordAlgorithms: v&passwordAlgorithmsBit != 0,
		UsernameAnonymity:  v&usernameAnonymityBit != 0,
	}
}

// Nonce is the server-issued opaque token of spec.md's DATA MODEL:
// a 13-byte fixed prefix (9-byte cookie + 4-byte base64 security
// features) followed by a 16-byte payload (id, validity), 29 bytes
// total on the wire.
type Nonce struct {
	Features Features
	// ID is always zero in this implementation; spec.md's open
	// question 4 notes this offers no replay protection beyond the
	// validity window, and preserves that behavior rather than adding
	// a counter.
	ID uint64
	// Validity is the expiry time in microseconds since the Unix
	// epoch, comparable against a NonceManager's clock.
	Validity uint64
}

// Encode renders n as its 29-byte wire form.
func (n Nonce) Encode() [nonceTotalSize]byte {
	var out [nonceTotalSize]byte
	copy(out[0:nonceCookieSize], nonceCookie)
	raw := n.Features.encode()
	base64.StdEncoding.Encode(out[nonceCookieSize:nonceCookieSize+nonceFeaturesB64], raw[:])
	binary.LittleEndian.PutUint64(out[13:21], n.ID)
	binary.LittleEndian.PutUint64(out[21:29], n.Validity)

	return out
}

// ParseNonce decodes b into a Nonce, or fails with ErrInvalidNonce /
// ErrInvalidCookieStart.
func ParseNonce(b []byte) (Nonce, error) {
	if len(b) < nonceTotalSize {
		return Nonce{}, ErrInvalidNonce
	}
	if string(b[0:nonceCookieSize]) != nonceCookie {
		return Nonce{}, ErrInvalidCookieStart
	}
	var raw [nonceFeaturesRaw]byte
	n, err := base64.StdEncoding.Decode(raw[:], b[nonceCookieSize:nonceCookieSize+nonceFeaturesB64])
	if err != nil || n != nonceFeaturesRaw {
		return Nonce{}, ErrInvalidNonce
	}

	return Nonce{
		Features: decodeFeatures(raw),
		ID:       binary.LittleEndian.Uint64(b[13:21]),
		Validity: binary.LittleEndian.Uint64(b[21:29]),
	}, nil
}

// NonceManager mints, refreshes, and validates per-client nonces. It is
// owned by a single Server and, per spec.md's CONCURRENCY & RESOURCE
// MODEL, is not internally synchronized: callers needing concurrent
// access wrap the owning Server in a mutex.
type NonceManager struct {
	clients map[string]Nonce
	now     func() uint64
}

// NewNonceManager returns a NonceManager whose clock is now (expected
// to return microseconds since the Unix epoch, monotonically
// non-decreasing across calls).
func NewNonceManager(now func() uint64) *NonceManager {
	return &NonceManager{
		clients: make(map[string]Nonce),
		now:     now,
	}
}

// GetOrUpdate returns the valid nonce for source, minting or replacing
// it if none exists, it has expired, or its feature bits no longer
// match what this response needs.
func (m *NonceManager) GetOrUpdate(source string, features Features) Nonce {
	now := m.now()
	existing, ok := m.clients[source]
	if !ok || now > existing.Validity || existing.Features != features {
		fresh := Nonce{
			Features: features,
			ID:       0,
			Validity: now + nonceValidityUsec,
		}
		m.clients[source] = fresh

		return fresh
	}

	return existing
}
