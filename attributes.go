package stun

import "fmt"

// AttrType is a 16-bit attribute type as carried on the wire. Types in
// 0x0000-0x7FFF are comprehension-required: a STUN agent that does not
// recognize them MUST reject the message (UNKNOWN-ATTRIBUTES, §4.6.1).
// Types in 0x8000-0xFFFF are comprehension-optional and may be ignored.
type AttrType uint16

// Recognized attribute types. Numeric values per RFC 8489 §18.3/§18.4.
const (
	AttrMappedAddress          AttrType = 0x0001
	AttrUsername               AttrType = 0x0006
	AttrMessageIntegrity       AttrType = 0x0008
	AttrErrorCode              AttrType = 0x0009
	AttrUnknownAttributes      AttrType = 0x000A
	AttrRealm                  AttrType = 0x0014
	AttrNonce                  AttrType = 0x0015
	AttrMessageIntegritySHA256 AttrType = 0x001C
	AttrPasswordAlgorithm      AttrType = 0x001D
	AttrUserhash               AttrType = 0x001E
	AttrXORMappedAddress       AttrType = 0x0020
	AttrPasswordAlgorithms     AttrType = 0x8002
	AttrAlternateDomain        AttrType = 0x8003
	AttrSoftware               AttrType = 0x8022
	AttrAlternateServer        AttrType = 0x8023
	AttrFingerprint            AttrType = 0x8028
)

var attrNames = map[AttrType]string{ //nolint:gochecknoglobals
	AttrMappedAddress:          "MAPPED-ADDRESS",
	AttrUsername:               "USERNAME",
	AttrMessageIntegrity:       "MESSAGE-INTEGRITY",
	AttrErrorCode:              "ERROR-CODE",
	AttrUnknownAttributes:      "UNKNOWN-ATTRIBUTES",
	AttrRealm:                  "REALM",
	AttrNonce:                  "NONCE",
	AttrMessageIntegritySHA256: "MESSAGE-INTEGRITY-SHA256",
	AttrPasswordAlgorithm:      "PASSWORD-ALGORITHM",
	AttrUserhash:               "USERHASH",
	AttrXORMappedAddress:       "XOR-MAPPED-ADDRESS",
	AttrPasswordAlgorithms:     "PASSWORD-ALGORITHMS",
	AttrAlternateDomain:        "ALTERNATE-DOMAIN",
	AttrSoftware:               "SOFTWARE",
	AttrAlternateServer:        "ALTERNATE-SERVER",
	AttrFingerprint:            "FINGERPRINT",
}

func (t AttrType) String() string {
	if name, ok := attrNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint16(t))
}

// comprehensionRequiredMax is the highest attribute type value that is
// comprehension-required; see RFC 8489 §14.
const comprehensionRequiredMax = 0x7FFF

// IsComprehensionRequired reports whether t lies in the
// comprehension-required range 0x0000-0x7FFF.
func (t AttrType) IsComprehensionRequired() bool {
	return uint16(t) <= comprehensionRequiredMax
}

// IsRecognized reports whether t is one of the attribute types this
// codec has a typed view for.
func (t AttrType) IsRecognized() bool {
	_, ok := attrNames[t]
	return ok
}

// RawAttribute is the on-wire (type, length, value) shape every
// attribute is first decoded into; typed views (Username, Nonce, ...)
// are parsed from it on demand.
type RawAttribute struct {
	Type   AttrType
	Length uint16
	Value  []byte
}

// Equal returns true if a and b carry the same type and value.
func (a RawAttribute) Equal(b RawAttribute) bool {
	if a.Type != b.Type || a.Length != b.Length || len(a.Value) != len(b.Value) {
		return false
	}
	for i, v := range a.Value {
		if b.Value[i] != v {
			return false
		}
	}
	return true
}

func (a RawAttribute) String() string {
	return fmt.Sprintf("%s: 0x%x", a.Type, a.Value)
}

// Attributes is the ordered attribute list of a Message. Order is
// semantically significant: MESSAGE-INTEGRITY precedes
// MESSAGE-INTEGRITY-SHA256 which precedes FINGERPRINT.
type Attributes []RawAttribute

// Get returns the first attribute of type t.
func (a Attributes) Get(t AttrType) (RawAttribute, bool) {
	for _, candidate := range a {
		if candidate.Type == t {
			return candidate, true
		}
	}
	return RawAttribute{}, false
}

// Unrecognized returns the distinct comprehension-required attribute
// types in a that this codec does not recognize, in first-seen order.
// Used by the server to build the 420 UNKNOWN-ATTRIBUTES response.
func (a Attributes) Unrecognized() []AttrType {
	var unknown []AttrType
	seen := make(map[AttrType]bool)
	for _, attr := range a {
		if attr.Type.IsRecognized() || !attr.Type.IsComprehensionRequired() {
			continue
		}
		if seen[attr.Type] {
			continue
		}
		seen[attr.Type] = true
		unknown = append(unknown, attr.Type)
	}
	return unknown
}

// AddSoftwareBytes adds SOFTWARE attribute with value from byte slice.
func (m *Message) AddSoftwareBytes(software []byte) {
	m.Add(AttrSoftware, software)
}

// AddSoftware adds SOFTWARE attribute with value from string.
func (m *Message) AddSoftware(software string) {
	m.Add(AttrSoftware, []byte(software))
}

// GetSoftwareBytes returns SOFTWARE attribute value in byte slice.
// If not found, returns nil.
func (m *Message) GetSoftwareBytes() []byte {
	v, _ := m.Get(AttrSoftware)
	return v
}

// GetSoftware returns SOFTWARE attribute value in string.
// If not found, returns the empty string.
func (m *Message) GetSoftware() string {
	return string(m.GetSoftwareBytes())
}
