package stun

// UNKNOWN-ATTRIBUTES attribute, RFC 8489 Section 14.13. Present only in
// a 420 error response: a list of 16-bit attribute types the server
// did not understand.
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|      Attribute 1 Type           |     Attribute 2 Type        |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|      Attribute 3 Type           |     Attribute 4 Type    ...
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+

// unknownAttributesReportMax caps how many attribute types a single
// UNKNOWN-ATTRIBUTES value reports. RFC 8489 does not bound this, but
// the error_response must go out regardless of how many comprehension-
// required types a request carried, so AddTo truncates rather than
// failing — spec.md requires the 420 response itself to always be
// sent, not dropped because the report would be long.
const unknownAttributesReportMax = 64

// UnknownAttributes is the UNKNOWN-ATTRIBUTES attribute.
type UnknownAttributes struct {
	Types []AttrType
}

// AddTo adds UNKNOWN-ATTRIBUTES to m, reporting at most
// unknownAttributesReportMax of u.Types.
func (u UnknownAttributes) AddTo(m *Message) error {
	types := u.Types
	if len(types) > unknownAttributesReportMax {
		types = types[:unknownAttributesReportMax]
	}
	value := make([]byte, 2*len(types))
	for i, t := range types {
		bin.PutUint16(value[i*2:], uint16(t))
	}
	m.Add(AttrUnknownAttributes, value)

	return nil
}

// GetFrom decodes UNKNOWN-ATTRIBUTES from m.
func (u *UnknownAttributes) GetFrom(m *Message) error {
	v, err := m.Get(AttrUnknownAttributes)
	if err != nil {
		return err
	}
	if len(v)%2 != 0 {
		return ErrInvalidAttributeFormat
	}
	u.Types = u.Types[:0]
	for i := 0; i+1 < len(v); i += 2 {
		u.Types = append(u.Types, AttrType(bin.Uint16(v[i:i+2])))
	}

	return nil
}
