package stun

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// MappedAddress represents MAPPED-ADDRESS attribute.
//
// This attribute is used only by servers for achieving backwards
// compatibility with RFC 3489 clients; the success response in this
// package always attaches XOR-MAPPED-ADDRESS instead.
//
// RFC 5389 Section 15.1.
type MappedAddress struct {
	IP   net.IP
	Port int
}

func (a MappedAddress) String() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(a.Port))
}

// GetFromAs decodes MAPPED-ADDRESS value in message m as an attribute of type t.
func (a *MappedAddress) GetFromAs(m *Message, t AttrType) error {
	value, err := m.Get(t)
	if err != nil {
		return err
	}
	if len(value) <= 4 {
		return ErrInvalidAttributeFormat
	}
	family := bin.Uint16(value[0:2])
	if family != familyIPv6 && family != familyIPv4 {
		return newDecodeErr("mapped address", "family",
			fmt.Sprintf("bad value %d", family),
		)
	}
	ipLen := net.IPv4len
	if family == familyIPv6 {
		ipLen = net.IPv6len
	}
	if len(a.IP) < ipLen {
		a.IP = make(net.IP, ipLen)
	} else {
		a.IP = a.IP[:ipLen]
		for i := range a.IP {
			a.IP[i] = 0
		}
	}
	a.Port = int(bin.Uint16(value[2:4]))
	copy(a.IP, value[4:])

	return nil
}

// AddToAs adds MAPPED-ADDRESS value to m as attrType attribute.
func (a *MappedAddress) AddToAs(m *Message, attrType AttrType) error {
	var (
		family = familyIPv4
		ip     = a.IP
	)
	if len(a.IP) == net.IPv6len {
		if isIPv4(ip) {
			ip = ip[12:16]
		} else {
			family = familyIPv6
		}
	} else if len(ip) != net.IPv4len {
		return ErrBadIPLength
	}
	value := make([]byte, 4+net.IPv6len)
	bin.PutUint16(value[0:2], family)
	bin.PutUint16(value[2:4], uint16(a.Port)) //nolint:gosec // G115
	copy(value[4:], ip)
	m.Add(attrType, value[:4+len(ip)])

	return nil
}

// AddTo adds MAPPED-ADDRESS to message.
func (a *MappedAddress) AddTo(m *Message) error {
	return a.AddToAs(m, AttrMappedAddress)
}

// GetFrom decodes MAPPED-ADDRESS from message.
func (a *MappedAddress) GetFrom(m *Message) error {
	return a.GetFromAs(m, AttrMappedAddress)
}

// AlternateServer represents ALTERNATE-SERVER attribute, naming a
// transport address the client should retry its request against.
// The codec round-trips this attribute fully; the server state
// machine in this package never originates a 300 Try Alternate
// response of its own (no redirection policy is specified), but
// callers building one can reuse this type directly.
//
// RFC 5389 Section 15.11.
type AlternateServer struct {
	IP   net.IP
	Port int
}

func (s AlternateServer) String() string {
	return net.JoinHostPort(s.IP.String(), strconv.Itoa(s.Port))
}

// AddTo adds ALTERNATE-SERVER attribute to message.
func (s *AlternateServer) AddTo(m *Message) error {
	a := (*MappedAddress)(s)

	return a.AddToAs(m, AttrAlternateServer)
}

// GetFrom decodes ALTERNATE-SERVER from message.
func (s *AlternateServer) GetFrom(m *Message) error {
	a := (*MappedAddress)(s)

	return a.GetFromAs(m, AttrAlternateServer)
}

const maxAlternateDomainB = 763

// ErrAlternateDomainTooBig means that ALTERNATE-DOMAIN value is bigger
// than 763 bytes.
var ErrAlternateDomainTooBig = errors.New("ALTERNATE-DOMAIN value bigger than 763 bytes")

// AlternateDomain represents the ALTERNATE-DOMAIN attribute accompanying
// ALTERNATE-SERVER in a 300 Try Alternate response (RFC 8489 Section 17).
type AlternateDomain struct {
	Raw []byte
}

func (d AlternateDomain) String() string {
	return string(d.Raw)
}

// NewAlternateDomain returns *AlternateDomain from a domain string.
func NewAlternateDomain(domain string) *AlternateDomain {
	return &AlternateDomain{Raw: []byte(domain)}
}

// AddTo adds ALTERNATE-DOMAIN to message.
func (d *AlternateDomain) AddTo(m *Message) error {
	if len(d.Raw) > maxAlternateDomainB {
		return ErrAlternateDomainTooBig
	}
	m.Add(AttrAlternateDomain, d.Raw)

	return nil
}

// GetFrom decodes ALTERNATE-DOMAIN from message.
func (d *AlternateDomain) GetFrom(m *Message) error {
	v, err := m.Get(AttrAlternateDomain)
	if err != nil {
		return err
	}
	d.Raw = v

	return nil
}
