// Package stun implements Session Traversal Utilities for NAT (STUN) as
// defined by RFC 8489.
//
// Definitions
//
// STUN Agent: A STUN agent is an entity that implements the STUN
// protocol. The entity can be either a STUN client or a STUN
// server.
//
// STUN Client: A STUN client is an entity that sends STUN requests and
// receives STUN responses. A STUN client can also send indications.
//
// STUN Server: A STUN server is an entity that receives STUN requests
// and sends STUN responses. A STUN server can also send indications.
//
// Transport Address: The combination of an IP address and Port number
// (such as a UDP or TCP Port number).
package stun

import "encoding/binary"

// bin is shorthand to binary.BigEndian.
var bin = binary.BigEndian

// DefaultPort is IANA assigned Port for "stun" protocol.
const DefaultPort = 3478

// SoftwareName is the value the server package attaches as the
// SOFTWARE attribute on every response it builds.
const SoftwareName = "ztun v0.1.0"
