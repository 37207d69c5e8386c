package stun

import "io"

// Algorithm is the PASSWORD-ALGORITHM numeric identifier, RFC 8489
// Section 18.5.
type Algorithm uint16

// Recognized password algorithms; the server's default offered list is
// [AlgorithmMD5, AlgorithmSHA256] per spec.md's Server::new default.
const (
	AlgorithmMD5    Algorithm = 0x0001
	AlgorithmSHA256 Algorithm = 0x0002
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmMD5:
		return "MD5"
	case AlgorithmSHA256:
		return "SHA256"
	default:
		return "unknown algorithm"
	}
}

const algorithmHeaderSize = 4 // algorithm(2) + params length(2)

// PasswordAlgorithm is a single (algorithm, parameters) entry as
// carried by both PASSWORD-ALGORITHM and PASSWORD-ALGORITHMS.
type PasswordAlgorithm struct {
	Algorithm Algorithm
	Params    []byte
}

func encodePasswordAlgorithm(dst []byte, a PasswordAlgorithm) []byte {
	var hdr [algorithmHeaderSize]byte
	bin.PutUint16(hdr[0:2], uint16(a.Algorithm))
	bin.PutUint16(hdr[2:4], uint16(len(a.Params)))
	dst = append(dst, hdr[:]...)
	dst = append(dst, a.Params...)
	if rem := len(a.Params) % padding; rem != 0 {
		dst = append(dst, make([]byte, padding-rem)...)
	}

	return dst
}

func decodePasswordAlgorithms(v []byte) ([]PasswordAlgorithm, error) {
	var out []PasswordAlgorithm
	offset := 0
	for offset < len(v) {
		if len(v) < offset+algorithmHeaderSize {
			return nil, io.ErrUnexpectedEOF
		}
		algo := Algorithm(bin.Uint16(v[offset : offset+2]))
		paramsLen := int(bin.Uint16(v[offset+2 : offset+4]))
		offset += algorithmHeaderSize
		padded := nearestPaddedValueLength(paramsLen)
		if len(v) < offset+padded {
			return nil, io.ErrUnexpectedEOF
		}
		out = append(out, PasswordAlgorithm{Algorithm: algo, Params: v[offset : offset+paramsLen]})
		offset += padded
	}

	return out, nil
}

// PasswordAlgorithmAttr is the PASSWORD-ALGORITHM attribute: the single
// algorithm a client chose to use for this request.
type PasswordAlgorithmAttr struct {
	Algorithm PasswordAlgorithm
}

// AddTo adds PASSWORD-ALGORITHM to m.
func (a PasswordAlgorithmAttr) AddTo(m *Message) error {
	m.Add(AttrPasswordAlgorithm, encodePasswordAlgorithm(nil, a.Algorithm))

	return nil
}

// GetFrom decodes PASSWORD-ALGORITHM from m.
func (a *PasswordAlgorithmAttr) GetFrom(m *Message) error {
	v, err := m.Get(AttrPasswordAlgorithm)
	if err != nil {
		return err
	}
	algos, err := decodePasswordAlgorithms(v)
	if err != nil {
		return err
	}
	if len(algos) != 1 {
		return ErrInvalidAttributeFormat
	}
	a.Algorithm = algos[0]

	return nil
}

// PasswordAlgorithms is the PASSWORD-ALGORITHMS attribute: the ordered
// list of algorithms a long-term-auth server offers.
type PasswordAlgorithms struct {
	Algorithms []PasswordAlgorithm
}

// AddTo adds PASSWORD-ALGORITHMS to m.
func (a PasswordAlgorithms) AddTo(m *Message) error {
	var value []byte
	for _, algo := range a.Algorithms {
		value = encodePasswordAlgorithm(value, algo)
	}
	m.Add(AttrPasswordAlgorithms, value)

	return nil
}

// GetFrom decodes PASSWORD-ALGORITHMS from m.
func (a *PasswordAlgorithms) GetFrom(m *Message) error {
	v, err := m.Get(AttrPasswordAlgorithms)
	if err != nil {
		return err
	}
	algos, err := decodePasswordAlgorithms(v)
	if err != nil {
		return err
	}
	a.Algorithms = algos

	return nil
}

// Equal reports whether a and b list the same algorithms, in the same
// order, with identical parameters — the comparison the long-term auth
// state table uses to detect a client disagreeing with the server's
// offered list.
func (a PasswordAlgorithms) Equal(b PasswordAlgorithms) bool {
	if len(a.Algorithms) != len(b.Algorithms) {
		return false
	}
	for i, algo := range a.Algorithms {
		other := b.Algorithms[i]
		if algo.Algorithm != other.Algorithm || len(algo.Params) != len(other.Params) {
			return false
		}
		for j, p := range algo.Params {
			if other.Params[j] != p {
				return false
			}
		}
	}

	return true
}

// Contains reports whether algo appears in a.Algorithms.
func (a PasswordAlgorithms) Contains(algo Algorithm) bool {
	for _, candidate := range a.Algorithms {
		if candidate.Algorithm == algo {
			return true
		}
	}

	return false
}
