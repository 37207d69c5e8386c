// Package server implements the ztun STUN server state machine: decoded
// Messages go in, MessageResults come out. It owns no socket and performs
// no I/O — callers (cmd/ztun, or a test) are responsible for reading and
// writing datagrams.
package server

import (
	stun "github.com/ztun/ztun"
	"github.com/ztun/ztun/auth"
)

// Server runs the request-handling state machine against a fixed set of
// registered users and a per-client nonce table. It is not safe for
// concurrent use without external synchronization.
type Server struct {
	opts   Options
	users  *userRegistry
	nonces *NonceManager

	// OnIndication, when set, is invoked for every accepted indication
	// before Ok is returned. The minimal implementation leaves it nil.
	OnIndication func(msg *stun.Message, source Source)
}

// New constructs a Server from opts, filling in defaults via
// Options.withDefaults.
func New(opts Options) *Server {
	opts = opts.withDefaults()

	return &Server{
		opts:   opts,
		users:  newUserRegistry(),
		nonces: NewNonceManager(opts.Clock),
	}
}

// RegisterUser adds or replaces the credential record for username.
func (s *Server) RegisterUser(username string, cred auth.Credential) {
	s.users.register(username, cred)
}

// HandleMessage runs msg, received from source, through the state
// machine and logs its outcome.
func (s *Server) HandleMessage(msg *stun.Message, source Source) MessageResult {
	result := s.handle(msg, source)
	s.logger().Printf("handle_message kind=%s method=%s source=%s", result.Kind, msg.Type.Method, source)

	return result
}

func (s *Server) handle(msg *stun.Message, source Source) MessageResult {
	if !isMethodAllowed(msg.Type.Method) {
		return discard()
	}

	if hasAttr(msg, stun.AttrFingerprint) {
		if err := stun.Fingerprint.Check(msg); err != nil {
			return discard()
		}
	}

	switch msg.Type.Class {
	case stun.ClassRequest:
		return s.handleRequest(msg, source)
	case stun.ClassIndication:
		return s.handleIndication(msg, source)
	default:
		// success_response and error_response never arrive at a server.
		return discard()
	}
}

func isMethodAllowed(m stun.Method) bool {
	return m == stun.MethodBinding
}

func hasAttr(m *stun.Message, t stun.AttrType) bool {
	_, err := m.Get(t)

	return err == nil
}

func (s *Server) handleRequest(msg *stun.Message, source Source) MessageResult {
	if unknown := msg.Attributes.Unrecognized(); len(unknown) > 0 {
		return s.errorResponse(msg, stun.CodeUnknownAttribute, &stun.UnknownAttributes{Types: unknown})
	}

	switch s.opts.AuthenticationType {
	case AuthNone:
		return s.buildSuccess(msg, source, nil)
	case AuthShortTerm:
		return s.handleShortTerm(msg, source)
	case AuthLongTerm:
		return s.handleLongTerm(msg, source)
	default:
		return discard()
	}
}

func (s *Server) handleIndication(msg *stun.Message, source Source) MessageResult {
	if s.OnIndication != nil {
		s.OnIndication(msg, source)
	}

	return ok()
}

// handleShortTerm implements spec.md's short-term auth state table: no
// integrity attribute, then unknown username, then HMAC mismatch, in
// that order, before falling through to a success response.
func (s *Server) handleShortTerm(msg *stun.Message, source Source) MessageResult {
	hasSHA256 := hasAttr(msg, stun.AttrMessageIntegritySHA256)
	hasSHA1 := hasAttr(msg, stun.AttrMessageIntegrity)
	if !hasSHA1 && !hasSHA256 {
		return s.errorResponse(msg, stun.CodeBadRequest)
	}

	var username stun.Username
	if err := username.GetFrom(msg); err != nil {
		return s.errorResponse(msg, stun.CodeBadRequest)
	}

	cred, known := s.users.lookup(username.String())
	if !known {
		return s.errorResponse(msg, stun.CodeUnauthenticated)
	}

	key, err := auth.ComputeKey(cred)
	if err != nil {
		return discard()
	}

	if hasSHA256 {
		err = stun.MessageIntegritySHA256(key).Check(msg)
	} else {
		err = stun.MessageIntegrity(key).Check(msg)
	}
	if err != nil {
		return s.errorResponse(msg, stun.CodeUnauthenticated)
	}

	return s.buildSuccess(msg, source, key)
}

// handleLongTerm implements spec.md's long-term auth state table,
// evaluated top to bottom; the first matching row decides the outcome.
func (s *Server) handleLongTerm(msg *stun.Message, source Source) MessageResult {
	hasSHA256 := hasAttr(msg, stun.AttrMessageIntegritySHA256)
	hasSHA1 := hasAttr(msg, stun.AttrMessageIntegrity)
	if !hasSHA1 && !hasSHA256 {
		return s.freshNonceError(msg, source, stun.CodeUnauthenticated, Features{})
	}

	var username stun.Username
	hasUsername := username.GetFrom(msg) == nil
	var userhash stun.Userhash
	hasUserhash := userhash.GetFrom(msg) == nil
	var realm stun.Realm
	hasRealm := realm.GetFrom(msg) == nil
	nonceRaw, nonceErr := msg.Get(stun.AttrNonce)
	hasNonce := nonceErr == nil

	if (!hasUsername && !hasUserhash) || !hasRealm || !hasNonce {
		return s.errorResponse(msg, stun.CodeBadRequest)
	}

	parsedNonce, err := ParseNonce(nonceRaw)
	if err != nil {
		return s.freshNonceError(msg, source, stun.CodeStaleNonce, Features{PasswordAlgorithms: true})
	}

	var clientAlgo stun.PasswordAlgorithmAttr
	hasClientAlgo := clientAlgo.GetFrom(msg) == nil
	var clientAlgos stun.PasswordAlgorithms
	hasClientAlgos := clientAlgos.GetFrom(msg) == nil

	if parsedNonce.Features.PasswordAlgorithms && (hasClientAlgo != hasClientAlgos) {
		return s.errorResponse(msg, stun.CodeBadRequest)
	}

	offered := s.offeredAlgorithms()
	if hasClientAlgos && !offered.Equal(clientAlgos) {
		return s.errorResponse(msg, stun.CodeBadRequest)
	}
	if hasClientAlgo && !offered.Contains(clientAlgo.Algorithm.Algorithm) {
		return s.errorResponse(msg, stun.CodeBadRequest)
	}

	// USERHASH-only requests carry no username to resolve (spec.md's
	// open question 3): they passed the presence check above and are
	// answered like an unregistered USERNAME.
	var cred auth.Credential
	var known bool
	if hasUsername {
		cred, known = s.users.lookup(username.String())
	}
	if !hasUsername || !known {
		return s.freshNonceError(msg, source, stun.CodeUnauthenticated, Features{PasswordAlgorithms: true})
	}

	key, err := auth.ComputeKey(cred)
	if err != nil {
		return discard()
	}

	if hasSHA256 {
		err = stun.MessageIntegritySHA256(key).Check(msg)
	} else {
		err = stun.MessageIntegrity(key).Check(msg)
	}
	if err != nil {
		return s.freshNonceError(msg, source, stun.CodeUnauthenticated, Features{})
	}

	if parsedNonce.Validity < s.opts.Clock() {
		return s.freshNonceError(msg, source, stun.CodeStaleNonce, Features{PasswordAlgorithms: true})
	}

	return s.buildSuccess(msg, source, key)
}

func (s *Server) offeredAlgorithms() stun.PasswordAlgorithms {
	algos := make([]stun.PasswordAlgorithm, len(s.opts.Algorithms))
	for i, a := range s.opts.Algorithms {
		algos[i] = stun.PasswordAlgorithm{Algorithm: a}
	}

	return stun.PasswordAlgorithms{Algorithms: algos}
}

// freshNonceError builds an error_response carrying REALM, a fresh or
// refreshed NONCE for source, and (when requested) the server's
// PASSWORD-ALGORITHMS list.
func (s *Server) freshNonceError(msg *stun.Message, source Source, code stun.ErrorCode, features Features) MessageResult {
	nonce := s.nonces.GetOrUpdate(source.String(), features)
	enc := nonce.Encode()

	setters := []stun.Setter{
		stun.NewRealm(s.opts.Realm),
		stun.NewNonce(string(enc[:])),
	}
	if features.PasswordAlgorithms {
		algos := s.offeredAlgorithms()
		setters = append(setters, &algos)
	}

	return s.errorResponse(msg, code, setters...)
}

func (s *Server) errorResponse(req *stun.Message, code stun.ErrorCode, setters ...stun.Setter) MessageResult {
	m := new(stun.Message)
	m.Type = stun.MessageType{Class: stun.ClassErrorResponse, Method: stun.MethodBinding}
	m.TransactionID = req.TransactionID

	errAttr := &stun.ErrorCodeAttribute{Code: code, Reason: []byte(code.Reason())}
	if err := errAttr.AddTo(m); err != nil {
		return discard()
	}
	for _, st := range setters {
		if err := st.AddTo(m); err != nil {
			return discard()
		}
	}
	if err := stun.NewSoftware(stun.SoftwareName).AddTo(m); err != nil {
		return discard()
	}
	m.WriteHeader()

	return response(m)
}

func (s *Server) buildSuccess(req *stun.Message, source Source, key []byte) MessageResult {
	m := new(stun.Message)
	m.Type = stun.MessageType{Class: stun.ClassSuccessResponse, Method: stun.MethodBinding}
	m.TransactionID = req.TransactionID
	m.WriteHeader()

	addr := stun.XORMappedAddress{IP: source.IP, Port: source.Port}
	if err := addr.AddTo(m); err != nil {
		return discard()
	}
	if err := stun.NewSoftware(stun.SoftwareName).AddTo(m); err != nil {
		return discard()
	}

	if key != nil {
		var err error
		if hasAttr(req, stun.AttrMessageIntegritySHA256) {
			err = stun.MessageIntegritySHA256(key).AddTo(m)
		} else {
			err = stun.MessageIntegrity(key).AddTo(m)
		}
		if err != nil {
			return discard()
		}
	}

	if err := stun.Fingerprint.AddTo(m); err != nil {
		return discard()
	}
	m.WriteLength()

	return response(m)
}
