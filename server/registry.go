package server

import "github.com/ztun/ztun/auth"

// userRegistry maps username to credential record. Per spec.md's DATA
// MODEL, keys are unique and re-registering a username simply replaces
// the prior record — Go's garbage collector takes the place of the
// explicit free-before-replace the spec describes for manual-memory
// targets.
type userRegistry struct {
	users map[string]auth.Credential
}

func newUserRegistry() *userRegistry {
	return &userRegistry{users: make(map[string]auth.Credential)}
}

func (r *userRegistry) register(username string, cred auth.Credential) {
	r.users[username] = cred
}

func (r *userRegistry) lookup(username string) (auth.Credential, bool) {
	cred, ok := r.users[username]

	return cred, ok
}
