// Package admin guards patient registration behind the shared admin secret.
package admin

// Gate compares a password against the configured secret. The comparison is
// plaintext and exact; there is no lockout.
type Gate struct {
	secret string
}

// NewGate creates a gate for secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Attempt reports whether password matches the secret.
func (g *Gate) Attempt(password string) bool {
	return password == g.secret
}
