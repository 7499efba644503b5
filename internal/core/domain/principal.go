package domain

import (
	"sort"
	"time"
)

// Principal is the authenticated identity of a single request together with
// the flattened set of authority names reachable through the user's roles.
// It is computed per request and never shared between requests.
type Principal struct {
	UserID      int64
	Username    string
	authorities map[string]struct{}
}

// NewPrincipal builds a Principal from the given authority names.
func NewPrincipal(userID int64, username string, authorities []string) *Principal {
	set := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		set[a] = struct{}{}
	}
	return &Principal{UserID: userID, Username: username, authorities: set}
}

// Has reports whether the principal holds the authority.
func (p *Principal) Has(authority string) bool {
	_, ok := p.authorities[authority]
	return ok
}

// HasAll reports whether the principal holds every listed authority.
// An empty requirement is always satisfied.
func (p *Principal) HasAll(required ...string) bool {
	for _, a := range required {
		if !p.Has(a) {
			return false
		}
	}
	return true
}

// Authorities returns the authority names in sorted order.
func (p *Principal) Authorities() []string {
	out := make([]string, 0, len(p.authorities))
	for a := range p.authorities {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// TokenTypeBearer is the token type reported to clients.
const TokenTypeBearer = "Bearer"

// Token is an issued bearer credential.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}
