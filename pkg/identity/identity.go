// Package identity resolves which caller identity is active for a session.
//
// A session may carry a User login, a Buyer login, both, or neither. The
// resolved Identity is a closed union over those cases; a User login always
// takes priority over a Buyer login.
package identity

import "fmt"

// Kind discriminates the Identity union.
type Kind int

const (
	KindAnonymous Kind = iota
	KindUser
	KindBuyer
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindBuyer:
		return "buyer"
	default:
		return "anonymous"
	}
}

// ParseRole maps a role string such as a URL path segment or a token claim
// onto User or Buyer.
func ParseRole(role string) (Kind, error) {
	switch role {
	case "user":
		return KindUser, nil
	case "buyer":
		return KindBuyer, nil
	}
	return KindAnonymous, fmt.Errorf("unknown role %q", role)
}

// Identity is the active caller. The zero value is Anonymous.
type Identity struct {
	Kind  Kind
	ID    string
	Token string
}

// Anonymous is the identity of a caller with no session.
var Anonymous = Identity{}

// User builds a User identity.
func User(id, token string) Identity {
	return Identity{Kind: KindUser, ID: id, Token: token}
}

// Buyer builds a Buyer identity.
func Buyer(id, token string) Identity {
	return Identity{Kind: KindBuyer, ID: id, Token: token}
}

// IsAnonymous reports whether no session is active.
func (i Identity) IsAnonymous() bool {
	return i.Kind == KindAnonymous
}

// Role is the path segment the wishlist endpoints are scoped by.
func (i Identity) Role() string {
	return i.Kind.String()
}

// Key identifies the owner independently of the token, so a refreshed token
// for the same account maps to the same key.
func (i Identity) Key() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return i.Kind.String() + ":" + i.ID
}

func (i Identity) String() string {
	return i.Key()
}
