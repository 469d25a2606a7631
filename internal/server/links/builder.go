package links

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/profilely/internal/cryptox"
	"github.com/dmitrijs2005/profilely/internal/server/models"
)

// Query parameter names carrying the two halves of a link.
const (
	ParamIntegrity = "token"
	ParamIdentity  = "data"
)

// Payload is the pair of independent tokens a link carries. Identity names
// the account, Integrity proves the link was built for its current state.
type Payload struct {
	Identity  string
	Integrity string
}

// Builder derives and checks payloads. Its hasher is the same one used for
// passwords, so integrity tokens are salted and slow to brute-force.
type Builder struct {
	hasher cryptox.Hasher
}

func NewBuilder(h cryptox.Hasher) *Builder {
	return &Builder{hasher: h}
}

// Payload binds a link to ctx. Any later change to the account's UpdatedAt
// makes the integrity token stop matching.
func (b *Builder) Payload(ctx models.AccountContext) (Payload, error) {
	digest, err := b.hasher.Hash(ctx.String())
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Identity:  Encode(ctx.Email),
		Integrity: Encode(digest),
	}, nil
}

// Email extracts the account email from an identity token.
func (b *Builder) Email(identity string) (string, error) {
	return Decode(identity)
}

// Matches reports whether integrity was built for ctx.
func (b *Builder) Matches(ctx models.AccountContext, integrity string) bool {
	digest, err := Decode(integrity)
	if err != nil {
		return false
	}
	return b.hasher.Verify(ctx.String(), digest)
}

// URL joins base and path and appends the payload as query parameters.
func URL(base, path string, p Payload) string {
	q := url.Values{}
	q.Set(ParamIntegrity, p.Integrity)
	q.Set(ParamIdentity, p.Identity)
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/") + "?" + q.Encode()
}
