package links

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/profilely/internal/server/models"
)

// plainHasher keeps tests fast; it is not salted.
type plainHasher struct{}

func (plainHasher) Hash(s string) (string, error) { return "h:" + s, nil }
func (plainHasher) Verify(s, d string) bool      { return d == "h:"+s }

func TestBuilder_PayloadMatchesCurrentContext(t *testing.T) {
	b := NewBuilder(plainHasher{})
	ctx := models.AccountContext{Email: "joey@example.com", UpdatedAt: time.Unix(1700000000, 0)}

	p, err := b.Payload(ctx)
	require.NoError(t, err)

	email, err := b.Email(p.Identity)
	require.NoError(t, err)
	assert.Equal(t, "joey@example.com", email)
	assert.True(t, b.Matches(ctx, p.Integrity))
}

func TestBuilder_MutationInvalidates(t *testing.T) {
	b := NewBuilder(plainHasher{})
	ctx := models.AccountContext{Email: "joey@example.com", UpdatedAt: time.Unix(1700000000, 0)}

	p, err := b.Payload(ctx)
	require.NoError(t, err)

	bumped := ctx
	bumped.UpdatedAt = ctx.UpdatedAt.Add(time.Microsecond)
	assert.False(t, b.Matches(bumped, p.Integrity))

	other := ctx
	other.Email = "mallory@example.com"
	assert.False(t, b.Matches(other, p.Integrity))
}

func TestBuilder_GarbageIntegrity(t *testing.T) {
	b := NewBuilder(plainHasher{})
	ctx := models.AccountContext{Email: "joey@example.com"}

	assert.False(t, b.Matches(ctx, ""))
	assert.False(t, b.Matches(ctx, "%%%"))
	assert.False(t, b.Matches(ctx, Encode("h:someone-else")))
}

func TestURL(t *testing.T) {
	p := Payload{Identity: "aWQ=", Integrity: "JGFyZ29uMmlkJA=="}

	raw := URL("https://profiles.example/", "/user/verify", p)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "/user/verify", u.Path)
	assert.Equal(t, p.Integrity, u.Query().Get(ParamIntegrity))
	assert.Equal(t, p.Identity, u.Query().Get(ParamIdentity))
}
