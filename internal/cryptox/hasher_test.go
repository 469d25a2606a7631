package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fastArgon2 = Argon2Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newFastHasher(t *testing.T, algorithm string) *PasswordHasher {
	t.Helper()
	a, err := NewArgon2(fastArgon2)
	require.NoError(t, err)
	b, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	h := &PasswordHasher{argon2: a, bcrypt: b, primary: a}
	if algorithm == AlgorithmBcrypt {
		h.primary = b
	}
	return h
}

func TestNew(t *testing.T) {
	h, err := New(AlgorithmArgon2id, 12)
	require.NoError(t, err)
	assert.Same(t, h.argon2, h.primary)

	h, err = New(AlgorithmBcrypt, 12)
	require.NoError(t, err)
	assert.Same(t, h.bcrypt, h.primary)

	_, err = New("md5", 12)
	assert.Error(t, err)

	_, err = New(AlgorithmBcrypt, 99)
	assert.Error(t, err)
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	for _, alg := range []string{AlgorithmArgon2id, AlgorithmBcrypt} {
		t.Run(alg, func(t *testing.T) {
			h := newFastHasher(t, alg)

			digest, err := h.Hash("correct horse 1")
			require.NoError(t, err)

			assert.NotContains(t, digest, "correct horse 1")
			assert.True(t, h.Verify("correct horse 1", digest))
			assert.False(t, h.Verify("correct horse 2", digest))
			assert.False(t, h.Verify("", digest))
		})
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	h := newFastHasher(t, AlgorithmArgon2id)

	d1, err := h.Hash("same-secret9")
	require.NoError(t, err)
	d2, err := h.Hash("same-secret9")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.True(t, h.Verify("same-secret9", d1))
	assert.True(t, h.Verify("same-secret9", d2))
}

func TestPasswordHasher_VerifiesEitherFamily(t *testing.T) {
	argonFirst := newFastHasher(t, AlgorithmArgon2id)
	bcryptFirst := newFastHasher(t, AlgorithmBcrypt)

	fromArgon, err := argonFirst.Hash("switch-me-1")
	require.NoError(t, err)
	fromBcrypt, err := bcryptFirst.Hash("switch-me-1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(fromArgon, "$argon2id$v=19$"))
	assert.True(t, strings.HasPrefix(fromBcrypt, "$2a$"))

	assert.True(t, bcryptFirst.Verify("switch-me-1", fromArgon))
	assert.True(t, argonFirst.Verify("switch-me-1", fromBcrypt))
}

func TestPasswordHasher_MalformedDigestIsMismatch(t *testing.T) {
	h := newFastHasher(t, AlgorithmArgon2id)

	digests := []string{
		"",
		"plaintext",
		"$argon2id$",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=99999999,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$???",
		"$2a$10$tooshort",
		"$1$md5$whatever",
	}
	for _, d := range digests {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("anything", d), "digest %q", d)
		})
	}
}

func TestBcrypt_LongSecrets(t *testing.T) {
	b, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	base := strings.Repeat("x", 80)
	digest, err := b.Hash(base + "tail-a")
	require.NoError(t, err)

	assert.True(t, b.Verify(base+"tail-a", digest))
	assert.False(t, b.Verify(base+"tail-b", digest), "bytes past 72 must count")
}

func TestNewArgon2_RejectsWeakParams(t *testing.T) {
	tests := []struct {
		name string
		p    Argon2Params
	}{
		{"memory", Argon2Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}},
		{"time", Argon2Params{Memory: 8192, Time: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32}},
		{"parallelism", Argon2Params{Memory: 8192, Time: 1, Parallelism: 0, SaltLength: 16, KeyLength: 32}},
		{"salt", Argon2Params{Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 32}},
		{"key", Argon2Params{Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArgon2(tt.p)
			assert.Error(t, err)
		})
	}
}
