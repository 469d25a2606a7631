// Package links builds and checks the self-invalidating tokens placed in
// verification and password-reset emails.
package links

import (
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

// ErrDecode is returned for tokens that are not valid base64 of UTF-8 text.
var ErrDecode = errors.New("links: malformed token")

var decoders = []*base64.Encoding{
	base64.URLEncoding,
	base64.RawURLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// Encode returns the URL-safe base64 form of s.
func Encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode. Standard-alphabet tokens are accepted too.
func Decode(token string) (string, error) {
	if token == "" {
		return "", ErrDecode
	}
	for _, enc := range decoders {
		b, err := enc.DecodeString(token)
		if err != nil {
			continue
		}
		if !utf8.Valid(b) {
			return "", ErrDecode
		}
		return string(b), nil
	}
	return "", ErrDecode
}
