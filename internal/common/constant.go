// Package common contains shared constants and sentinel errors used across
// the profilely server components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme accepted by the API.
const BearerScheme = "Bearer"

// TokenTypeBearer is reported to clients alongside issued access tokens.
const TokenTypeBearer = "bearer"
