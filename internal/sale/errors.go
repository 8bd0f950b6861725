package sale

import "errors"

// ErrMalformedAccount is returned when account data is not exactly AccountSize bytes.
var ErrMalformedAccount = errors.New("malformed sale account")

// ErrUnknownField is returned when a field name matches neither a canonical name nor an alias.
var ErrUnknownField = errors.New("unknown sale account field")
