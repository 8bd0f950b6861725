package solana

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PublicKeySize is the length of an ed25519 public key / account address.
const PublicKeySize = 32

const (
	maxSeeds      = 16
	maxSeedLength = 32
	pdaMarker     = "ProgramDerivedAddress"
)

var (
	ErrInvalidPublicKey      = errors.New("invalid public key")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrOnCurve               = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump          = errors.New("no viable bump seed")
)

// PublicKey is a 32-byte account address. Comparison is by value.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes a base58 address.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	decoded, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("%w: %s: %v", ErrInvalidPublicKey, s, err)
	}
	if len(decoded) != PublicKeySize {
		return pk, fmt.Errorf("%w: %s decodes to %d bytes", ErrInvalidPublicKey, s, len(decoded))
	}
	copy(pk[:], decoded)
	return pk, nil
}

// MustPublicKey is ParsePublicKey for package-level constants.
func MustPublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PublicKeyFromBytes copies b into a PublicKey. b must be exactly 32 bytes.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return pk, fmt.Errorf("%w: got %d bytes", ErrInvalidPublicKey, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 encoding.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the key bytes.
func (pk PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, pk[:])
	return b
}

// Equals reports whether both keys hold the same 32 bytes.
func (pk PublicKey) Equals(other PublicKey) bool {
	return bytes.Equal(pk[:], other[:])
}

// IsZero reports whether the key is all zeros.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// IsOnCurve reports whether the key decodes to a valid ed25519 point.
func (pk PublicKey) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(pk[:])
	return err == nil
}

// MarshalText implements encoding.TextMarshaler (base58).
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (base58).
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// CreateProgramAddress derives a program address from seeds.
// Addresses that land on the ed25519 curve are rejected with ErrOnCurve,
// since they could have a private key.
func CreateProgramAddress(program PublicKey, seeds ...[]byte) (PublicKey, error) {
	if len(seeds) > maxSeeds {
		return PublicKey{}, ErrTooManySeeds
	}

	h := sha256.New()
	for _, s := range seeds {
		if len(s) > maxSeedLength {
			return PublicKey{}, ErrMaxSeedLengthExceeded
		}
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte(pdaMarker))

	var pub PublicKey
	copy(pub[:], h.Sum(nil))

	if pub.IsOnCurve() {
		return PublicKey{}, ErrOnCurve
	}
	return pub, nil
}

// FindProgramAddress searches bump seeds from 255 downwards and returns the
// first off-curve address with its bump.
func FindProgramAddress(program PublicKey, seeds ...[]byte) (PublicKey, uint8, error) {
	bump := []byte{math.MaxUint8}
	for i := 0; i < math.MaxUint8; i++ {
		withBump := make([][]byte, 0, len(seeds)+1)
		withBump = append(withBump, seeds...)
		withBump = append(withBump, bump)

		pub, err := CreateProgramAddress(program, withBump...)
		if err == nil {
			return pub, bump[0], nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return PublicKey{}, 0, err
		}
		bump[0]--
	}
	return PublicKey{}, 0, ErrNoViableBump
}
