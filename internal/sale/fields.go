package sale

import (
	"fmt"
	"strings"
)

// Field identifies one field of the sale account layout.
type Field int

// Fields in layout order.
const (
	FieldIsInitialized Field = iota
	FieldSellerPubkey
	FieldTempTokenAccountPubkey
	FieldSwapSolAmount
	FieldSwapTokenAmount
)

// FieldKind describes how a field's bytes are interpreted.
type FieldKind int

const (
	KindFlag FieldKind = iota
	KindPublicKey
	KindU64
)

type fieldInfo struct {
	name    string
	kind    FieldKind
	offset  int
	size    int
	aliases []string
}

// fieldTable is the single source of layout truth. Aliases name the same bytes.
var fieldTable = [...]fieldInfo{
	FieldIsInitialized:          {name: "isInitialized", kind: KindFlag, offset: 0, size: 1},
	FieldSellerPubkey:           {name: "sellerPubkey", kind: KindPublicKey, offset: 1, size: 32},
	FieldTempTokenAccountPubkey: {name: "tempTokenAccountPubkey", kind: KindPublicKey, offset: 33, size: 32},
	FieldSwapSolAmount:          {name: "swapSolAmount", kind: KindU64, offset: 65, size: 8, aliases: []string{"pricePerToken"}},
	FieldSwapTokenAmount:        {name: "swapTokenAmount", kind: KindU64, offset: 73, size: 8, aliases: []string{"min_buy"}},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field)
	for i, info := range fieldTable {
		m[info.name] = Field(i)
		for _, a := range info.aliases {
			m[a] = Field(i)
		}
	}
	return m
}()

// Fields returns all fields in layout order.
func Fields() []Field {
	out := make([]Field, len(fieldTable))
	for i := range fieldTable {
		out[i] = Field(i)
	}
	return out
}

// LookupField resolves a canonical field name or alias.
func LookupField(name string) (Field, error) {
	f, ok := fieldsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < len(fieldTable)
}

// String returns the canonical field name.
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTable[f].name
}

// Aliases returns the alternate names accepted for f.
func (f Field) Aliases() []string {
	if !f.Valid() {
		return nil
	}
	return append([]string(nil), fieldTable[f].aliases...)
}

// Kind returns how the field's bytes are interpreted.
func (f Field) Kind() FieldKind {
	return fieldTable[f].kind
}

// Offset returns the byte offset of the field in the account data.
func (f Field) Offset() int {
	return fieldTable[f].offset
}

// Size returns the byte width of the field.
func (f Field) Size() int {
	return fieldTable[f].size
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Aliases are accepted.
func (f *Field) UnmarshalText(text []byte) error {
	got, err := LookupField(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*f = got
	return nil
}

func (k FieldKind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindPublicKey:
		return "pubkey"
	case KindU64:
		return "u64"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}
