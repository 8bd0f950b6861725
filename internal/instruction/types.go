package instruction

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for payloads or amounts that cannot be encoded.
var ErrInvalidArgument = errors.New("invalid argument")

// InstructionType is the one-byte discriminant of a sale instruction.
type InstructionType uint8

const (
	InstructionTypeInitializeSale InstructionType = iota
	InstructionTypeBuy
	InstructionTypeCloseSale
	InstructionTypeUpdatePrice
)

const (
	InitializeSaleInstructionArgsSize = (8 + // price per token
		8) // min buy
	BuyInstructionArgsSize         = 8 // token amount
	CloseSaleInstructionArgsSize   = 0
	UpdatePriceInstructionArgsSize = 8 // new price per token
)

// argCount is the number of u64 payload words each instruction carries.
var argCount = map[InstructionType]int{
	InstructionTypeInitializeSale: 2,
	InstructionTypeBuy:            1,
	InstructionTypeCloseSale:      0,
	InstructionTypeUpdatePrice:    1,
}

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeInitializeSale:
		return "InitializeSale"
	case InstructionTypeBuy:
		return "Buy"
	case InstructionTypeCloseSale:
		return "CloseSale"
	case InstructionTypeUpdatePrice:
		return "UpdatePrice"
	default:
		return fmt.Sprintf("InstructionType(%d)", uint8(t))
	}
}

// ParseInstructionType resolves an instruction name, case-sensitive.
func ParseInstructionType(name string) (InstructionType, error) {
	for t := range argCount {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown instruction %q", ErrInvalidArgument, name)
}

// Size returns the encoded data length of the instruction, discriminant included.
func (t InstructionType) Size() int {
	return 1 + 8*argCount[t]
}

// EncodeData serializes a discriminant and its u64 payload words.
// The number of args must match the instruction's arity.
func EncodeData(t InstructionType, args ...uint64) ([]byte, error) {
	n, ok := argCount[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown instruction type %d", ErrInvalidArgument, uint8(t))
	}
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrInvalidArgument, t, n, len(args))
	}

	var offset int
	data := make([]byte, t.Size())

	putInstructionType(data, t, &offset)
	for _, v := range args {
		putUint64(data, v, &offset)
	}

	return data, nil
}

// InitializeSaleData encodes InitializeSale{price, minBuy}.
func InitializeSaleData(price, minBuy uint64) []byte {
	var offset int
	data := make([]byte, 1+InitializeSaleInstructionArgsSize)

	putInstructionType(data, InstructionTypeInitializeSale, &offset)
	putUint64(data, price, &offset)
	putUint64(data, minBuy, &offset)

	return data
}

// BuyData encodes Buy{amount}.
func BuyData(amount uint64) []byte {
	var offset int
	data := make([]byte, 1+BuyInstructionArgsSize)

	putInstructionType(data, InstructionTypeBuy, &offset)
	putUint64(data, amount, &offset)

	return data
}

// CloseSaleData encodes CloseSale.
func CloseSaleData() []byte {
	var offset int
	data := make([]byte, 1+CloseSaleInstructionArgsSize)

	putInstructionType(data, InstructionTypeCloseSale, &offset)

	return data
}

// UpdatePriceData encodes UpdatePrice{newPrice}.
func UpdatePriceData(newPrice uint64) []byte {
	var offset int
	data := make([]byte, 1+UpdatePriceInstructionArgsSize)

	putInstructionType(data, InstructionTypeUpdatePrice, &offset)
	putUint64(data, newPrice, &offset)

	return data
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}
