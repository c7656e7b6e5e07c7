package codec

import (
	"fmt"
	"strings"
)

// Validation is the method used to assert staleness or right of association.
// It is stored on chain as a little-endian uint16.
type Validation uint16

const (
	ValidationNone Validation = iota
	ValidationSolana
	ValidationEthereum
	ValidationUnverifiedSolana
)

// Width returns the byte width of the id stored for v.
func Width(v Validation) (int, error) {
	switch v {
	case ValidationNone:
		return 0, nil
	case ValidationEthereum:
		return 20, nil
	case ValidationSolana:
		return 32, nil
	case ValidationUnverifiedSolana:
		return 32, nil
	default:
		return 0, &DecodeError{Field: "validation", Offset: -1, Got: int(v), Err: ErrInvalidValidation}
	}
}

// Width returns the byte width of the id stored for v.
func (v Validation) Width() (int, error) {
	return Width(v)
}

// Valid reports whether v is one of the defined kinds.
func (v Validation) Valid() bool {
	return v <= ValidationUnverifiedSolana
}

func (v Validation) String() string {
	switch v {
	case ValidationNone:
		return "none"
	case ValidationSolana:
		return "solana"
	case ValidationEthereum:
		return "ethereum"
	case ValidationUnverifiedSolana:
		return "unverified-solana"
	default:
		return fmt.Sprintf("validation(%d)", uint16(v))
	}
}

// ParseValidation parses the names produced by String.
func ParseValidation(s string) (Validation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ValidationNone, nil
	case "solana", "sol":
		return ValidationSolana, nil
	case "ethereum", "eth":
		return ValidationEthereum, nil
	case "unverified-solana", "unverified_solana", "unverified":
		return ValidationUnverifiedSolana, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidValidation, s)
	}
}
