package instruction

import "fmt"

// Tag selects the program instruction.
type Tag uint8

const (
	TagAllocateRecord Tag = iota
	TagAllocateAndPostRecord
	TagEditRecord
	TagValidateSolanaSignature
	TagValidateEthereumSignature
	TagDeleteRecord
	TagWriteRoa
	TagUnverifyRoa
)

var tagNames = map[Tag]string{
	TagAllocateRecord:            "allocate-record",
	TagAllocateAndPostRecord:     "allocate-and-post-record",
	TagEditRecord:                "edit-record",
	TagValidateSolanaSignature:   "validate-solana-signature",
	TagValidateEthereumSignature: "validate-ethereum-signature",
	TagDeleteRecord:              "delete-record",
	TagWriteRoa:                  "write-roa",
	TagUnverifyRoa:               "unverify-roa",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// ParseTag parses the names produced by String.
func ParseTag(s string) (Tag, error) {
	for tag, name := range tagNames {
		if name == s {
			return tag, nil
		}
	}
	return 0, fmt.Errorf("unknown instruction %q", s)
}

// Tags returns every instruction tag in wire order.
func Tags() []Tag {
	return []Tag{
		TagAllocateRecord,
		TagAllocateAndPostRecord,
		TagEditRecord,
		TagValidateSolanaSignature,
		TagValidateEthereumSignature,
		TagDeleteRecord,
		TagWriteRoa,
		TagUnverifyRoa,
	}
}
