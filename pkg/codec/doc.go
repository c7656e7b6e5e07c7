// Package codec decodes and encodes SNS Records account data.
//
// A record account is owned by the SPL Name Service program. The name service
// writes its own fixed registry header first; the records program appends a
// small header of its own followed by a variable-length body.
//
// # Account Layout
//
//	[NameRegistry(96)][Staleness(2)][RoA(2)][ContentLength(4)][StalenessID][RoAID][Content]
//
// Fields:
//   - NameRegistry: name service header (parent, owner, class). Opaque to this package.
//   - Staleness: 16-bit validation kind proving the record is not stale (little-endian)
//   - RoA: 16-bit validation kind for the right of association (little-endian)
//   - ContentLength: 32-bit length of Content in bytes (little-endian)
//   - StalenessID: Width(Staleness) bytes
//   - RoAID: Width(RoA) bytes
//   - Content: remaining bytes
//
// None of the body fields are self-terminating. Every offset after the header
// is derived from the two validation kinds, so a wrong kind silently shifts
// every later field. Decode therefore rejects unknown kinds and bodies that
// are too short for the widths and ContentLength the header declares.
//
// # Validation Widths
//
//	None             0 bytes
//	Solana          32 bytes (ed25519 public key)
//	Ethereum        20 bytes (address)
//	UnverifiedSolana 32 bytes
//
// # Usage
//
//	rc := codec.NewRecordCodec()
//	record, err := rc.Decode(accountData)
//	if err != nil {
//	    return err
//	}
//	content, err := record.Content()
//
// # Error Handling
//
// Decode failures are returned as *DecodeError, which names the field and the
// absolute byte offset at which decoding failed and wraps one of the package
// sentinels (ErrTruncated, ErrInvalidValidation, ErrContentLengthMismatch).
//
// # Thread Safety
//
// RecordCodec holds no state. Decoded records share the input buffer and
// must not be mutated while other goroutines read them.
package codec
