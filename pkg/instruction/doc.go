// Package instruction encodes SNS Records program instructions.
//
// Instruction data is a one-byte tag followed by the borsh encoding of the
// operation's parameters:
//
//	[Tag(1)][Params...]
//
// Strings and byte slices carry a little-endian u32 length prefix, integers
// are fixed-width little-endian and booleans are a single byte. Field order
// is fixed by the program; a reordered field is not rejected locally but is
// misread on chain.
//
// Accounts are positional. Every instruction starts with
//
//	system program, name service program, fee payer, record, domain
//
// followed by the domain owner (except UnverifyRoa), the records central
// state, and for ValidateSolanaSignature and UnverifyRoa the verifier.
//
// The central state is never supplied by callers. Builder derives it once
// from its program id.
//
// Builders hold no mutable state and are safe for concurrent use.
package instruction
