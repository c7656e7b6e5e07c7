package instruction

import (
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/ssargent/snsrecords/pkg/codec"
)

// RecordAccounts are the caller supplied accounts shared by most instructions.
type RecordAccounts struct {
	FeePayer    solana.PublicKey
	Record      solana.PublicKey
	Domain      solana.PublicKey
	DomainOwner solana.PublicKey
}

// Request is one of the records program operations. The set is closed; the
// concrete types are the exported structs in this file.
type Request interface {
	Tag() Tag
	params() any
	check() error
	accounts(f fixedAccounts) solana.AccountMetaSlice
}

// fixedAccounts are the accounts the builder supplies itself.
type fixedAccounts struct {
	nameService  solana.PublicKey
	centralState solana.PublicKey
}

// AllocateAndPostRecord creates a record account and writes its content.
type AllocateAndPostRecord struct {
	Accounts RecordAccounts
	Record   string
	Content  []byte
}

type allocateAndPostRecordParams struct {
	Record  string
	Content []byte
}

func (r AllocateAndPostRecord) Tag() Tag { return TagAllocateAndPostRecord }

func (r AllocateAndPostRecord) params() any {
	return allocateAndPostRecordParams{Record: r.Record, Content: r.Content}
}

func (r AllocateAndPostRecord) check() error {
	if err := checkOwnerAccounts(r.Tag(), r.Accounts); err != nil {
		return err
	}
	if err := checkLen(r.Tag(), "record", len(r.Record)); err != nil {
		return err
	}
	return checkLen(r.Tag(), "content", len(r.Content))
}

func (r AllocateAndPostRecord) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return ownerAccounts(r.Accounts, f)
}

// AllocateRecord reserves space for a record without writing content.
type AllocateRecord struct {
	Accounts      RecordAccounts
	Record        string
	ContentLength uint32
}

type allocateRecordParams struct {
	ContentLength uint32
	Record        string
}

func (r AllocateRecord) Tag() Tag { return TagAllocateRecord }

func (r AllocateRecord) params() any {
	return allocateRecordParams{ContentLength: r.ContentLength, Record: r.Record}
}

func (r AllocateRecord) check() error {
	if err := checkOwnerAccounts(r.Tag(), r.Accounts); err != nil {
		return err
	}
	return checkLen(r.Tag(), "record", len(r.Record))
}

func (r AllocateRecord) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return ownerAccounts(r.Accounts, f)
}

// DeleteRecord closes a record account.
type DeleteRecord struct {
	Accounts RecordAccounts
}

func (r DeleteRecord) Tag() Tag    { return TagDeleteRecord }
func (r DeleteRecord) params() any { return nil }

func (r DeleteRecord) check() error {
	return checkOwnerAccounts(r.Tag(), r.Accounts)
}

func (r DeleteRecord) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return ownerAccounts(r.Accounts, f)
}

// EditRecord replaces the content of an existing record.
type EditRecord struct {
	Accounts RecordAccounts
	Record   string
	Content  []byte
}

type editRecordParams struct {
	Record  string
	Content []byte
}

func (r EditRecord) Tag() Tag { return TagEditRecord }

func (r EditRecord) params() any {
	return editRecordParams{Record: r.Record, Content: r.Content}
}

func (r EditRecord) check() error {
	if err := checkOwnerAccounts(r.Tag(), r.Accounts); err != nil {
		return err
	}
	if err := checkLen(r.Tag(), "record", len(r.Record)); err != nil {
		return err
	}
	return checkLen(r.Tag(), "content", len(r.Content))
}

func (r EditRecord) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return ownerAccounts(r.Accounts, f)
}

// ValidateEthereumSignature submits a secp256k1 signature over the record
// content. ExpectedPubkey is the 20-byte Ethereum address that signed it.
type ValidateEthereumSignature struct {
	Accounts       RecordAccounts
	Validation     codec.Validation
	Signature      []byte
	ExpectedPubkey []byte
}

type validateEthereumSignatureParams struct {
	Validation     uint8
	Signature      []byte
	ExpectedPubkey []byte
}

func (r ValidateEthereumSignature) Tag() Tag { return TagValidateEthereumSignature }

func (r ValidateEthereumSignature) params() any {
	return validateEthereumSignatureParams{
		Validation:     uint8(r.Validation),
		Signature:      r.Signature,
		ExpectedPubkey: r.ExpectedPubkey,
	}
}

func (r ValidateEthereumSignature) check() error {
	if err := checkOwnerAccounts(r.Tag(), r.Accounts); err != nil {
		return err
	}
	if !r.Validation.Valid() {
		return &EncodingError{Op: r.Tag(), Field: "validation", Err: ErrInvalidArgument}
	}
	if err := checkLen(r.Tag(), "signature", len(r.Signature)); err != nil {
		return err
	}
	return checkLen(r.Tag(), "expected_pubkey", len(r.ExpectedPubkey))
}

func (r ValidateEthereumSignature) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return ownerAccounts(r.Accounts, f)
}

// ValidateSolanaSignature records Verifier's signature as the staleness id
// (Staleness true) or as verification of the pending RoA id (Staleness false).
type ValidateSolanaSignature struct {
	Accounts  RecordAccounts
	Verifier  solana.PublicKey
	Staleness bool
}

type validateSolanaSignatureParams struct {
	Staleness bool
}

func (r ValidateSolanaSignature) Tag() Tag { return TagValidateSolanaSignature }

func (r ValidateSolanaSignature) params() any {
	return validateSolanaSignatureParams{Staleness: r.Staleness}
}

func (r ValidateSolanaSignature) check() error {
	if err := checkOwnerAccounts(r.Tag(), r.Accounts); err != nil {
		return err
	}
	return checkAccount(r.Tag(), "verifier", r.Verifier)
}

func (r ValidateSolanaSignature) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(f.nameService, false, false),
		solana.NewAccountMeta(r.Accounts.FeePayer, true, true),
		solana.NewAccountMeta(r.Accounts.Record, true, false),
		solana.NewAccountMeta(r.Accounts.Domain, false, false),
		solana.NewAccountMeta(r.Accounts.DomainOwner, false, false),
		solana.NewAccountMeta(f.centralState, false, false),
		solana.NewAccountMeta(r.Verifier, false, true),
	}
}

// WriteRoa writes an unverified right of association id.
type WriteRoa struct {
	Accounts RecordAccounts
	RoaID    solana.PublicKey
}

type writeRoaParams struct {
	RoaID [32]byte
}

func (r WriteRoa) Tag() Tag { return TagWriteRoa }

func (r WriteRoa) params() any {
	return writeRoaParams{RoaID: [32]byte(r.RoaID)}
}

func (r WriteRoa) check() error {
	if err := checkOwnerAccounts(r.Tag(), r.Accounts); err != nil {
		return err
	}
	return checkAccount(r.Tag(), "roa_id", r.RoaID)
}

func (r WriteRoa) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return ownerAccounts(r.Accounts, f)
}

// UnverifyRoa clears a verified right of association. The domain owner is
// not part of the account list.
type UnverifyRoa struct {
	Accounts RecordAccounts
	Verifier solana.PublicKey
}

func (r UnverifyRoa) Tag() Tag    { return TagUnverifyRoa }
func (r UnverifyRoa) params() any { return nil }

func (r UnverifyRoa) check() error {
	for _, a := range []struct {
		name string
		key  solana.PublicKey
	}{
		{"fee_payer", r.Accounts.FeePayer},
		{"record", r.Accounts.Record},
		{"domain", r.Accounts.Domain},
		{"verifier", r.Verifier},
	} {
		if err := checkAccount(r.Tag(), a.name, a.key); err != nil {
			return err
		}
	}
	return nil
}

func (r UnverifyRoa) accounts(f fixedAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(f.nameService, false, false),
		solana.NewAccountMeta(r.Accounts.FeePayer, true, true),
		solana.NewAccountMeta(r.Accounts.Record, true, false),
		solana.NewAccountMeta(r.Accounts.Domain, false, false),
		solana.NewAccountMeta(f.centralState, false, false),
		solana.NewAccountMeta(r.Verifier, false, true),
	}
}

// ownerAccounts is the account list of every instruction signed by the domain owner.
func ownerAccounts(a RecordAccounts, f fixedAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(f.nameService, false, false),
		solana.NewAccountMeta(a.FeePayer, true, true),
		solana.NewAccountMeta(a.Record, true, false),
		solana.NewAccountMeta(a.Domain, true, false),
		solana.NewAccountMeta(a.DomainOwner, true, true),
		solana.NewAccountMeta(f.centralState, false, false),
	}
}

func checkOwnerAccounts(op Tag, a RecordAccounts) error {
	for _, acc := range []struct {
		name string
		key  solana.PublicKey
	}{
		{"fee_payer", a.FeePayer},
		{"record", a.Record},
		{"domain", a.Domain},
		{"domain_owner", a.DomainOwner},
	} {
		if err := checkAccount(op, acc.name, acc.key); err != nil {
			return err
		}
	}
	return nil
}

func checkAccount(op Tag, field string, key solana.PublicKey) error {
	if key.IsZero() {
		return &EncodingError{Op: op, Field: field, Err: ErrMissingAccount}
	}
	return nil
}

func checkLen(op Tag, field string, n int) error {
	if uint64(n) > math.MaxUint32 {
		return &EncodingError{Op: op, Field: field, Len: n, Err: ErrLengthOverflow}
	}
	return nil
}
