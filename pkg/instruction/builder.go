package instruction

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ssargent/snsrecords/pkg/address"
	"github.com/ssargent/snsrecords/pkg/codec"
)

// MaxDataLen bounds instruction data by the size of a transaction packet.
// A real transaction has less room once signatures and keys are counted.
const MaxDataLen = 1232

// BuilderConfig holds configuration for a Builder. Zero keys select mainnet.
type BuilderConfig struct {
	ProgramID     solana.PublicKey
	NameServiceID solana.PublicKey
	Logger        *zap.Logger
}

// Builder encodes requests for one deployment of the records program.
type Builder struct {
	programID     solana.PublicKey
	nameServiceID solana.PublicKey
	deriver       *address.Deriver
	logger        *zap.Logger
}

// NewBuilder creates a builder from config.
func NewBuilder(config BuilderConfig) *Builder {
	if config.ProgramID.IsZero() {
		config.ProgramID = address.ProgramID
	}
	if config.NameServiceID.IsZero() {
		config.NameServiceID = address.NameServiceProgramID
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Builder{
		programID:     config.ProgramID,
		nameServiceID: config.NameServiceID,
		deriver:       address.NewDeriver(config.ProgramID),
		logger:        config.Logger,
	}
}

var defaultBuilder = NewBuilder(BuilderConfig{})

// Default returns the mainnet builder.
func Default() *Builder {
	return defaultBuilder
}

// Encode encodes req with the mainnet builder.
func Encode(req Request) (*solana.GenericInstruction, error) {
	return defaultBuilder.Encode(req)
}

// ProgramID returns the records program the builder targets.
func (b *Builder) ProgramID() solana.PublicKey {
	return b.programID
}

// CentralState returns the central state included in every instruction.
func (b *Builder) CentralState() (solana.PublicKey, error) {
	return b.deriver.CentralState()
}

// Deriver returns the key deriver bound to the builder's program.
func (b *Builder) Deriver() *address.Deriver {
	return b.deriver
}

// Encode serializes req and binds its accounts.
func (b *Builder) Encode(req Request) (*solana.GenericInstruction, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidArgument)
	}
	if err := req.check(); err != nil {
		return nil, err
	}

	data, err := EncodeData(req)
	if err != nil {
		return nil, err
	}

	cs, err := b.deriver.CentralState()
	if err != nil {
		return nil, err
	}
	accounts := req.accounts(fixedAccounts{nameService: b.nameServiceID, centralState: cs})

	b.logger.Debug("encoded instruction",
		zap.Stringer("op", req.Tag()),
		zap.Int("data_len", len(data)),
		zap.Int("accounts", len(accounts)))

	return solana.NewInstruction(b.programID, accounts, data), nil
}

// EncodeData returns the tag and serialized parameters of req without
// checking its accounts.
func EncodeData(req Request) ([]byte, error) {
	data := []byte{byte(req.Tag())}
	if p := req.params(); p != nil {
		args, err := bin.MarshalBorsh(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s params: %w", req.Tag(), err)
		}
		data = append(data, args...)
	}
	if len(data) > MaxDataLen {
		return nil, &EncodingError{Op: req.Tag(), Field: "data", Len: len(data), Max: MaxDataLen, Err: ErrPayloadTooLarge}
	}
	return data, nil
}

// AllocateAndPostRecord creates record under the domain and writes content.
func (b *Builder) AllocateAndPostRecord(accounts RecordAccounts, record string, content []byte) (*solana.GenericInstruction, error) {
	return b.Encode(AllocateAndPostRecord{Accounts: accounts, Record: record, Content: content})
}

// AllocateRecord reserves contentLength bytes for record.
func (b *Builder) AllocateRecord(accounts RecordAccounts, record string, contentLength uint32) (*solana.GenericInstruction, error) {
	return b.Encode(AllocateRecord{Accounts: accounts, Record: record, ContentLength: contentLength})
}

// DeleteRecord closes the record account.
func (b *Builder) DeleteRecord(accounts RecordAccounts) (*solana.GenericInstruction, error) {
	return b.Encode(DeleteRecord{Accounts: accounts})
}

// EditRecord replaces the content of record.
func (b *Builder) EditRecord(accounts RecordAccounts, record string, content []byte) (*solana.GenericInstruction, error) {
	return b.Encode(EditRecord{Accounts: accounts, Record: record, Content: content})
}

// ValidateEthereumSignature validates an Ethereum signature over the record.
func (b *Builder) ValidateEthereumSignature(accounts RecordAccounts, validation codec.Validation, signature, expectedPubkey []byte) (*solana.GenericInstruction, error) {
	return b.Encode(ValidateEthereumSignature{
		Accounts:       accounts,
		Validation:     validation,
		Signature:      signature,
		ExpectedPubkey: expectedPubkey,
	})
}

// ValidateSolanaSignature validates the record with verifier's signature.
func (b *Builder) ValidateSolanaSignature(accounts RecordAccounts, verifier solana.PublicKey, staleness bool) (*solana.GenericInstruction, error) {
	return b.Encode(ValidateSolanaSignature{Accounts: accounts, Verifier: verifier, Staleness: staleness})
}

// WriteRoa writes roaID as the unverified right of association.
func (b *Builder) WriteRoa(accounts RecordAccounts, roaID solana.PublicKey) (*solana.GenericInstruction, error) {
	return b.Encode(WriteRoa{Accounts: accounts, RoaID: roaID})
}

// UnverifyRoa removes the right of association verification.
func (b *Builder) UnverifyRoa(accounts RecordAccounts, verifier solana.PublicKey) (*solana.GenericInstruction, error) {
	return b.Encode(UnverifyRoa{Accounts: accounts, Verifier: verifier})
}
