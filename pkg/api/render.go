package api

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/ssargent/snsrecords/pkg/codec"
	"github.com/ssargent/snsrecords/pkg/instruction"
)

// FormatID renders a validation id in the form its kind is usually written:
// base58 for Solana keys and 0x-prefixed hex for Ethereum addresses.
func FormatID(kind codec.Validation, id []byte) string {
	if len(id) == 0 {
		return ""
	}
	switch kind {
	case codec.ValidationSolana, codec.ValidationUnverifiedSolana:
		return base58.Encode(id)
	case codec.ValidationEthereum:
		return "0x" + hex.EncodeToString(id)
	default:
		return hex.EncodeToString(id)
	}
}

// NewHeaderResponse renders h.
func NewHeaderResponse(h codec.RecordHeader) HeaderResponse {
	return HeaderResponse{
		StalenessValidation:          h.Staleness().String(),
		RightOfAssociationValidation: h.RightOfAssociation().String(),
		ContentLength:                h.ContentLength,
	}
}

// NewRecordResponse renders rec. key may be zero.
func NewRecordResponse(key solana.PublicKey, rec *codec.Record) (*RecordResponse, error) {
	view, err := rec.View()
	if err != nil {
		return nil, err
	}
	resp := &RecordResponse{
		Header:      NewHeaderResponse(rec.Header),
		StalenessID: FormatID(view.Staleness, view.StalenessID),
		RoAID:       FormatID(view.RightOfAssociation, view.RoAID),
		Content:     view.Content,
		Size:        rec.Size(),
		Valid:       rec.Validate() == nil,
	}
	if !key.IsZero() {
		resp.Key = key.String()
	}
	return resp, nil
}

// NewInstructionResponse renders an encoded instruction.
func NewInstructionResponse(tag instruction.Tag, ix *solana.GenericInstruction) (*InstructionResponse, error) {
	data, err := ix.Data()
	if err != nil {
		return nil, err
	}
	metas := ix.Accounts()
	resp := &InstructionResponse{
		Op:        tag.String(),
		ProgramID: ix.ProgramID().String(),
		Accounts:  make([]AccountMetaResponse, len(metas)),
		Data:      data,
	}
	for i, m := range metas {
		resp.Accounts[i] = AccountMetaResponse{
			Pubkey:     m.PublicKey.String(),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		}
	}
	return resp, nil
}

// Build converts r into the request for tag.
func (r InstructionRequest) Build(tag instruction.Tag) (instruction.Request, error) {
	accounts, err := r.accounts()
	if err != nil {
		return nil, err
	}

	switch tag {
	case instruction.TagAllocateAndPostRecord:
		return instruction.AllocateAndPostRecord{Accounts: accounts, Record: r.RecordName, Content: []byte(r.Content)}, nil
	case instruction.TagAllocateRecord:
		return instruction.AllocateRecord{Accounts: accounts, Record: r.RecordName, ContentLength: r.ContentLength}, nil
	case instruction.TagDeleteRecord:
		return instruction.DeleteRecord{Accounts: accounts}, nil
	case instruction.TagEditRecord:
		return instruction.EditRecord{Accounts: accounts, Record: r.RecordName, Content: []byte(r.Content)}, nil
	case instruction.TagValidateEthereumSignature:
		validation := codec.ValidationEthereum
		if r.Validation != "" {
			if validation, err = codec.ParseValidation(r.Validation); err != nil {
				return nil, err
			}
		}
		sig, err := decodeHex("signature", r.Signature)
		if err != nil {
			return nil, err
		}
		pub, err := decodeHex("expected_pubkey", r.ExpectedPubkey)
		if err != nil {
			return nil, err
		}
		return instruction.ValidateEthereumSignature{
			Accounts:       accounts,
			Validation:     validation,
			Signature:      sig,
			ExpectedPubkey: pub,
		}, nil
	case instruction.TagValidateSolanaSignature:
		verifier, err := parseKey("verifier", r.Verifier)
		if err != nil {
			return nil, err
		}
		return instruction.ValidateSolanaSignature{Accounts: accounts, Verifier: verifier, Staleness: r.Staleness}, nil
	case instruction.TagWriteRoa:
		roa, err := parseKey("roa_id", r.RoaID)
		if err != nil {
			return nil, err
		}
		return instruction.WriteRoa{Accounts: accounts, RoaID: roa}, nil
	case instruction.TagUnverifyRoa:
		verifier, err := parseKey("verifier", r.Verifier)
		if err != nil {
			return nil, err
		}
		return instruction.UnverifyRoa{Accounts: accounts, Verifier: verifier}, nil
	default:
		return nil, fmt.Errorf("unknown instruction %s", tag)
	}
}

func (r InstructionRequest) accounts() (instruction.RecordAccounts, error) {
	var (
		a   instruction.RecordAccounts
		err error
	)
	if a.FeePayer, err = parseKey("fee_payer", r.FeePayer); err != nil {
		return a, err
	}
	if a.Record, err = parseKey("record", r.Record); err != nil {
		return a, err
	}
	if a.Domain, err = parseKey("domain", r.Domain); err != nil {
		return a, err
	}
	if a.DomainOwner, err = parseKey("domain_owner", r.DomainOwner); err != nil {
		return a, err
	}
	return a, nil
}

// parseKey parses a base58 key. An empty string is the zero key, which the
// encoder rejects for accounts it needs.
func parseKey(field, s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, nil
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s: %w", field, err)
	}
	return key, nil
}

func decodeHex(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return b, nil
}
