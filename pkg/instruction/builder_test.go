package instruction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/snsrecords/pkg/address"
	"github.com/ssargent/snsrecords/pkg/codec"
)

var (
	feePayer = solana.MustPublicKeyFromBase58("9K6vPLB1DqgznyA3CBKeZ3GnD8Fqo8vcvx2Vxkk5uwqN")
	record   = solana.MustPublicKeyFromBase58("6DsYWo7KBqQCB1RkSLy7DXtMFN1f6jXKQUsByJ1JiB5g")
	domain   = solana.MustPublicKeyFromBase58("7nf2Rq9DxwQCTg1ZmEEB5VUVAzq6tGpsYxqJ6JHqyoTQ")
	owner    = solana.MustPublicKeyFromBase58("4kG2PyqixXVUb2CEeNt1ZcVUEoomNssMe8C4hf4Dguch")
	verifier = solana.MustPublicKeyFromBase58("HP3D4D1ZCmohQGFVms2SS4LCANgJyksBf5s1F77FuFjZ")

	testAccounts = RecordAccounts{FeePayer: feePayer, Record: record, Domain: domain, DomainOwner: owner}
)

func le32(n int) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(n))
	return buf
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func ethSignature() []byte {
	return []byte{
		4, 40, 252, 146, 134, 208, 96, 87, 138, 248, 93, 73, 18, 149, 165, 176, 211, 225,
		15, 75, 19, 90, 251, 192, 49, 183, 6, 196, 33, 75, 48, 139, 95, 224, 244, 176, 178,
		249, 110, 250, 25, 5, 229, 185, 86, 115, 119, 184, 22, 74, 199, 214, 93, 145, 73,
		214, 169, 91, 76, 172, 185, 236, 35, 194, 28,
	}
}

func ethAddress() []byte {
	return []byte{
		75, 251, 253, 30, 1, 143, 159, 39, 238, 183, 136, 22, 5, 121, 218, 247, 226, 205, 125, 167,
	}
}

func TestEncode_Data(t *testing.T) {
	roa := owner

	tests := []struct {
		name string
		req  Request
		want []byte
	}{
		{
			name: "allocate and post record",
			req:  AllocateAndPostRecord{Accounts: testAccounts, Record: "CNAME", Content: []byte("some random content")},
			want: concat([]byte{1}, le32(5), []byte("CNAME"), le32(19), []byte("some random content")),
		},
		{
			name: "allocate record",
			req:  AllocateRecord{Accounts: testAccounts, Record: "SOL", ContentLength: 10},
			want: concat([]byte{0}, le32(10), le32(3), []byte("SOL")),
		},
		{
			name: "delete record",
			req:  DeleteRecord{Accounts: testAccounts},
			want: []byte{5},
		},
		{
			name: "edit record",
			req:  EditRecord{Accounts: testAccounts, Record: "CNAME", Content: []byte("x")},
			want: concat([]byte{2}, le32(5), []byte("CNAME"), le32(1), []byte("x")),
		},
		{
			name: "validate ethereum signature",
			req: ValidateEthereumSignature{
				Accounts:       testAccounts,
				Validation:     codec.ValidationEthereum,
				Signature:      ethSignature(),
				ExpectedPubkey: ethAddress(),
			},
			want: concat([]byte{4, 2}, le32(65), ethSignature(), le32(20), ethAddress()),
		},
		{
			name: "validate solana signature staleness",
			req:  ValidateSolanaSignature{Accounts: testAccounts, Verifier: verifier, Staleness: true},
			want: []byte{3, 1},
		},
		{
			name: "validate solana signature roa",
			req:  ValidateSolanaSignature{Accounts: testAccounts, Verifier: verifier, Staleness: false},
			want: []byte{3, 0},
		},
		{
			name: "write roa",
			req:  WriteRoa{Accounts: testAccounts, RoaID: roa},
			want: concat([]byte{6}, roa.Bytes()),
		},
		{
			name: "unverify roa",
			req:  UnverifyRoa{Accounts: testAccounts, Verifier: verifier},
			want: []byte{7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := Encode(tt.req)
			require.NoError(t, err)

			data, err := ix.Data()
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
			assert.Equal(t, address.ProgramID, ix.ProgramID())

			// Encoding is deterministic.
			again, err := Encode(tt.req)
			require.NoError(t, err)
			againData, err := again.Data()
			require.NoError(t, err)
			assert.Equal(t, data, againData)
			assert.Equal(t, ix.Accounts(), again.Accounts())
		})
	}
}

func keys(metas []*solana.AccountMeta) []solana.PublicKey {
	out := make([]solana.PublicKey, len(metas))
	for i, m := range metas {
		out[i] = m.PublicKey
	}
	return out
}

func TestEncode_Accounts(t *testing.T) {
	cs := address.CentralState()
	standard := []solana.PublicKey{
		solana.SystemProgramID, address.NameServiceProgramID, feePayer, record, domain, owner, cs,
	}

	tests := []struct {
		name string
		req  Request
		want []solana.PublicKey
	}{
		{"allocate and post record", AllocateAndPostRecord{Accounts: testAccounts, Record: "a"}, standard},
		{"allocate record", AllocateRecord{Accounts: testAccounts, Record: "a"}, standard},
		{"delete record", DeleteRecord{Accounts: testAccounts}, standard},
		{"edit record", EditRecord{Accounts: testAccounts, Record: "a"}, standard},
		{"validate ethereum signature", ValidateEthereumSignature{Accounts: testAccounts, Validation: codec.ValidationEthereum}, standard},
		{"write roa", WriteRoa{Accounts: testAccounts, RoaID: owner}, standard},
		{
			"validate solana signature",
			ValidateSolanaSignature{Accounts: testAccounts, Verifier: verifier},
			append(append([]solana.PublicKey{}, standard...), verifier),
		},
		{
			"unverify roa",
			UnverifyRoa{Accounts: testAccounts, Verifier: verifier},
			[]solana.PublicKey{solana.SystemProgramID, address.NameServiceProgramID, feePayer, record, domain, cs, verifier},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := Encode(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(ix.Accounts()))
		})
	}
}

func TestEncode_SignerFlags(t *testing.T) {
	ix, err := Default().DeleteRecord(testAccounts)
	require.NoError(t, err)
	metas := ix.Accounts()
	require.Len(t, metas, 7)

	assert.True(t, metas[2].IsSigner, "fee payer signs")
	assert.True(t, metas[2].IsWritable, "fee payer is writable")
	assert.True(t, metas[3].IsWritable, "record is writable")
	assert.True(t, metas[5].IsSigner, "domain owner signs")
	assert.False(t, metas[6].IsSigner, "central state never signs")
	assert.False(t, metas[6].IsWritable, "central state is read only")

	ix, err = Default().ValidateSolanaSignature(testAccounts, verifier, false)
	require.NoError(t, err)
	metas = ix.Accounts()
	require.Len(t, metas, 8)
	assert.True(t, metas[7].IsSigner, "verifier signs")
	assert.False(t, metas[5].IsSigner, "domain owner need not sign a verification")
}

func TestEncode_CentralStateIsShared(t *testing.T) {
	cs := address.CentralState()
	for _, req := range []Request{
		AllocateRecord{Accounts: testAccounts},
		WriteRoa{Accounts: testAccounts, RoaID: owner},
		UnverifyRoa{Accounts: testAccounts, Verifier: verifier},
	} {
		ix, err := Encode(req)
		require.NoError(t, err)
		found := false
		for _, m := range ix.Accounts() {
			if m.PublicKey.Equals(cs) {
				found = true
			}
		}
		assert.True(t, found, "%s carries the central state", req.Tag())
	}
}

func TestBuilder_CustomProgram(t *testing.T) {
	program := solana.MustPublicKeyFromBase58("4kG2PyqixXVUb2CEeNt1ZcVUEoomNssMe8C4hf4Dguch")
	b := NewBuilder(BuilderConfig{ProgramID: program})

	ix, err := b.AllocateRecord(testAccounts, "SOL", 10)
	require.NoError(t, err)
	assert.Equal(t, program, ix.ProgramID())

	cs, err := address.DeriveCentralState(program)
	require.NoError(t, err)
	got, err := b.CentralState()
	require.NoError(t, err)
	assert.Equal(t, cs, got)
	assert.Equal(t, cs, ix.Accounts()[6].PublicKey)
	assert.Equal(t, address.NameServiceProgramID, ix.Accounts()[1].PublicKey)
}

func TestBuilder_Methods(t *testing.T) {
	b := Default()

	calls := map[Tag]func() (*solana.GenericInstruction, error){
		TagAllocateAndPostRecord: func() (*solana.GenericInstruction, error) {
			return b.AllocateAndPostRecord(testAccounts, "CNAME", []byte("a"))
		},
		TagAllocateRecord: func() (*solana.GenericInstruction, error) {
			return b.AllocateRecord(testAccounts, "CNAME", 1)
		},
		TagDeleteRecord: func() (*solana.GenericInstruction, error) {
			return b.DeleteRecord(testAccounts)
		},
		TagEditRecord: func() (*solana.GenericInstruction, error) {
			return b.EditRecord(testAccounts, "CNAME", []byte("b"))
		},
		TagValidateEthereumSignature: func() (*solana.GenericInstruction, error) {
			return b.ValidateEthereumSignature(testAccounts, codec.ValidationEthereum, ethSignature(), ethAddress())
		},
		TagValidateSolanaSignature: func() (*solana.GenericInstruction, error) {
			return b.ValidateSolanaSignature(testAccounts, verifier, true)
		},
		TagWriteRoa: func() (*solana.GenericInstruction, error) {
			return b.WriteRoa(testAccounts, owner)
		},
		TagUnverifyRoa: func() (*solana.GenericInstruction, error) {
			return b.UnverifyRoa(testAccounts, verifier)
		},
	}
	require.Len(t, calls, len(Tags()))

	for tag, call := range calls {
		t.Run(tag.String(), func(t *testing.T) {
			ix, err := call()
			require.NoError(t, err)
			data, err := ix.Data()
			require.NoError(t, err)
			require.NotEmpty(t, data)
			assert.Equal(t, byte(tag), data[0])
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Run("content too large", func(t *testing.T) {
		_, err := Encode(EditRecord{Accounts: testAccounts, Record: "CNAME", Content: make([]byte, MaxDataLen)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPayloadTooLarge))

		var encErr *EncodingError
		require.True(t, errors.As(err, &encErr))
		assert.Equal(t, TagEditRecord, encErr.Op)
		assert.Equal(t, MaxDataLen, encErr.Max)
	})

	t.Run("missing fee payer", func(t *testing.T) {
		accts := testAccounts
		accts.FeePayer = solana.PublicKey{}
		_, err := Encode(DeleteRecord{Accounts: accts})
		assert.ErrorIs(t, err, ErrMissingAccount)
	})

	t.Run("missing verifier", func(t *testing.T) {
		_, err := Encode(ValidateSolanaSignature{Accounts: testAccounts})
		assert.ErrorIs(t, err, ErrMissingAccount)
	})

	t.Run("unverify does not need a domain owner", func(t *testing.T) {
		accts := testAccounts
		accts.DomainOwner = solana.PublicKey{}
		_, err := Encode(UnverifyRoa{Accounts: accts, Verifier: verifier})
		assert.NoError(t, err)
	})

	t.Run("invalid validation kind", func(t *testing.T) {
		_, err := Encode(ValidateEthereumSignature{Accounts: testAccounts, Validation: codec.Validation(9)})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("nil request", func(t *testing.T) {
		_, err := Encode(nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestTag(t *testing.T) {
	for i, tag := range Tags() {
		assert.Equal(t, Tag(i), tag)
		parsed, err := ParseTag(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}
	_, err := ParseTag("transfer")
	assert.Error(t, err)
	assert.Equal(t, "tag(42)", Tag(42).String())
}
