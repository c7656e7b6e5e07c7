// Package address derives the program addresses used by SNS Records.
package address

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/minio/sha256-simd"
)

var (
	// ProgramID is the mainnet SNS Records program.
	ProgramID = solana.MustPublicKeyFromBase58("HP3D4D1ZCmohQGFVms2SS4LCANgJyksBf5s1F77FuFjZ")

	// NameServiceProgramID is the SPL Name Service program that owns record accounts.
	NameServiceProgramID = solana.MustPublicKeyFromBase58("namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX")
)

// HashPrefix is prepended to every name before hashing.
const HashPrefix = "SPL Name Service"

// RecordPrefix marks a name as a v2 record under its domain.
const RecordPrefix = "\x02"

var mainnetCentralState = sync.OnceValues(func() (solana.PublicKey, error) {
	return DeriveCentralState(ProgramID)
})

// CentralState returns the central state of the mainnet program. It is derived
// on first use and identical for the lifetime of the process.
func CentralState() solana.PublicKey {
	key, err := mainnetCentralState()
	if err != nil {
		// FindProgramAddress only fails when no bump produces an off-curve
		// point, which does not happen for a 32-byte seed.
		panic(fmt.Sprintf("derive central state: %v", err))
	}
	return key
}

// DeriveCentralState derives the central state of programID. The only seed is
// the program id itself.
func DeriveCentralState(programID solana.PublicKey) (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress([][]byte{programID.Bytes()}, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("central state for %s: %w", programID, err)
	}
	return key, nil
}

// HashedName returns the name service hash of name.
func HashedName(name string) []byte {
	sum := sha256.Sum256([]byte(HashPrefix + name))
	return sum[:]
}

// NameAccountKey derives a name service account. Zero class or parent keys
// are encoded as 32 zero bytes, matching the name service program.
func NameAccountKey(hashedName []byte, class, parent solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{hashedName, class.Bytes(), parent.Bytes()}
	key, _, err := solana.FindProgramAddress(seeds, NameServiceProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("name account: %w", err)
	}
	return key, nil
}

// Deriver derives record keys for one deployment of the records program.
type Deriver struct {
	programID    solana.PublicKey
	centralState func() (solana.PublicKey, error)
}

// NewDeriver creates a deriver for programID. The central state is derived
// once on first use.
func NewDeriver(programID solana.PublicKey) *Deriver {
	if programID.Equals(ProgramID) {
		return &Deriver{programID: programID, centralState: mainnetCentralState}
	}
	return &Deriver{
		programID: programID,
		centralState: sync.OnceValues(func() (solana.PublicKey, error) {
			return DeriveCentralState(programID)
		}),
	}
}

// ProgramID returns the records program this deriver targets.
func (d *Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// CentralState returns the cached central state of the program.
func (d *Deriver) CentralState() (solana.PublicKey, error) {
	return d.centralState()
}

// RecordKey derives the account holding record under domain, e.g. "SOL" or "CNAME".
func (d *Deriver) RecordKey(domain solana.PublicKey, record string) (solana.PublicKey, error) {
	cs, err := d.centralState()
	if err != nil {
		return solana.PublicKey{}, err
	}
	key, err := NameAccountKey(HashedName(RecordPrefix+record), cs, domain)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("record key %q: %w", record, err)
	}
	return key, nil
}

// RecordKey derives a record key for the mainnet program.
func RecordKey(domain solana.PublicKey, record string) (solana.PublicKey, error) {
	return NewDeriver(ProgramID).RecordKey(domain, record)
}
