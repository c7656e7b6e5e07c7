// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ssargent/snsrecords/pkg/codec"
	"github.com/ssargent/snsrecords/pkg/instruction"
)

// RecordReader defines the record lookups the gateway serves.
// *records.Client implements it.
type RecordReader interface {
	Retrieve(ctx context.Context, key solana.PublicKey) (*codec.Record, error)
	RetrieveHeader(ctx context.Context, key solana.PublicKey) (codec.RecordHeader, error)
	RetrieveBatch(ctx context.Context, keys []solana.PublicKey) ([]*codec.Record, error)
	RetrieveByName(ctx context.Context, domain solana.PublicKey, record string) (solana.PublicKey, *codec.Record, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves until ctx is cancelled
	StartServer(ctx context.Context, reader RecordReader, builder *instruction.Builder, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
