// Package records retrieves and decodes record accounts.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ssargent/snsrecords/pkg/address"
	"github.com/ssargent/snsrecords/pkg/codec"
)

// ErrNotFound is returned when a record account does not exist.
var ErrNotFound = errors.New("records: account not found")

// AccountFetcher reads raw account data.
//
// GetAccountData returns ErrNotFound (or an error wrapping it) for an absent
// account. GetMultipleAccountData returns one entry per key in the same
// order, nil for absent accounts.
type AccountFetcher interface {
	GetAccountData(ctx context.Context, key solana.PublicKey) ([]byte, error)
	GetMultipleAccountData(ctx context.Context, keys []solana.PublicKey) ([][]byte, error)
}

// Config holds configuration for a Client.
type Config struct {
	Fetcher AccountFetcher
	Deriver *address.Deriver // mainnet when nil
	Logger  *zap.Logger
}

// Client reads records through an AccountFetcher.
type Client struct {
	fetcher AccountFetcher
	codec   *codec.RecordCodec
	deriver *address.Deriver
	logger  *zap.Logger
}

// NewClient creates a client from config.
func NewClient(config Config) (*Client, error) {
	if config.Fetcher == nil {
		return nil, errors.New("records: fetcher is required")
	}
	if config.Deriver == nil {
		config.Deriver = address.NewDeriver(address.ProgramID)
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Client{
		fetcher: config.Fetcher,
		codec:   codec.NewRecordCodec(),
		deriver: config.Deriver,
		logger:  config.Logger,
	}, nil
}

// Deriver returns the key deriver used by RetrieveByName.
func (c *Client) Deriver() *address.Deriver {
	return c.deriver
}

// Retrieve fetches and decodes the record at key.
func (c *Client) Retrieve(ctx context.Context, key solana.PublicKey) (*codec.Record, error) {
	data, err := c.fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	rec, err := c.codec.Decode(data)
	if err != nil {
		c.logger.Warn("decode record failed", zap.Stringer("key", key), zap.Error(err))
		return nil, fmt.Errorf("record %s: %w", key, err)
	}
	return rec, nil
}

// RetrieveHeader fetches key and decodes only the records program header.
func (c *Client) RetrieveHeader(ctx context.Context, key solana.PublicKey) (codec.RecordHeader, error) {
	data, err := c.fetch(ctx, key)
	if err != nil {
		return codec.RecordHeader{}, err
	}
	if len(data) < codec.MinRecordLen {
		return codec.RecordHeader{}, fmt.Errorf("record %s: %w", key, &codec.DecodeError{
			Field:  "header",
			Offset: codec.NameRegistryLen,
			Want:   codec.MinRecordLen,
			Got:    len(data),
			Err:    codec.ErrTruncated,
		})
	}
	header, err := codec.DecodeHeader(data[codec.NameRegistryLen:codec.MinRecordLen])
	if err != nil {
		return codec.RecordHeader{}, fmt.Errorf("record %s: %w", key, err)
	}
	if err := header.Validate(); err != nil {
		return codec.RecordHeader{}, fmt.Errorf("record %s: %w", key, err)
	}
	return header, nil
}

// RetrieveBatch fetches every key in one round trip. The result has the same
// length and order as keys; absent or empty accounts are nil. A present
// account that fails to decode fails the whole call.
func (c *Client) RetrieveBatch(ctx context.Context, keys []solana.PublicKey) ([]*codec.Record, error) {
	if len(keys) == 0 {
		return []*codec.Record{}, nil
	}

	blobs, err := c.fetcher.GetMultipleAccountData(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch %d records: %w", len(keys), err)
	}
	if len(blobs) != len(keys) {
		return nil, fmt.Errorf("fetch %d records: fetcher returned %d entries", len(keys), len(blobs))
	}

	out := make([]*codec.Record, len(keys))
	absent := 0
	for i, data := range blobs {
		if len(data) == 0 {
			absent++
			continue
		}
		rec, err := c.codec.Decode(data)
		if err != nil {
			c.logger.Warn("decode record failed",
				zap.Int("index", i), zap.Stringer("key", keys[i]), zap.Error(err))
			return nil, fmt.Errorf("record %d (%s): %w", i, keys[i], err)
		}
		out[i] = rec
	}

	c.logger.Debug("fetched records", zap.Int("requested", len(keys)), zap.Int("absent", absent))
	return out, nil
}

// RetrieveByName derives the key of record under domain and retrieves it.
func (c *Client) RetrieveByName(ctx context.Context, domain solana.PublicKey, record string) (solana.PublicKey, *codec.Record, error) {
	key, err := c.deriver.RecordKey(domain, record)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	rec, err := c.Retrieve(ctx, key)
	if err != nil {
		return key, nil, err
	}
	return key, rec, nil
}

func (c *Client) fetch(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	data, err := c.fetcher.GetAccountData(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("record %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch record %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("record %s: %w", key, ErrNotFound)
	}
	return data, nil
}
