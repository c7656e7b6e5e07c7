package di

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/snsrecords/pkg/address"
	"github.com/ssargent/snsrecords/pkg/config"
	"github.com/ssargent/snsrecords/pkg/records"
	"github.com/ssargent/snsrecords/pkg/storage"
	"github.com/ssargent/snsrecords/pkg/transport"
)

type emptyFetcher struct{}

func (emptyFetcher) GetAccountData(context.Context, solana.PublicKey) ([]byte, error) {
	return nil, records.ErrNotFound
}

func (emptyFetcher) GetMultipleAccountData(_ context.Context, keys []solana.PublicKey) ([][]byte, error) {
	return make([][]byte, len(keys)), nil
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(nil)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.GetServerFactory())
	assert.Equal(t, config.DefaultConfig(), c.Config())
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RPC.Endpoint = ""
	_, err := NewContainer(cfg)
	assert.Error(t, err)
}

func TestContainer_Builder(t *testing.T) {
	cfg := config.DefaultConfig()
	program := solana.MustPublicKeyFromBase58("9K6vPLB1DqgznyA3CBKeZ3GnD8Fqo8vcvx2Vxkk5uwqN")
	cfg.Program.RecordsID = program.String()

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	b, err := c.Builder()
	require.NoError(t, err)
	assert.Equal(t, program, b.ProgramID())

	again, err := c.Builder()
	require.NoError(t, err)
	assert.Same(t, b, again)
}

func TestContainer_Fetcher(t *testing.T) {
	t.Run("rpc only", func(t *testing.T) {
		c, err := NewContainer(nil)
		require.NoError(t, err)
		defer c.Close()

		f, err := c.Fetcher()
		require.NoError(t, err)
		assert.IsType(t, &transport.RPCFetcher{}, f)
	})

	t.Run("cached", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Cache.Enabled = true
		cfg.Cache.Dir = t.TempDir()

		c, err := NewContainer(cfg)
		require.NoError(t, err)

		f, err := c.Fetcher()
		require.NoError(t, err)
		assert.IsType(t, &storage.CachingFetcher{}, f)
		assert.NoError(t, c.Close())
	})
}

func TestContainer_Records(t *testing.T) {
	c, err := NewContainer(nil)
	require.NoError(t, err)
	defer c.Close()
	c.SetFetcher(emptyFetcher{})

	client, err := c.Records()
	require.NoError(t, err)
	assert.Equal(t, address.ProgramID, client.Deriver().ProgramID())

	_, err = client.Retrieve(context.Background(), address.ProgramID)
	assert.ErrorIs(t, err, records.ErrNotFound)

	again, err := c.Records()
	require.NoError(t, err)
	assert.Same(t, client, again)
}

func TestContainer_ServerConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.Port = 9100
	cfg.API.APIKey = "k"

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	sc := c.ServerConfig()
	assert.Equal(t, 9100, sc.Port)
	assert.Equal(t, "k", sc.APIKey)
	assert.Same(t, c.Registry(), sc.Registry)
}
