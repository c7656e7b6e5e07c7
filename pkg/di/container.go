// Package di provides dependency injection container
package di

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ssargent/snsrecords/pkg/address"
	"github.com/ssargent/snsrecords/pkg/api" //nolint:depguard
	"github.com/ssargent/snsrecords/pkg/config"
	"github.com/ssargent/snsrecords/pkg/instruction"
	"github.com/ssargent/snsrecords/pkg/logging"
	"github.com/ssargent/snsrecords/pkg/records"
	"github.com/ssargent/snsrecords/pkg/storage"
	"github.com/ssargent/snsrecords/pkg/transport"
)

// Container holds all the dependencies for the application. Components are
// built on first use so commands that never touch the network do not need
// an RPC endpoint.
type Container struct {
	config        *config.Config
	logger        *zap.Logger
	registry      *prometheus.Registry
	serverFactory api.ServerFactory

	mu      sync.Mutex
	fetcher records.AccountFetcher
	cache   *storage.Cache
	client  *records.Client
	builder *instruction.Builder
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return &Container{
		config:        cfg,
		logger:        logger,
		registry:      prometheus.NewRegistry(),
		serverFactory: api.NewServerFactory(logger),
	}, nil
}

// Config returns the configuration the container was built from
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Registry returns the Prometheus registry shared by the transport and the gateway
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Builder returns the instruction builder for the configured program
func (c *Container) Builder() (*instruction.Builder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builderLocked()
}

func (c *Container) builderLocked() (*instruction.Builder, error) {
	if c.builder != nil {
		return c.builder, nil
	}
	programID, err := c.config.RecordsProgramID()
	if err != nil {
		return nil, err
	}
	nameService, err := c.config.NameServiceProgramID()
	if err != nil {
		return nil, err
	}
	c.builder = instruction.NewBuilder(instruction.BuilderConfig{
		ProgramID:     programID,
		NameServiceID: nameService,
		Logger:        c.logger.Named("instruction"),
	})
	return c.builder, nil
}

// Fetcher returns the account fetcher: the RPC transport, wrapped by the
// pebble cache when enabled
func (c *Container) Fetcher() (records.AccountFetcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetcherLocked()
}

func (c *Container) fetcherLocked() (records.AccountFetcher, error) {
	if c.fetcher != nil {
		return c.fetcher, nil
	}

	var fetcher records.AccountFetcher = transport.NewRPCFetcher(transport.Config{
		Endpoint:   c.config.RPC.Endpoint,
		Timeout:    c.config.RPC.Timeout,
		Commitment: rpc.CommitmentType(c.config.RPC.Commitment),
		Logger:     c.logger.Named("rpc"),
		Metrics:    transport.NewMetrics(c.registry),
	})

	if c.config.Cache.Enabled {
		cache, err := storage.Open(c.config.Cache.Dir, storage.Config{
			TTL:    c.config.Cache.TTL,
			Logger: c.logger.Named("cache"),
		})
		if err != nil {
			return nil, err
		}
		c.cache = cache
		fetcher = storage.NewCachingFetcher(fetcher, cache)
	}

	c.fetcher = fetcher
	return c.fetcher, nil
}

// Records returns the records client
func (c *Container) Records() (*records.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	fetcher, err := c.fetcherLocked()
	if err != nil {
		return nil, err
	}
	programID, err := c.config.RecordsProgramID()
	if err != nil {
		return nil, err
	}
	client, err := records.NewClient(records.Config{
		Fetcher: fetcher,
		Deriver: address.NewDeriver(programID),
		Logger:  c.logger.Named("records"),
	})
	if err != nil {
		return nil, err
	}
	c.client = client
	return c.client, nil
}

// ServerConfig returns the gateway configuration
func (c *Container) ServerConfig() api.ServerConfig {
	return api.ServerConfig{
		Bind:     c.config.API.Bind,
		Port:     c.config.API.Port,
		APIKey:   c.config.API.APIKey,
		Registry: c.registry,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// SetFetcher allows overriding the account fetcher (for testing). It must be
// called before Records.
func (c *Container) SetFetcher(fetcher records.AccountFetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetcher = fetcher
	c.client = nil
}

// SetLogger replaces the application logger
func (c *Container) SetLogger(logger *zap.Logger) {
	c.logger = logger
	c.serverFactory = api.NewServerFactory(logger)
}

// Close releases the cache, if open, and flushes the logger
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.cache != nil {
		errs = append(errs, c.cache.Close())
		c.cache = nil
	}
	_ = c.logger.Sync()
	return errors.Join(errs...)
}
