package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/snsrecords/pkg/records"
)

type fakeRPC struct {
	accounts   map[solana.PublicKey][]byte
	err        error
	batchSizes []int
	opts       *rpc.GetAccountInfoOpts
	deadline   bool
}

func (f *fakeRPC) GetAccountInfoWithOpts(ctx context.Context, key solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	f.opts = opts
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.accounts[key]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{Owner: solana.SystemProgramID, Data: rpc.DataBytesOrJSONFromBytes(data)},
	}, nil
}

func (f *fakeRPC) GetMultipleAccountsWithOpts(_ context.Context, keys []solana.PublicKey, _ *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error) {
	f.batchSizes = append(f.batchSizes, len(keys))
	if f.err != nil {
		return nil, f.err
	}
	res := &rpc.GetMultipleAccountsResult{Value: make([]*rpc.Account, len(keys))}
	for i, k := range keys {
		if data, ok := f.accounts[k]; ok {
			res.Value[i] = &rpc.Account{Data: rpc.DataBytesOrJSONFromBytes(data)}
		}
	}
	return res, nil
}

func key(t *testing.T) solana.PublicKey {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return pk.PublicKey()
}

func TestGetAccountData(t *testing.T) {
	k := key(t)
	fake := &fakeRPC{accounts: map[solana.PublicKey][]byte{k: {1, 2, 3}}}
	metrics := NewMetrics(prometheus.NewRegistry())
	f := newFetcher(fake, Config{Metrics: metrics})

	data, err := f.GetAccountData(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, solana.EncodingBase64, fake.opts.Encoding)
	assert.Equal(t, rpc.CommitmentConfirmed, fake.opts.Commitment)
	assert.False(t, fake.deadline)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.callsTotal.WithLabelValues("getAccountInfo", statusSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.bytesFetched))

	t.Run("absent account", func(t *testing.T) {
		_, err := f.GetAccountData(context.Background(), key(t))
		assert.ErrorIs(t, err, records.ErrNotFound)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.callsTotal.WithLabelValues("getAccountInfo", statusNotFound)))
	})
}

func TestGetAccountData_Error(t *testing.T) {
	fake := &fakeRPC{err: errors.New("503 service unavailable")}
	f := newFetcher(fake, Config{})

	_, err := f.GetAccountData(context.Background(), key(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, records.ErrNotFound)
	assert.Contains(t, err.Error(), "503")
}

func TestGetAccountData_Timeout(t *testing.T) {
	k := key(t)
	fake := &fakeRPC{accounts: map[solana.PublicKey][]byte{k: {1}}}
	f := newFetcher(fake, Config{Timeout: time.Second, Commitment: rpc.CommitmentFinalized})

	_, err := f.GetAccountData(context.Background(), k)
	require.NoError(t, err)
	assert.True(t, fake.deadline)
	assert.Equal(t, rpc.CommitmentFinalized, fake.opts.Commitment)
}

func TestGetMultipleAccountData(t *testing.T) {
	a, absent, c := key(t), key(t), key(t)
	fake := &fakeRPC{accounts: map[solana.PublicKey][]byte{a: {0xa}, c: {0xc}}}
	f := newFetcher(fake, Config{})

	out, err := f.GetMultipleAccountData(context.Background(), []solana.PublicKey{a, absent, c})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0xa}, nil, {0xc}}, out)
	assert.Equal(t, []int{3}, fake.batchSizes)
}

func TestGetMultipleAccountData_Chunks(t *testing.T) {
	fake := &fakeRPC{accounts: map[solana.PublicKey][]byte{}}
	keys := make([]solana.PublicKey, 2*MaxAccountsPerRequest+5)
	for i := range keys {
		keys[i] = key(t)
		if i%2 == 0 {
			fake.accounts[keys[i]] = []byte{byte(i)}
		}
	}
	f := newFetcher(fake, Config{})

	out, err := f.GetMultipleAccountData(context.Background(), keys)
	require.NoError(t, err)
	require.Len(t, out, len(keys))
	assert.Equal(t, []int{MaxAccountsPerRequest, MaxAccountsPerRequest, 5}, fake.batchSizes)
	for i := range keys {
		if i%2 == 0 {
			assert.Equal(t, []byte{byte(i)}, out[i])
		} else {
			assert.Nil(t, out[i])
		}
	}
}

func TestGetMultipleAccountData_Error(t *testing.T) {
	f := newFetcher(&fakeRPC{err: errors.New("boom")}, Config{})
	_, err := f.GetMultipleAccountData(context.Background(), []solana.PublicKey{key(t)})
	assert.Error(t, err)
}

func TestFetcherServesRecordsClient(t *testing.T) {
	k := key(t)
	data := make([]byte, 104)
	fake := &fakeRPC{accounts: map[solana.PublicKey][]byte{k: data}}
	client, err := records.NewClient(records.Config{Fetcher: newFetcher(fake, Config{})})
	require.NoError(t, err)

	rec, err := client.Retrieve(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), rec.Header.ContentLength)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.recordCall("getAccountInfo", nil, time.Millisecond)
		m.recordAccounts(1, 10)
	})
}
