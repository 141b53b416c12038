package fx

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryRateSource struct {
	rates map[string]float64
	lists int
}

func (m *memoryRateSource) ListRates(ctx context.Context) ([]Rate, error) {
	m.lists++
	out := make([]Rate, 0, len(m.rates))
	for currency, rate := range m.rates {
		out = append(out, Rate{Currency: currency, Rate: rate, UpdatedAt: time.Now()})
	}
	return out, nil
}

func (m *memoryRateSource) UpsertRate(ctx context.Context, currency string, rate float64) error {
	if m.rates == nil {
		m.rates = map[string]float64{}
	}
	m.rates[currency] = rate
	return nil
}

func newTestService(t *testing.T, source RateSource) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(source, client, time.Minute)
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestSnapshotCachesRates(t *testing.T) {
	source := &memoryRateSource{rates: map[string]float64{"UGX": 3700, "kes": 129.5}}
	svc, cleanup := newTestService(t, source)
	defer cleanup()

	ctx := context.Background()
	table, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 3700.0, table["UGX"])
	require.Equal(t, 129.5, table["KES"], "currency codes are normalised to upper case")
	require.Equal(t, 1.0, table[BaseCurrency])
	require.Equal(t, 1, source.lists)

	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, source.lists, "second snapshot should come from cache")
}

func TestSetRateInvalidatesCache(t *testing.T) {
	source := &memoryRateSource{rates: map[string]float64{"UGX": 3700}}
	svc, cleanup := newTestService(t, source)
	defer cleanup()

	ctx := context.Background()
	_, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.SetRate(ctx, "ugx", 3800))

	table, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 3800.0, table["UGX"])
}

func TestSetRateRejectsBadInput(t *testing.T) {
	source := &memoryRateSource{}
	svc := NewService(source, nil, 0)
	ctx := context.Background()

	require.Error(t, svc.SetRate(ctx, "", 10))
	require.Error(t, svc.SetRate(ctx, "UGX", 0))
	require.Error(t, svc.SetRate(ctx, BaseCurrency, 2))
	require.NoError(t, svc.SetRate(ctx, BaseCurrency, 1))
}

func TestRefreshWithEmptyStore(t *testing.T) {
	source := &memoryRateSource{}
	svc := NewService(source, nil, 0)
	table, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, RateTable{BaseCurrency: 1}, table, "base currency is always present")
}
