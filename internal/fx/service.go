package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "fx:rates"

// RateSource is the persistence contract the service needs.
type RateSource interface {
	ListRates(ctx context.Context) ([]Rate, error)
	UpsertRate(ctx context.Context, currency string, rate float64) error
}

// Service serves immutable rate-table snapshots, backed by Postgres with a
// Redis cache in front so every dashboard computation does not hit the store.
type Service struct {
	repo  RateSource
	cache *redis.Client
	ttl   time.Duration
}

// NewService wires the rate source with an optional Redis cache.
func NewService(repo RateSource, cache *redis.Client, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

// Snapshot returns the current rate table. The base currency is always
// present with rate 1 regardless of stored rows.
func (s *Service) Snapshot(ctx context.Context) (RateTable, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, snapshotKey).Bytes()
		if err == nil {
			var table RateTable
			if err := json.Unmarshal(payload, &table); err == nil && len(table) > 0 {
				return table, nil
			}
		} else if err != redis.Nil {
			return nil, fmt.Errorf("fx: cache read: %w", err)
		}
	}
	return s.Refresh(ctx)
}

// Refresh reloads rates from the store and repopulates the cache.
func (s *Service) Refresh(ctx context.Context) (RateTable, error) {
	rates, err := s.repo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("fx: list rates: %w", err)
	}
	table := make(RateTable, len(rates)+1)
	table[BaseCurrency] = 1
	for _, rate := range rates {
		code := strings.ToUpper(strings.TrimSpace(rate.Currency))
		if code == "" || rate.Rate <= 0 {
			continue
		}
		table[code] = rate.Rate
	}
	if s.cache != nil {
		payload, err := json.Marshal(table)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, snapshotKey, payload, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("fx: cache write: %w", err)
		}
	}
	return table, nil
}

// SetRate validates and persists a single rate, then invalidates the cache.
func (s *Service) SetRate(ctx context.Context, currency string, rate float64) error {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return errors.New("fx: currency required")
	}
	if code == BaseCurrency && rate != 1 {
		return fmt.Errorf("fx: base currency %s is fixed at 1", BaseCurrency)
	}
	if rate <= 0 {
		return fmt.Errorf("fx: rate for %s must be positive", code)
	}
	if err := s.repo.UpsertRate(ctx, code, rate); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, snapshotKey).Err(); err != nil {
			return fmt.Errorf("fx: cache invalidate: %w", err)
		}
	}
	return nil
}
