package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

const (
	saveTimeout = 2 * time.Second
	// maxTxAttempts bounds retries when a WATCHed key changes under a transaction.
	maxTxAttempts = 5
)

// RedisStore persists controller state as JSON so sessions survive restarts
// and are shared between replicas.
type RedisStore struct {
	redis   *redis.Client
	factory Factory
	ttl     time.Duration
	logger  *logging.Logger
}

func NewRedisStore(client *redis.Client, factory Factory, ttl time.Duration, logger *logging.Logger) *RedisStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{redis: client, factory: factory, ttl: ttl, logger: logger}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("quote:session:%s", id)
}

// Load restores the controller for id. Every later state change is written back.
func (s *RedisStore) Load(ctx context.Context, id string) (*quotes.Controller, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	st, err := s.get(ctx, s.redis, id)
	if err != nil {
		return nil, err
	}
	ctrl := s.factory(st)
	ctrl.SetClaim(func(ctx context.Context, st quotes.State) error {
		if ctx == nil {
			ctx = context.Background()
		}
		return s.claim(ctx, id, st)
	})
	ctrl.OnChange(func(st quotes.State) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.save(ctx, id, st); err != nil {
			s.logger.Error("session: failed to persist quote state", "error", err, "session_id", id)
		}
	})
	return ctrl, nil
}

func (s *RedisStore) get(ctx context.Context, cmd redis.Cmdable, id string) (quotes.State, error) {
	data, err := cmd.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quotes.State{}, nil
	}
	if err != nil {
		return quotes.State{}, fmt.Errorf("session: get state: %w", err)
	}
	var st quotes.State
	if err := json.Unmarshal(data, &st); err != nil {
		return quotes.State{}, fmt.Errorf("session: unmarshal state: %w", err)
	}
	return st, nil
}

// watch runs fn in a WATCH transaction on key, retrying when another client
// modified the key before EXEC.
func (s *RedisStore) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = s.redis.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

// claim marks the stored session as submitting, failing when another
// controller for the same session already did or the stored form moved on.
func (s *RedisStore) claim(ctx context.Context, id string, st quotes.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: marshal state: %w", err)
	}
	key := s.key(id)
	return s.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		switch {
		case current.Generation > st.Generation:
			// reset elsewhere; this form is gone
			return quotes.ErrNotInFormStep
		case current.Generation == st.Generation && current.Step == quotes.StepConfirmation:
			return quotes.ErrNotInFormStep
		case current.Generation == st.Generation && current.Submitting:
			return quotes.ErrSubmitInFlight
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	})
}

// save writes st unless a newer generation is already stored, so a delivery
// finishing after a reset on another replica cannot resurrect the old form.
func (s *RedisStore) save(ctx context.Context, id string, st quotes.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: marshal state: %w", err)
	}
	key := s.key(id)
	err = s.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Generation > st.Generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("session: set state: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session: delete state: %w", err)
	}
	return nil
}
