// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent is the gateway concurrency cap used when none is
// configured.
const DefaultMaxConcurrent = 2

type gateway struct {
	store RemoteStore
	sem   *semaphore.Weighted

	mu     sync.RWMutex
	userID string

	logger *logger.Logger
}

var (
	sharedOnce    sync.Once
	sharedGateway Gateway
)

// SharedGateway returns the process-wide gateway, constructing it from the
// arguments on the first call. Later calls ignore their arguments.
func SharedGateway(store RemoteStore, maxConcurrent int, userID string, log *logger.Logger) Gateway {
	sharedOnce.Do(func() {
		sharedGateway = NewGateway(store, maxConcurrent, userID, log)
	})
	return sharedGateway
}

// NewGateway constructs a private gateway around store. Waiters for a free
// slot are served in FIFO order.
func NewGateway(store RemoteStore, maxConcurrent int, userID string, log *logger.Logger) Gateway {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if log == nil {
		log = logger.Nop()
	}

	return &gateway{
		store:  store,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		userID: userID,
		logger: log,
	}
}

// UserIDFromToken returns the subject of a bearer token without verifying
// it. The remote store verifies every request on its own.
func UserIDFromToken(token string) (string, error) {
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return "", fmt.Errorf("parse user id from token: %w", err)
	}
	return userID, nil
}

func (g *gateway) UserID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.userID
}

func (g *gateway) SetUserID(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.userID = userID
}

func (g *gateway) Ping(ctx context.Context) error {
	return g.store.Ping(ctx)
}

func (g *gateway) SubscribeToChanges(ctx context.Context, table, userID string, onChange func(models.ChangeEvent)) (func(), error) {
	if userID == "" {
		userID = g.UserID()
	}
	if userID == "" {
		return nil, ErrNoUser
	}

	unsubscribe, err := g.store.Subscribe(ctx, table, userID, onChange)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", table, err)
	}
	return unsubscribe, nil
}

func (g *gateway) Call(ctx context.Context, op models.RemoteOperation) (result models.RemoteResult) {
	log := g.logger.With().Str("func", "gateway.Call").Str("table", op.Table).Str("kind", string(op.Kind)).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("remote call panicked")
			result = models.RemoteResult{Err: fmt.Errorf("%w: %v", ErrInvalidOperation, r)}
		}
	}()

	userID := g.UserID()
	if userID == "" {
		return models.RemoteResult{Err: ErrNoUser}
	}
	if err := validateOperation(op); err != nil {
		return models.RemoteResult{Err: err}
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return models.RemoteResult{Err: fmt.Errorf("wait for connection slot: %w", err)}
	}
	defer g.sem.Release(1)

	result = g.do(ctx, op, userID)
	if result.Err != nil {
		log.Debug().Err(result.Err).Msg("remote call failed")
	}
	return result
}

func (g *gateway) do(ctx context.Context, op models.RemoteOperation, userID string) models.RemoteResult {
	switch op.Kind {
	case models.QuerySelect:
		data, err := g.store.Select(ctx, op.Table, userID)
		return models.RemoteResult{Data: data, Err: err}
	case models.QueryInsert:
		data, err := g.store.Insert(ctx, op.Table, userID, op.Rows)
		return models.RemoteResult{Data: data, Err: err}
	case models.QueryUpdate:
		data, err := g.store.Update(ctx, op.Table, userID, op.ID, op.Rows[0])
		return models.RemoteResult{Data: data, Err: err}
	case models.QueryUpsert:
		data, err := g.store.Upsert(ctx, op.Table, userID, op.Rows)
		return models.RemoteResult{Data: data, Err: err}
	case models.QueryDelete:
		return models.RemoteResult{Err: g.store.Delete(ctx, op.Table, userID, op.ID)}
	default:
		return models.RemoteResult{Err: fmt.Errorf("%w: %q", ErrUnknownOperation, op.Kind)}
	}
}

func validateOperation(op models.RemoteOperation) error {
	if op.Table == "" {
		return fmt.Errorf("%w: empty table", ErrInvalidOperation)
	}

	switch op.Kind {
	case models.QuerySelect:
	case models.QueryInsert, models.QueryUpsert:
		if len(op.Rows) == 0 {
			return fmt.Errorf("%w: %s without rows", ErrInvalidOperation, op.Kind)
		}
	case models.QueryUpdate:
		if op.ID == "" || len(op.Rows) != 1 {
			return fmt.Errorf("%w: update needs an id and exactly one row", ErrInvalidOperation)
		}
	case models.QueryDelete:
		if op.ID == "" {
			return fmt.Errorf("%w: delete without id", ErrInvalidOperation)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op.Kind)
	}

	return nil
}
