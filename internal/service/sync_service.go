// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
	"golang.org/x/sync/errgroup"
)

// SyncService owns the channels, the offline queue and the sync state
// machine, and is the entry point of the consumer API.
type SyncService struct {
	gateway  adapter.Gateway
	state    *SyncStateMachine
	queue    *OfflineQueue
	channels []SyncChannel
	logger   *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	unhooks []func()
}

func NewSyncService(gateway adapter.Gateway, state *SyncStateMachine, queue *OfflineQueue,
	channels []SyncChannel, log *logger.Logger) *SyncService {
	for _, ch := range channels {
		queue.Register(ch)
	}

	return &SyncService{
		gateway:  gateway,
		state:    state,
		queue:    queue,
		channels: channels,
		logger:   log,
	}
}

// Start loads the user's offline queue, subscribes every channel to its
// change feed, hooks queue replay to reconnects and runs the initial fetch.
// Fetch failures are recorded in the sync state, not returned.
func (s *SyncService) Start(ctx context.Context) error {
	log := s.logger.With().Str("func", "*SyncService.Start").Logger()

	userID := s.gateway.UserID()
	if userID == "" {
		return adapter.ErrNoUser
	}

	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	s.queue.Load(ctx, userID)

	for _, ch := range s.channels {
		if err := ch.Start(ctx); err != nil {
			cancel()
			s.stopChannels()
			return fmt.Errorf("start %s channel: %w", ch.Collection(), err)
		}
	}

	unhook := s.state.OnReconnect(func() {
		if err := s.RetrySync(ctx); err != nil {
			log.Warn().Err(err).Msg("sync after reconnect failed")
		}
	})

	s.mu.Lock()
	s.cancel = cancel
	s.unhooks = append(s.unhooks, unhook)
	s.mu.Unlock()

	if s.state.IsOnline() && s.queue.Len() > 0 {
		if err := s.queue.Replay(ctx); err != nil {
			log.Warn().Err(err).Int("queued", s.queue.Len()).Msg("initial replay failed")
		}
	}
	if err := s.FetchAll(ctx); err != nil {
		log.Warn().Err(err).Msg("initial fetch failed")
	}

	log.Info().Str("user_id", userID).Int("channels", len(s.channels)).Msg("sync service started")
	return nil
}

// FetchAll re-fetches every collection concurrently and returns the first
// error.
func (s *SyncService) FetchAll(ctx context.Context) error {
	var g errgroup.Group
	for _, ch := range s.channels {
		g.Go(func() error {
			return ch.FetchAndUpdate(ctx)
		})
	}
	return g.Wait()
}

// RetrySync replays the offline queue and then re-fetches everything.
// A replay failure stops the retry; the rest of the queue stays pending.
func (s *SyncService) RetrySync(ctx context.Context) error {
	if !s.state.IsOnline() {
		return ErrReplayOffline
	}

	if err := s.queue.Replay(ctx); err != nil {
		if errors.Is(err, ErrReplayInProgress) {
			s.logger.Debug().Str("func", "*SyncService.RetrySync").Msg("replay already running")
			return err
		}
		return fmt.Errorf("replay offline queue: %w", err)
	}

	return s.FetchAll(ctx)
}

// OnSyncStateChange registers cb for every sync state change.
func (s *SyncService) OnSyncStateChange(cb StateObserver) func() {
	return s.state.OnSyncStateChange(cb)
}

func (s *SyncService) State() models.SyncState {
	return s.state.State()
}

func (s *SyncService) QueueLen() int {
	return s.queue.Len()
}

// SetOnline forwards a connectivity signal to the state machine.
func (s *SyncService) SetOnline(online bool) {
	s.state.SetOnline(online)
}

// Flush waits for every submitted mutation of every channel.
func (s *SyncService) Flush() {
	for _, ch := range s.channels {
		ch.Flush()
	}
}

// Stop releases subscriptions and hooks. The service can be started again.
func (s *SyncService) Stop() {
	s.mu.Lock()
	cancel, unhooks := s.cancel, s.unhooks
	s.cancel, s.unhooks = nil, nil
	s.mu.Unlock()

	for _, unhook := range unhooks {
		unhook()
	}
	if cancel != nil {
		cancel()
	}
	s.stopChannels()
}

func (s *SyncService) stopChannels() {
	for _, ch := range s.channels {
		ch.Stop()
	}
}
