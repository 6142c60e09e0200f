// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

const (
	profileKeyPrefix = "profile:"

	// DefaultProfileTimeout bounds a remote profile load.
	DefaultProfileTimeout = 30 * time.Second
)

// ProfileService loads the user's profile and keeps a local copy to start
// from when the remote store is slow or unreachable.
type ProfileService struct {
	gateway adapter.Gateway
	kv      store.KeyValueRepository
	timeout time.Duration
	logger  *logger.Logger

	mu      sync.RWMutex
	current *models.Profile
}

func NewProfileService(gateway adapter.Gateway, kv store.KeyValueRepository, timeout time.Duration, log *logger.Logger) *ProfileService {
	if timeout <= 0 {
		timeout = DefaultProfileTimeout
	}
	return &ProfileService{gateway: gateway, kv: kv, timeout: timeout, logger: log}
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}

type profileResult struct {
	profile models.Profile
	err     error
}

// Load races the remote fetch against the configured timeout. A fresh
// profile replaces the cached copy; on timeout or failure the cached copy is
// returned. Without a usable cache the result is [ErrProfileUnavailable].
func (p *ProfileService) Load(ctx context.Context) (models.Profile, error) {
	log := p.logger.With().Str("func", "*ProfileService.Load").Logger()

	userID := p.gateway.UserID()
	if userID == "" {
		return models.Profile{}, adapter.ErrNoUser
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// buffered so the fetch never blocks after a timeout
	results := make(chan profileResult, 1)
	go func() {
		profile, err := p.fetch(fetchCtx, userID)
		results <- profileResult{profile: profile, err: err}
	}()

	var remoteErr error
	select {
	case res := <-results:
		if res.err == nil {
			p.remember(ctx, userID, res.profile)
			return res.profile, nil
		}
		remoteErr = res.err
	case <-fetchCtx.Done():
		remoteErr = fmt.Errorf("profile load: %w", fetchCtx.Err())
	}

	log.Warn().Err(remoteErr).Msg("remote profile unavailable, using cached copy")

	cached, err := p.cached(ctx, userID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("%w: %w", ErrProfileUnavailable, remoteErr)
	}

	p.mu.Lock()
	p.current = &cached
	p.mu.Unlock()
	return cached, nil
}

// Save upserts profile remotely and refreshes the cache. The cache is
// updated even when the remote write fails.
func (p *ProfileService) Save(ctx context.Context, profile models.Profile) error {
	userID := p.gateway.UserID()
	if userID == "" {
		return adapter.ErrNoUser
	}
	profile.UserID = userID
	profile.DefaultWorkspace = models.ParseWorkspace(string(profile.DefaultWorkspace))
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}

	p.remember(ctx, userID, profile)

	row, err := json.Marshal(profileRow{ID: userID, Profile: profile})
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	res := p.gateway.Call(ctx, models.RemoteOperation{
		Kind:  models.QueryUpsert,
		Table: models.TableProfiles,
		Rows:  []json.RawMessage{row},
	})
	if res.Err != nil {
		return fmt.Errorf("save profile: %w", res.Err)
	}
	return nil
}

// Current returns the last loaded profile.
func (p *ProfileService) Current() (models.Profile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return models.Profile{}, false
	}
	return *p.current, true
}

// profileRow is the remote shape: the profile keyed by the user id.
type profileRow struct {
	ID string `json:"id"`
	models.Profile
}

func (p *ProfileService) fetch(ctx context.Context, userID string) (models.Profile, error) {
	res := p.gateway.Call(ctx, models.RemoteOperation{Kind: models.QuerySelect, Table: models.TableProfiles})
	if res.Err != nil {
		return models.Profile{}, res.Err
	}

	for _, raw := range res.Data {
		var row profileRow
		if err := json.Unmarshal(raw, &row); err != nil {
			p.logger.Warn().Err(err).Str("func", "*ProfileService.fetch").Msg("skipping undecodable profile row")
			continue
		}
		if row.UserID == "" {
			row.UserID = userID
		}
		row.DefaultWorkspace = models.ParseWorkspace(string(row.DefaultWorkspace))
		return row.Profile, nil
	}

	return models.Profile{}, ErrProfileNotFound
}

func (p *ProfileService) remember(ctx context.Context, userID string, profile models.Profile) {
	p.mu.Lock()
	p.current = &profile
	p.mu.Unlock()

	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err = p.kv.Set(ctx, profileKey(userID), raw); err != nil {
		p.logger.Err(err).Str("func", "*ProfileService.remember").Msg("error caching profile")
	}
}

// cached reads the stored copy. Corrupt data counts as absent.
func (p *ProfileService) cached(ctx context.Context, userID string) (models.Profile, error) {
	raw, err := p.kv.Get(ctx, profileKey(userID))
	if err != nil {
		return models.Profile{}, err
	}

	var profile models.Profile
	if err = json.Unmarshal(raw, &profile); err != nil {
		p.logger.Warn().Err(err).Str("func", "*ProfileService.cached").Msg("cached profile is corrupt")
		return models.Profile{}, errors.Join(store.ErrKeyNotFound, err)
	}
	return profile, nil
}
