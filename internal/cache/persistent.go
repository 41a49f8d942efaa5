// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/database"
)

// StoreName names one logical table of the persistent cache.
type StoreName string

const (
	StoreAnime         StoreName = "anime"
	StoreEpisodes      StoreName = "episodes"
	StoreSearchResults StoreName = "searchResults"
	StoreImages        StoreName = "images"
)

// Stores lists every valid StoreName.
var Stores = []StoreName{StoreAnime, StoreEpisodes, StoreSearchResults, StoreImages}

// ImageURLTTL is how long an image reference stays cached.
const ImageURLTTL = 24 * time.Hour

// ErrUnknownStore is returned for a store name outside Stores.
var ErrUnknownStore = errors.New("unknown cache store")

// ParseStoreName validates a store name.
func ParseStoreName(name string) (StoreName, error) {
	store := StoreName(name)
	if !slices.Contains(Stores, store) {
		return "", errors.Wrapf(ErrUnknownStore, "%q", name)
	}
	return store, nil
}

// ImageRef records that an image URL has been seen and cached.
type ImageRef struct {
	URL    string `json:"url"`
	Cached bool   `json:"cached"`
}

// Persistent is a durable key-value cache with per-entry expiry. The database is
// opened on first use; concurrent first calls wait for that single open.
type Persistent struct {
	path string
	now  func() time.Time

	mu sync.Mutex
	db *database.DB
}

// NewPersistent returns a cache backed by the sqlite file at path.
// Nothing is opened until the first operation or Init.
func NewPersistent(path string) *Persistent {
	return &Persistent{
		path: path,
		now:  time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (p *Persistent) SetClock(now func() time.Time) {
	p.now = now
}

// Init opens and migrates the database. It is safe to call repeatedly and from
// several goroutines; a failed open is retried by the next call.
func (p *Persistent) Init(ctx context.Context) error {
	_, err := p.conn(ctx)
	return err
}

func (p *Persistent) conn(ctx context.Context) (*database.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := database.New(p.path)
	if err != nil {
		return nil, errors.Wrap(err, "open persistent cache")
	}
	p.db = db
	return db, nil
}

// Close closes the database if it was opened.
func (p *Persistent) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// Set stores value (JSON encoded) under store/key. A ttl of zero never expires.
func (p *Persistent) Set(ctx context.Context, store StoreName, key string, value any, ttl time.Duration) error {
	if _, err := ParseStoreName(string(store)); err != nil {
		return err
	}
	db, err := p.conn(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s/%s", store, key)
	}

	now := p.now()
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: now.Add(ttl).UnixMilli(), Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO cache_entries (store, key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (store, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, string(store), key, string(payload), expires, now.UnixMilli())
	if err != nil {
		return errors.Wrapf(err, "write %s/%s", store, key)
	}
	return nil
}

// Get decodes the live value of store/key into dest and reports whether it was
// found. An expired row is deleted in the same transaction and reported missing.
func (p *Persistent) Get(ctx context.Context, store StoreName, key string, dest any) (bool, error) {
	if _, err := ParseStoreName(string(store)); err != nil {
		return false, err
	}
	db, err := p.conn(ctx)
	if err != nil {
		return false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "begin cache read")
	}
	defer tx.Rollback()

	var (
		payload string
		expires sql.NullInt64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache_entries WHERE store = ? AND key = ?",
		string(store), key).Scan(&payload, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "read %s/%s", store, key)
	}

	if expires.Valid && p.now().UnixMilli() >= expires.Int64 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cache_entries WHERE store = ? AND key = ?", string(store), key); err != nil {
			return false, errors.Wrapf(err, "delete expired %s/%s", store, key)
		}
		if err := tx.Commit(); err != nil {
			return false, errors.Wrap(err, "commit expired delete")
		}
		log.Trace().Str("store", string(store)).Str("key", key).Msg("persistent cache entry expired")
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, errors.Wrap(err, "commit cache read")
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(payload), dest); err != nil {
			return false, errors.Wrapf(err, "decode %s/%s", store, key)
		}
	}
	return true, nil
}

// Delete removes store/key.
func (p *Persistent) Delete(ctx context.Context, store StoreName, key string) error {
	if _, err := ParseStoreName(string(store)); err != nil {
		return err
	}
	db, err := p.conn(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM cache_entries WHERE store = ? AND key = ?", string(store), key); err != nil {
		return errors.Wrapf(err, "delete %s/%s", store, key)
	}
	return nil
}

// Clear removes every entry of store and returns how many were removed.
func (p *Persistent) Clear(ctx context.Context, store StoreName) (int64, error) {
	if _, err := ParseStoreName(string(store)); err != nil {
		return 0, err
	}
	db, err := p.conn(ctx)
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, "DELETE FROM cache_entries WHERE store = ?", string(store))
	if err != nil {
		return 0, errors.Wrapf(err, "clear %s", store)
	}
	return res.RowsAffected()
}

// PurgeExpired deletes every expired row across all stores.
func (p *Persistent) PurgeExpired(ctx context.Context) (int64, error) {
	db, err := p.conn(ctx)
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= ?",
		p.now().UnixMilli())
	if err != nil {
		return 0, errors.Wrap(err, "purge expired cache entries")
	}
	return res.RowsAffected()
}

// CacheImageURL remembers url in the images store for ImageURLTTL. It reports
// false without writing when a live reference already exists. The check and
// the write are one upsert, so concurrent callers store a url once.
func (p *Persistent) CacheImageURL(ctx context.Context, url string) (bool, error) {
	db, err := p.conn(ctx)
	if err != nil {
		return false, err
	}

	payload, err := json.Marshal(ImageRef{URL: url, Cached: true})
	if err != nil {
		return false, errors.Wrapf(err, "encode %s/%s", StoreImages, url)
	}

	now := p.now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO cache_entries (store, key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (store, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
		WHERE (cache_entries.expires_at IS NOT NULL AND cache_entries.expires_at <= ?)
			OR COALESCE(json_extract(cache_entries.value, '$.cached'), 0) = 0
	`, string(StoreImages), url, string(payload), now.Add(ImageURLTTL).UnixMilli(), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return false, errors.Wrapf(err, "write %s/%s", StoreImages, url)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "write %s/%s", StoreImages, url)
	}
	return n > 0, nil
}

// RunJanitor purges expired rows every interval until ctx is done.
func (p *Persistent) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to purge expired cache entries")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("purged expired cache entries")
			}
		}
	}
}
