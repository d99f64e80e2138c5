// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// tagKeyPrefix namespaces tag tokens inside the shared cache backend.
const tagKeyPrefix = "tag:"

// tagTokenTTL keeps tag tokens alive well beyond entry TTLs. An expired
// token only forces readers to recompute once, so expiry is harmless.
const tagTokenTTL = 24 * time.Hour

// Tags is a tag registry over a Cacher. Each tag maps to an opaque generation
// token; readers embed the current token in their cache keys, so invalidating
// a tag is a single write that strands every entry cached under the old token.
// With a Redis backend the registry is shared across processes.
type Tags struct {
	cache Cacher
}

// NewTags creates a tag registry backed by the given cache.
func NewTags(c Cacher) *Tags {
	return &Tags{cache: c}
}

// Token returns the current generation token for a tag, installing a fresh
// one if the tag has none yet. Two concurrent callers racing on an absent tag
// may observe different tokens; the only consequence is one extra recompute.
func (t *Tags) Token(ctx context.Context, tag string) (string, error) {
	key := tagKeyPrefix + tag

	val, err := t.cache.Get(ctx, key)
	if err == nil {
		return string(val), nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return "", err
	}

	token := uuid.NewString()
	if err := t.cache.Set(ctx, key, []byte(token), tagTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// Invalidate installs a fresh token for the tag, marking everything cached
// under the previous token as stale. The stranded entries age out via TTL.
func (t *Tags) Invalidate(ctx context.Context, tag string) error {
	return t.cache.Set(ctx, tagKeyPrefix+tag, []byte(uuid.NewString()), tagTokenTTL)
}
