// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix = "verifycode:"

	// DefaultCodeTTL is how long a phone verification code stays valid.
	DefaultCodeTTL = 5 * time.Minute
)

// CodeStore holds short-lived phone verification codes in Valkey. The TTL
// bounds each code's validity; expired codes simply vanish, no sweeper runs.
type CodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCodeStore creates a verification-code store on the given Valkey client.
func NewCodeStore(client *redis.Client, ttl time.Duration) *CodeStore {
	if ttl == 0 {
		ttl = DefaultCodeTTL
	}
	return &CodeStore{client: client, ttl: ttl}
}

// Put stores the code for a phone number, replacing any previous one and
// restarting the TTL.
func (cs *CodeStore) Put(ctx context.Context, phone, code string) error {
	if err := cs.client.Set(ctx, codeKeyPrefix+phone, code, cs.ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// Verify checks the submitted code against the stored one. A match consumes
// the code so it cannot be replayed.
func (cs *CodeStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	stored, err := cs.client.Get(ctx, codeKeyPrefix+phone).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read verification code: %w", err)
	}
	if stored != code {
		return false, nil
	}
	if err := cs.client.Del(ctx, codeKeyPrefix+phone).Err(); err != nil {
		return false, fmt.Errorf("consume verification code: %w", err)
	}
	return true, nil
}
