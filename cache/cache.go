// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cache stores rendered reports. Values are lz4 compressed and held in
// a local LRU; when cache.redis is set they are also written to redis with a
// TTL so several pvstats processes can share results.
package cache

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
)

var (
	ErrCacheMiss     = errors.New("key not in cache")
	ErrNotConfigured = errors.New("cache has not been setup")
)

var (
	rdb    *redis.Client
	local  *lru.Cache
	ttl    time.Duration
	locker sync.RWMutex
)

// Setup builds the cache from the cache.* configuration keys
func Setup() error {
	locker.Lock()
	defer locker.Unlock()

	rdb = nil
	if viper.GetBool("cache.redis") {
		opt, err := redis.ParseURL(viper.GetString("cache.redis_url"))
		if err != nil {
			log.Error().Err(err).Str("URL", viper.GetString("cache.redis_url")).Msg("could not parse redis URL")
			return err
		}

		rdb = redis.NewClient(opt)
	}

	size := viper.GetInt("cache.local_size")
	if size <= 0 {
		size = 128
	}

	var err error
	local, err = lru.New(size)
	if err != nil {
		log.Error().Err(err).Int("Size", size).Msg("could not create LRU cache")
		return err
	}

	ttl = time.Duration(viper.GetInt("cache.ttl")) * time.Second
	return nil
}

// Key derives a cache key from an ordered list of parts
func Key(parts ...string) string {
	hasher := blake3.New()
	for _, part := range parts {
		// length prefix keeps ("ab", "c") distinct from ("a", "bc")
		var size [8]byte
		binary.LittleEndian.PutUint64(size[:], uint64(len(part)))
		_, _ = hasher.Write(size[:])
		_, _ = hasher.Write([]byte(part))
	}
	return "pvstats:" + hex.EncodeToString(hasher.Sum(nil))
}

func Set(ctx context.Context, key string, val []byte) error {
	locker.RLock()
	defer locker.RUnlock()

	if local == nil {
		return ErrNotConfigured
	}

	compressed, err := Compress(val)
	if err != nil {
		return err
	}
	local.Add(key, compressed)

	if rdb != nil {
		return rdb.Set(ctx, key, compressed, ttl).Err()
	}
	return nil
}

// Get returns the value stored under key. A redis hit refreshes the TTL and
// repopulates the local tier.
func Get(ctx context.Context, key string) ([]byte, error) {
	locker.RLock()
	defer locker.RUnlock()

	if local == nil {
		return nil, ErrNotConfigured
	}

	if val, ok := local.Get(key); ok {
		return Decompress(val.([]byte))
	}

	if rdb == nil {
		return nil, ErrCacheMiss
	}

	val, err := rdb.GetEx(ctx, key, ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("redis get failed")
		return nil, err
	}

	local.Add(key, val)
	return Decompress(val)
}

// Purge empties the local tier
func Purge() {
	locker.RLock()
	defer locker.RUnlock()

	if local != nil {
		local.Purge()
	}
}
