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


package cache_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/penny-vault/pvstats/cache"
)

var _ = Describe("Cache", func() {
	ctx := context.Background()

	BeforeEach(func() {
		viper.Set("cache.redis", false)
		viper.Set("cache.local_size", 2)
		viper.Set("cache.ttl", 60)
		Expect(cache.Setup()).To(Succeed())
	})

	It("round trips values through lz4", func() {
		payload := bytes.Repeat([]byte("Sharpe 1.23\n"), 100)
		compressed, err := cache.Compress(payload)
		Expect(err).To(BeNil())
		Expect(len(compressed)).To(BeNumerically("<", len(payload)))

		out, err := cache.Decompress(compressed)
		Expect(err).To(BeNil())
		Expect(out).To(Equal(payload))
	})

	It("returns stored values", func() {
		Expect(cache.Set(ctx, "a", []byte("report a"))).To(Succeed())
		val, err := cache.Get(ctx, "a")
		Expect(err).To(BeNil())
		Expect(string(val)).To(Equal("report a"))
	})

	It("reports misses", func() {
		_, err := cache.Get(ctx, "missing")
		Expect(err).To(MatchError(cache.ErrCacheMiss))
	})

	It("evicts the least recently used entry", func() {
		Expect(cache.Set(ctx, "a", []byte("1"))).To(Succeed())
		Expect(cache.Set(ctx, "b", []byte("2"))).To(Succeed())
		Expect(cache.Set(ctx, "c", []byte("3"))).To(Succeed())

		_, err := cache.Get(ctx, "a")
		Expect(err).To(MatchError(cache.ErrCacheMiss))
		_, err = cache.Get(ctx, "c")
		Expect(err).To(BeNil())
	})

	It("empties on purge", func() {
		Expect(cache.Set(ctx, "a", []byte("1"))).To(Succeed())
		cache.Purge()
		_, err := cache.Get(ctx, "a")
		Expect(err).To(MatchError(cache.ErrCacheMiss))
	})

	Describe("Key", func() {
		It("is stable", func() {
			Expect(cache.Key("metrics", "abc")).To(Equal(cache.Key("metrics", "abc")))
		})

		It("separates part boundaries", func() {
			Expect(cache.Key("ab", "c")).NotTo(Equal(cache.Key("a", "bc")))
		})
	})

	It("rejects an invalid redis url", func() {
		viper.Set("cache.redis", true)
		viper.Set("cache.redis_url", "not a url")
		Expect(cache.Setup()).NotTo(Succeed())
		viper.Set("cache.redis", false)
	})
})
