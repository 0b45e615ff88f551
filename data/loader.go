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


package data

import (
	"bytes"
	"encoding/hex"
	"os"
	"time"

	"github.com/alphadose/haxmap"
	lru "github.com/hashicorp/golang-lru"
	"github.com/penny-vault/pvstats/dataframe"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

// Digest is the blake3 hash of a file's raw contents
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// digestIndex maps a source (path or benchmark name) to the digest last read from it
type digestIndex interface {
	Get(source string) (Digest, bool)
	Set(source string, digest Digest)
}

// Loader reads csv files into data frames. Parsed frames are kept in an LRU
// keyed by content digest so identical inputs are only parsed once, no matter
// which path they were read from.
type Loader struct {
	resolver Resolver
	frames   *lru.Cache
	digests  digestIndex
}

func NewLoader(resolver Resolver, size int) (*Loader, error) {
	if size <= 0 {
		size = 16
	}

	frames, err := lru.New(size)
	if err != nil {
		log.Error().Err(err).Int("Size", size).Msg("could not create LRU cache")
		return nil, err
	}

	return &Loader{
		resolver: resolver,
		frames:   frames,
		digests:  haxmap.New[string, Digest](),
	}, nil
}

// Load reads the csv at fn. The returned frame is a copy and may be modified
// by the caller.
func (loader *Loader) Load(fn string) (*dataframe.DataFrame[time.Time], error) {
	raw, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	return loader.parse(fn, raw)
}

// LoadBenchmark resolves name with the loader's Resolver and loads the result
func (loader *Loader) LoadBenchmark(name string) (*dataframe.DataFrame[time.Time], error) {
	if loader.resolver == nil {
		return nil, ErrNotFound
	}

	fn, err := loader.resolver.Resolve(name)
	if err != nil {
		log.Warn().Err(err).Str("Benchmark", name).Msg("could not resolve benchmark")
		return nil, err
	}

	df, err := loader.Load(fn)
	if err != nil {
		return nil, err
	}

	if d, ok := loader.digests.Get(fn); ok {
		loader.digests.Set(name, d)
	}

	return df, nil
}

// Digest returns the content digest of the last file loaded under source,
// which is either a path or a benchmark name.
func (loader *Loader) Digest(source string) (Digest, bool) {
	return loader.digests.Get(source)
}

// Cached returns the number of distinct parsed files held by the loader
func (loader *Loader) Cached() int {
	return loader.frames.Len()
}

func (loader *Loader) parse(source string, raw []byte) (*dataframe.DataFrame[time.Time], error) {
	digest := Digest(blake3.Sum256(raw))
	loader.digests.Set(source, digest)

	subLog := log.With().Str("Source", source).Str("Digest", digest.String()).Logger()

	if cached, ok := loader.frames.Get(digest); ok {
		subLog.Debug().Msg("csv cache hit")
		return cached.(*dataframe.DataFrame[time.Time]).Copy(), nil
	}

	df, err := ReadCSV(bytes.NewReader(raw))
	if err != nil {
		subLog.Warn().Err(err).Msg("could not parse csv")
		return nil, err
	}

	subLog.Debug().Int("Rows", df.Len()).Int("Cols", df.ColCount()).Msg("parsed csv")
	loader.frames.Add(digest, df)

	return df.Copy(), nil
}
