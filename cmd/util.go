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


package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/penny-vault/pvstats/cache"
	"github.com/penny-vault/pvstats/data"
	"github.com/penny-vault/pvstats/dataframe"
	"github.com/penny-vault/pvstats/report"
	"github.com/penny-vault/pvstats/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var loader *data.Loader

// getLoader returns the process wide csv loader
func getLoader() *data.Loader {
	if loader == nil {
		var err error
		loader, err = data.NewLoader(data.NewDirResolver(viper.GetString("data.benchmark_dir")), 16)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create csv loader")
		}
	}
	return loader
}

// loadSeries reads the single series held in fn. Extra columns are ignored
// with a warning.
func loadSeries(fn string) (*dataframe.Series, error) {
	df, err := getLoader().Load(fn)
	if err != nil {
		log.Error().Err(err).Str("File", fn).Msg("could not load series")
		return nil, err
	}

	s, err := stats.SelectSeries(df)
	if err != nil && !errors.Is(err, stats.ErrShapeMismatch) {
		return nil, err
	}

	return s, nil
}

// loadReturns reads fn and converts prices to returns when needed
func loadReturns(fn string) (*dataframe.Series, error) {
	s, err := loadSeries(fn)
	if err != nil {
		return nil, err
	}
	return stats.PrepareReturns(s, 0, 0)
}

// loadBenchmark resolves name to a csv; an empty name means no benchmark
func loadBenchmark(name string) (*dataframe.Series, error) {
	if name == "" {
		return nil, nil
	}

	df, err := getLoader().LoadBenchmark(name)
	if err != nil {
		return nil, err
	}

	s, err := stats.SelectSeries(df)
	if err != nil && !errors.Is(err, stats.ErrShapeMismatch) {
		return nil, err
	}
	return s, nil
}

func reportOptions() report.Options {
	opts := report.DefaultOptions()
	opts.RiskFree = viper.GetFloat64("stats.risk_free")
	opts.PeriodsPerYear = viper.GetInt("stats.periods_per_year")
	opts.Mode = report.ParseMode(viper.GetString("stats.mode"))
	opts.Compounded = viper.GetBool("stats.compounded")
	opts.MatchDates = viper.GetBool("stats.match_dates")
	return opts
}

func outputFormat() string {
	return viper.GetString("output.format")
}

// sourceDigest returns the content digest recorded when source was loaded
func sourceDigest(source string) string {
	if source == "" {
		return ""
	}
	if d, ok := getLoader().Digest(source); ok {
		return d.String()
	}
	return source
}

// cachedOutput writes the output of render to w, serving it from the report
// cache when an identical request has been rendered before. Cache failures are
// logged and otherwise ignored.
func cachedOutput(ctx context.Context, key string, w io.Writer, render func(io.Writer) error) error {
	subLog := log.With().Str("Key", key).Logger()

	if out, err := cache.Get(ctx, key); err == nil {
		subLog.Debug().Msg("report cache hit")
		_, err = w.Write(out)
		return err
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		subLog.Warn().Err(err).Msg("report cache read failed")
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if err := cache.Set(ctx, key, buf.Bytes()); err != nil {
		subLog.Warn().Err(err).Msg("report cache write failed")
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func optionsKey(opts report.Options) string {
	return fmt.Sprintf("rf=%g;periods=%d;mode=%s;compounded=%t;match=%t",
		opts.RiskFree, opts.PeriodsPerYear, opts.Mode, opts.Compounded, opts.MatchDates)
}
