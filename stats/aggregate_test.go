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

package stats_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
	"github.com/penny-vault/pvstats/stats"
)

var _ = Describe("Aggregate", func() {
	var (
		r *dataframe.Series
	)

	BeforeEach(func() {
		// 2020-12-28 (Mon) through 2021-04-06, one observation every day
		vals := make([]float64, 100)
		for idx := range vals {
			vals[idx] = 0.001 * float64(idx%7-3)
		}
		r = daily(time.Date(2020, 12, 28, 0, 0, 0, 0, time.UTC), vals...)
	})

	It("is the identity for calendar.None", func() {
		agg := stats.AggregateReturns(r, calendar.None, true)
		Expect(agg.Index).To(Equal(r.Index))
		Expect(agg.Vals).To(Equal(r.Vals))
	})

	It("labels buckets by period end", func() {
		agg := stats.AggregateReturns(r, calendar.Month, true)
		Expect(agg.Index).To(Equal([]time.Time{
			time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC),
		}))
	})

	It("aligns weeks to ISO weeks ending on Sunday", func() {
		agg := stats.AggregateReturns(r, calendar.Week, false)
		Expect(agg.Index[0]).To(Equal(time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC)))
		Expect(agg.Index[1]).To(Equal(time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC)))
		// each full week contains one of every value -3..3
		Expect(agg.Vals[0]).To(BeNumerically("~", 0, 1e-12))
	})

	It("compounds within a bucket", func() {
		agg := stats.AggregateReturns(r, calendar.Year, true)
		Expect(agg.Len()).To(Equal(2))
		Expect(agg.Vals[0]).To(BeNumerically("~", stats.Compound(r.Trim(r.Start(), time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC))), 1e-12))
	})

	It("sums within a bucket when not compounding", func() {
		agg := stats.AggregateReturns(r, calendar.Year, false)
		Expect(agg.Vals[0]).To(BeNumerically("~", -0.006, 1e-12))
	})

	It("matches the whole-series compounded return when re-compounded by year", func() {
		agg := stats.AggregateReturns(r, calendar.Year, true)
		Expect(stats.Compound(agg)).To(BeNumerically("~", stats.Compound(r), 1e-12))
	})

	It("omits buckets without observations", func() {
		s := dataframe.NewSeries("gaps", []time.Time{
			time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 2, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 4, 15, 0, 0, 0, 0, time.UTC),
		}, []float64{0.01, math.NaN(), 0.02})
		agg := stats.AggregateReturns(s, calendar.Month, true)
		Expect(agg.Index).To(Equal([]time.Time{
			time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC),
		}))
		Expect(agg.Vals).To(Equal([]float64{0.01, 0.02}))
	})

	It("returns an empty series for empty input", func() {
		agg := stats.AggregateReturns(daily(time.Now()), calendar.Quarter, true)
		Expect(agg.Len()).To(Equal(0))
	})

	It("resamples with an arbitrary reducer", func() {
		count := stats.Resample(r, calendar.Quarter, func(x []float64) float64 { return float64(len(x)) })
		Expect(count.Vals).To(Equal([]float64{4, 90, 6}))
	})
})

var _ = Describe("Equity", func() {
	It("builds the scenario equity curve", func() {
		eq := stats.ToEquityCurve(scenario())
		expected := []float64{1.01, 0.9898, 1.0195, 0.9685, 0.9782}
		for idx, v := range expected {
			Expect(eq.Vals[idx]).To(BeNumerically("~", v, 5e-5))
		}
	})

	It("round-trips through percent change", func() {
		r := scenario()
		eq := stats.ToEquityCurve(r)
		back := eq.PctChange()
		Expect(eq.Vals[0] - 1).To(BeNumerically("~", r.Vals[0], 1e-12))
		for idx := 1; idx < r.Len(); idx++ {
			Expect(back.Vals[idx]).To(BeNumerically("~", r.Vals[idx], 1e-12))
		}
	})

	It("satisfies the compounding identity", func() {
		r := scenario()
		eq := stats.ToEquityCurve(r)
		Expect(stats.Compound(r)).To(BeNumerically("~", eq.Last()-1, 1e-15))
		Expect(stats.CompSum(r).Last()).To(BeNumerically("~", stats.Compound(r), 1e-15))
	})

	It("propagates a total loss", func() {
		eq := stats.ToEquityCurve(daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0.1, -1.0, 0.5))
		Expect(eq.Vals[1]).To(Equal(0.0))
		Expect(eq.Vals[2]).To(Equal(0.0))
	})

	It("does not clamp losses beyond -100%", func() {
		eq := stats.ToEquityCurve(daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), -1.5))
		Expect(eq.Vals[0]).To(BeNumerically("~", -0.5, 1e-12))
	})

	It("treats unobserved periods as flat", func() {
		eq := stats.ToEquityCurve(daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0.1, math.NaN(), 0.1))
		Expect(eq.Vals[1]).To(BeNumerically("~", 1.1, 1e-12))
		Expect(eq.Vals[2]).To(BeNumerically("~", 1.21, 1e-12))
	})

	It("sums or compounds on request", func() {
		Expect(stats.Total(scenario(), false)).To(BeNumerically("~", -0.02, 1e-12))
		Expect(stats.Total(scenario(), true)).To(BeNumerically("~", -0.021795507, 1e-9))
	})
})
