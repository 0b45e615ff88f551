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

	"github.com/penny-vault/pvstats/dataframe"
	"github.com/penny-vault/pvstats/stats"
)

var _ = Describe("Prepare", func() {
	var (
		start time.Time
	)

	BeforeEach(func() {
		start = time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	})

	Context("with a price series", func() {
		It("is detected as price-like", func() {
			Expect(stats.IsPriceLike(daily(start, 100, 110, 99))).To(BeTrue())
		})

		It("converts to returns and drops the placeholder observation", func() {
			r, err := stats.PrepareReturns(daily(start, 100, 110, 99), 0, 0)
			Expect(err).To(BeNil())
			Expect(r.Len()).To(Equal(2))
			Expect(r.Index[0]).To(Equal(start.AddDate(0, 0, 1)))
			Expect(r.Vals[0]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(r.Vals[1]).To(BeNumerically("~", -0.1, 1e-12))
		})

		It("keeps the return after a missing price", func() {
			r, err := stats.PrepareReturns(daily(start, 100, 110, math.NaN(), 121), 0, 0)
			Expect(err).To(BeNil())
			Expect(r.Len()).To(Equal(3))
			Expect(r.Vals[0]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(math.IsNaN(r.Vals[1])).To(BeTrue())
			Expect(r.Vals[2]).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("replaces infinite returns created by a zero price", func() {
			r, err := stats.PrepareReturns(daily(start, 0, 10, 11), 0, 0)
			Expect(err).To(BeNil())
			Expect(r.Vals[0]).To(Equal(0.0))
			Expect(r.Vals[1]).To(BeNumerically("~", 0.1, 1e-12))
		})
	})

	Context("with a return series", func() {
		It("is not price-like", func() {
			Expect(stats.IsPriceLike(scenario())).To(BeFalse())
		})

		It("leaves the returns unchanged", func() {
			r, err := stats.PrepareReturns(scenario(), 0, 0)
			Expect(err).To(BeNil())
			Expect(r.Vals).To(Equal(scenario().Vals))
		})

		It("replaces infinities with 0 and keeps NaN", func() {
			r, err := stats.PrepareReturns(daily(start, 0.01, math.Inf(1), math.NaN(), math.Inf(-1)), 0, 0)
			Expect(err).To(BeNil())
			Expect(r.Vals[1]).To(Equal(0.0))
			Expect(math.IsNaN(r.Vals[2])).To(BeTrue())
			Expect(r.Vals[3]).To(Equal(0.0))
		})

		It("does not mutate its input", func() {
			input := daily(start, 0.01, math.Inf(1))
			_, err := stats.PrepareReturns(input, 0, 0)
			Expect(err).To(BeNil())
			Expect(math.IsInf(input.Vals[1], 1)).To(BeTrue())
		})

		It("fills NaN on request", func() {
			r := stats.FillNaN(daily(start, 0.01, math.NaN()), 0)
			Expect(r.Vals).To(Equal([]float64{0.01, 0}))
		})
	})

	Context("with a risk-free rate", func() {
		It("requires periods", func() {
			_, err := stats.PrepareReturns(scenario(), 0.05, 0)
			Expect(err).To(MatchError(stats.ErrPeriodsRequired))
		})

		It("subtracts the de-annualized rate", func() {
			r, err := stats.PrepareReturns(scenario(), 0.05, 252)
			Expect(err).To(BeNil())
			Expect(r.Vals[0]).To(BeNumerically("~", 0.01-0.00019363050654397362, 1e-12))
		})

		It("is a no-op for a zero rate", func() {
			r, err := stats.ToExcessReturns(scenario(), 0, 0)
			Expect(err).To(BeNil())
			Expect(r.Vals).To(Equal(scenario().Vals))
		})
	})

	Context("with a multi-column frame", func() {
		var (
			df *dataframe.DataFrame[time.Time]
		)

		BeforeEach(func() {
			df = &dataframe.DataFrame[time.Time]{
				Index:    []time.Time{start, start.AddDate(0, 0, 1)},
				ColNames: []string{"Open", "Close"},
				Vals:     [][]float64{{1, 2}, {3, 4}},
			}
		})

		It("selects the close column with a warning", func() {
			s, err := stats.SelectSeries(df)
			Expect(err).To(MatchError(stats.ErrShapeMismatch))
			Expect(s.Name).To(Equal("Close"))
			Expect(s.Vals).To(Equal([]float64{3, 4}))
		})

		It("falls back to the first column", func() {
			df.ColNames = []string{"A", "B"}
			s, err := stats.SelectSeries(df)
			Expect(err).To(MatchError(stats.ErrShapeMismatch))
			Expect(s.Name).To(Equal("A"))
		})

		It("does not warn for a single column", func() {
			df.ColNames = df.ColNames[:1]
			df.Vals = df.Vals[:1]
			s, err := stats.SelectSeries(df)
			Expect(err).To(BeNil())
			Expect(s.Vals).To(Equal([]float64{1, 2}))
		})

		It("errors without columns", func() {
			_, err := stats.SelectSeries(&dataframe.DataFrame[time.Time]{})
			Expect(err).To(MatchError(dataframe.ErrColumnNotFound))
		})
	})

	Context("with log returns", func() {
		It("computes ln(1+r)", func() {
			r := stats.LogReturns(daily(start, 0.1, -1))
			Expect(r.Vals[0]).To(BeNumerically("~", math.Log(1.1), 1e-12))
			Expect(r.Vals[1]).To(Equal(0.0))
		})
	})

	Context("when rebasing", func() {
		It("scales the equity curve", func() {
			p := stats.RebaseEquity(daily(start, 0.1, 0.1), 100)
			Expect(p.Vals[0]).To(BeNumerically("~", 110, 1e-9))
			Expect(p.Vals[1]).To(BeNumerically("~", 121, 1e-9))
		})
	})
})
