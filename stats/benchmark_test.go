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

var _ = Describe("Benchmark", func() {
	var (
		r    *dataframe.Series
		b    *dataframe.Series
		jan1 time.Time
	)

	BeforeEach(func() {
		jan1 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		b = daily(jan1, 0.01, -0.02, 0.015, 0.005, -0.01)
		r = daily(jan1, 0.021, -0.039, 0.031, 0.011, -0.019)
	})

	It("calculates alpha and beta", func() {
		greeks := stats.CalculateGreeks(r, b, 252)
		Expect(greeks.Beta).To(BeNumerically("~", 2, 1e-9))
		Expect(greeks.Alpha).To(BeNumerically("~", 0.252, 1e-9))
	})

	It("reports zero greeks when undefined", func() {
		flat := daily(jan1, 0, 0, 0, 0, 0)
		greeks := stats.CalculateGreeks(r, flat, 252)
		Expect(greeks.Beta).To(Equal(0.0))
	})

	It("calculates correlation and r-squared", func() {
		Expect(stats.Correlation(r, b)).To(BeNumerically("~", 1, 1e-9))
		Expect(stats.RSquared(r, b)).To(BeNumerically("~", 1, 1e-9))
	})

	It("calculates the information ratio", func() {
		Expect(stats.InformationRatio(r, b)).To(BeNumerically("~", 0.06859943405700357, 1e-9))
	})

	It("calculates the treynor ratio", func() {
		Expect(stats.TreynorRatio(r, b, 252, 0)).To(BeNumerically("~", 0.0016467031056504045, 1e-9))
		Expect(stats.TreynorRatio(r, daily(jan1, 0, 0, 0, 0, 0), 252, 0)).To(Equal(0.0))
	})

	It("calculates rolling greeks", func() {
		beta, alpha := stats.RollingGreeks(r, b, 3)
		Expect(math.IsNaN(beta.Vals[1])).To(BeTrue())
		Expect(beta.Vals[2]).To(BeNumerically("~", 2, 1e-9))
		Expect(alpha.Vals[4]).To(BeNumerically("~", 0.001, 1e-9))
	})

	It("matches dates on the first active period", func() {
		s1 := daily(jan1, 0, 0, 0.01, 0.02)
		s2 := daily(jan1, 0, 0.01, 0.02, 0.03)
		m1, m2 := stats.MatchDates(s1, s2)
		Expect(m1.Start()).To(Equal(jan1.AddDate(0, 0, 2)))
		Expect(m2.Start()).To(Equal(jan1.AddDate(0, 0, 2)))
		Expect(m2.Vals).To(Equal([]float64{0.02, 0.03}))
	})

	It("aligns a benchmark to the strategy dates", func() {
		bench := dataframe.NewSeries("SPY", []time.Time{jan1, jan1.AddDate(0, 0, 2)}, []float64{0.01, math.NaN()})
		aligned, err := stats.AlignBenchmark(bench, r.Index, 0, 252)
		Expect(err).To(BeNil())
		Expect(aligned.Vals).To(Equal([]float64{0.01, 0, 0, 0, 0}))
	})

	It("converts a benchmark price series", func() {
		bench := daily(jan1, 100, 101, 99.99)
		aligned, err := stats.AlignBenchmark(bench, bench.Index, 0, 252)
		Expect(err).To(BeNil())
		Expect(aligned.Vals[0]).To(Equal(0.0))
		Expect(aligned.Vals[1]).To(BeNumerically("~", 0.01, 1e-12))
	})

	It("compares returns by period", func() {
		cmp := stats.Compare(r, b, calendar.None, true)
		Expect(cmp).To(HaveLen(5))
		Expect(cmp[0].Returns).To(BeNumerically("~", 2.1, 1e-9))
		Expect(cmp[0].Benchmark).To(BeNumerically("~", 1.0, 1e-9))
		Expect(cmp[0].Multiplier).To(BeNumerically("~", 2.1, 1e-9))
		Expect(cmp[0].Won).To(BeTrue())
		Expect(cmp[1].Won).To(BeFalse())

		yearly := stats.Compare(r, b, calendar.Year, true)
		Expect(yearly).To(HaveLen(1))
		Expect(yearly[0].Date).To(Equal(time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)))
	})
})
