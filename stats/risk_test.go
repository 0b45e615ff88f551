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

var _ = Describe("Risk", func() {
	var (
		r *dataframe.Series
	)

	BeforeEach(func() {
		r = scenario()
	})

	DescribeTable("scalar metrics on the scenario returns",
		func(metric func(*dataframe.Series) float64, expected float64) {
			Expect(metric(r)).To(BeNumerically("~", expected, 1e-9))
		},
		Entry("value at risk", func(s *dataframe.Series) float64 { return stats.ValueAtRisk(s, 1, 0.95) }, -0.05549206332060803),
		Entry("value at risk (percent confidence)", func(s *dataframe.Series) float64 { return stats.ValueAtRisk(s, 1, 95) }, -0.05549206332060803),
		Entry("tail ratio", func(s *dataframe.Series) float64 { return stats.TailRatio(s, 0.95) }, 0.5909090909090907),
		Entry("risk of ruin", stats.RiskOfRuin, 0.0009765625),
		Entry("kelly criterion", stats.KellyCriterion, -0.24),
		Entry("outlier win ratio", func(s *dataframe.Series) float64 { return stats.OutlierWinRatio(s, 0.99) }, 1.752),
		Entry("outlier loss ratio", func(s *dataframe.Series) float64 { return stats.OutlierLossRatio(s, 0.01) }, 1.3942857142857144),
	)

	Describe("conditional value at risk", func() {
		It("falls back to the value at risk when nothing breaches it", func() {
			Expect(stats.CVaR(r, 1, 0.95)).To(Equal(stats.ValueAtRisk(r, 1, 0.95)))
		})

		It("averages the returns below the threshold", func() {
			vals := make([]float64, 100)
			for idx := range vals {
				vals[idx] = 0.001
			}
			vals[10] = -0.2
			s := daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), vals...)
			Expect(stats.ValueAtRisk(s, 1, 0.95)).To(BeNumerically(">", -0.2))
			Expect(stats.CVaR(s, 1, 0.95)).To(BeNumerically("~", -0.2, 1e-12))
		})
	})

	It("is 100% likely to ruin a strategy that never wins", func() {
		down := daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), -0.01, -0.02)
		Expect(stats.WinRate(down, calendar.None, true)).To(Equal(0.0))
		Expect(stats.RiskOfRuin(down)).To(Equal(1.0))
	})

	It("is NaN for kelly without losses", func() {
		up := daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0.01, 0.02)
		Expect(math.IsNaN(stats.KellyCriterion(up))).To(BeTrue())
	})
})
