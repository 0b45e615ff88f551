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

	"github.com/penny-vault/pvstats/stats"
)

var _ = Describe("Drawdown", func() {
	var (
		jan1 time.Time
	)

	BeforeEach(func() {
		jan1 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	})

	Describe("when computing the drawdown series", func() {
		It("is zero at highs and negative underwater", func() {
			dd := stats.ToDrawdownSeries(scenario())
			Expect(dd.Vals[0]).To(Equal(0.0))
			Expect(dd.Vals[1]).To(BeNumerically("~", -0.02, 1e-12))
			Expect(dd.Vals[2]).To(Equal(0.0))
			Expect(dd.Vals[3]).To(BeNumerically("~", -0.05, 1e-12))
			Expect(dd.Vals[4]).To(BeNumerically("~", -0.0405, 1e-12))
		})

		It("is bounded above by 0 with equality exactly at running highs", func() {
			vals := make([]float64, 250)
			for idx := range vals {
				vals[idx] = 0.02 * math.Sin(float64(idx)/3.0)
			}
			r := daily(jan1, vals...)
			dd := stats.ToDrawdownSeries(r)
			eq := stats.ToEquityCurve(r)
			peak := math.Inf(-1)
			for idx, v := range dd.Vals {
				Expect(v).To(BeNumerically("<=", 0))
				atHigh := eq.Vals[idx] >= peak
				if atHigh {
					peak = eq.Vals[idx]
				}
				Expect(v == 0).To(Equal(atHigh))
				Expect(math.Signbit(v) && v == 0).To(BeFalse())
			}
		})

		It("uses a price series directly", func() {
			dd := stats.ToDrawdownSeries(daily(jan1, 100, 120, 90, 130))
			Expect(dd.Vals[2]).To(BeNumerically("~", -0.25, 1e-12))
			Expect(dd.Vals[3]).To(Equal(0.0))
		})

		It("carries the last price across a missing observation", func() {
			dd := stats.ToDrawdownSeries(daily(jan1, 100, 90, math.NaN(), 95, 100))
			Expect(dd.Vals[1]).To(BeNumerically("~", -0.1, 1e-12))
			Expect(dd.Vals[2]).To(BeNumerically("~", -0.1, 1e-12))
			Expect(dd.Vals[3]).To(BeNumerically("~", -0.05, 1e-12))
			Expect(dd.Vals[4]).To(Equal(0.0))
		})

		It("measures a total loss on the first period against the starting base", func() {
			r := daily(jan1, -1, 0.1, 0.2)
			Expect(stats.ToDrawdownSeries(r).Vals).To(Equal([]float64{-1, -1, -1}))
			Expect(stats.MaxDrawdown(r)).To(BeNumerically("~", -1, 1e-12))
		})

		It("reports the maximum drawdown as a fraction", func() {
			Expect(stats.MaxDrawdown(scenario())).To(BeNumerically("~", -0.05, 1e-12))
		})

		It("is NaN for an empty series", func() {
			Expect(math.IsNaN(stats.MaxDrawdown(daily(jan1)))).To(BeTrue())
		})
	})

	Describe("when segmenting episodes", func() {
		It("segments the scenario into a recovered and an unrecovered episode", func() {
			episodes := stats.DrawdownDetails(stats.ToDrawdownSeries(scenario()))
			Expect(episodes).To(HaveLen(2))

			Expect(episodes[0].Start).To(Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))
			Expect(episodes[0].Valley).To(Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))
			Expect(episodes[0].End).To(Equal(time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)))
			Expect(episodes[0].Recovered).To(BeTrue())
			Expect(episodes[0].Days).To(Equal(1))
			Expect(episodes[0].MaxDrawdown).To(BeNumerically("~", -2.0, 1e-9))

			Expect(episodes[1].Start).To(Equal(time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC)))
			Expect(episodes[1].Valley).To(Equal(time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC)))
			Expect(episodes[1].End).To(Equal(time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC)))
			Expect(episodes[1].Recovered).To(BeFalse())
			Expect(episodes[1].Days).To(Equal(1))
			Expect(episodes[1].MaxDrawdown).To(BeNumerically("~", -5.0, 1e-9))
			Expect(episodes[1].MaxDrawdown99).To(BeNumerically("~", -5.0, 1e-9))
		})

		It("keeps a gap in the prices inside a single episode", func() {
			episodes := stats.DrawdownDetails(stats.ToDrawdownSeries(daily(jan1, 100, 90, math.NaN(), 95, 100)))
			Expect(episodes).To(HaveLen(1))
			Expect(episodes[0].Start).To(Equal(jan1.AddDate(0, 0, 1)))
			Expect(episodes[0].Valley).To(Equal(jan1.AddDate(0, 0, 1)))
			Expect(episodes[0].End).To(Equal(jan1.AddDate(0, 0, 4)))
			Expect(episodes[0].Recovered).To(BeTrue())
			Expect(episodes[0].MaxDrawdown).To(BeNumerically("~", -10.0, 1e-9))
		})

		It("reports an unrecovered episode after a total loss", func() {
			episodes := stats.DrawdownDetails(stats.ToDrawdownSeries(daily(jan1, -1, 0.1, 0.2)))
			Expect(episodes).To(HaveLen(1))
			Expect(episodes[0].Start).To(Equal(jan1))
			Expect(episodes[0].Recovered).To(BeFalse())
			Expect(episodes[0].MaxDrawdown).To(BeNumerically("~", -100.0, 1e-9))
		})

		It("returns no episodes for an all-positive series", func() {
			episodes := stats.DrawdownDetails(stats.ToDrawdownSeries(daily(jan1, 0.01, 0.02, 0.005, 0.03)))
			Expect(episodes).To(BeEmpty())
		})

		It("returns no episodes for an empty series", func() {
			Expect(stats.DrawdownDetails(daily(jan1))).To(BeEmpty())
		})

		It("synthesizes a start when the series begins underwater", func() {
			dd := daily(jan1, -0.02, -0.03, 0, -0.01)
			episodes := stats.DrawdownDetails(dd)
			Expect(episodes).To(HaveLen(2))
			Expect(episodes[0].Start).To(Equal(jan1))
			Expect(episodes[0].Valley).To(Equal(jan1.AddDate(0, 0, 1)))
			Expect(episodes[0].End).To(Equal(jan1.AddDate(0, 0, 2)))
			Expect(episodes[0].Days).To(Equal(2))
			Expect(episodes[1].Start).To(Equal(jan1.AddDate(0, 0, 3)))
			Expect(episodes[1].End).To(Equal(jan1.AddDate(0, 0, 3)))
			Expect(episodes[1].Days).To(Equal(0))
			Expect(episodes[1].Recovered).To(BeFalse())
		})

		It("produces a single episode when the whole series is underwater", func() {
			episodes := stats.DrawdownDetails(daily(jan1, -0.01, -0.02, -0.015))
			Expect(episodes).To(HaveLen(1))
			Expect(episodes[0].Start).To(Equal(jan1))
			Expect(episodes[0].End).To(Equal(jan1.AddDate(0, 0, 2)))
			Expect(episodes[0].Recovered).To(BeFalse())
		})

		It("trims single-day outliers from the 99% drawdown", func() {
			dd := daily(jan1, 0, -0.01, -0.012, -0.011, -0.3, -0.013, 0, 0)
			episodes := stats.DrawdownDetails(dd)
			Expect(episodes).To(HaveLen(1))
			Expect(episodes[0].Valley).To(Equal(jan1.AddDate(0, 0, 4)))
			Expect(episodes[0].Days).To(Equal(5))
			Expect(episodes[0].MaxDrawdown).To(BeNumerically("~", -30, 1e-9))
			Expect(episodes[0].MaxDrawdown99).To(BeNumerically("~", -1.3, 1e-9))
		})

		It("does not trim episodes with fewer than 4 observations", func() {
			dd := daily(jan1, 0, -0.01, -0.3, -0.01, 0)
			episodes := stats.DrawdownDetails(dd)
			Expect(episodes[0].MaxDrawdown99).To(BeNumerically("~", -30, 1e-9))
		})

		It("covers every underwater timestamp exactly once", func() {
			vals := make([]float64, 400)
			for idx := range vals {
				vals[idx] = 0.015*math.Sin(float64(idx)/5.0) + 0.0005
			}
			dd := stats.ToDrawdownSeries(daily(jan1, vals...))
			episodes := stats.DrawdownDetails(dd)
			Expect(len(episodes)).To(BeNumerically(">", 1))

			covered := make([]int, dd.Len())
			for idx, ep := range episodes {
				if idx > 0 {
					Expect(ep.Start.After(episodes[idx-1].Start)).To(BeTrue())
				}
				for ii, dt := range dd.Index {
					inside := !dt.Before(ep.Start) && dt.Before(ep.End)
					if !ep.Recovered && dt.Equal(ep.End) {
						inside = true
					}
					if inside {
						covered[ii]++
					}
				}
			}

			for ii, v := range dd.Vals {
				if v < 0 {
					Expect(covered[ii]).To(Equal(1))
				} else {
					Expect(covered[ii]).To(Equal(0))
				}
			}
		})

		It("sorts episodes", func() {
			dd := daily(jan1, -0.01, 0, -0.05, -0.04, -0.03, 0)
			episodes := stats.DrawdownDetails(dd)
			byDepth := stats.SortEpisodes(episodes, stats.ByDepth)
			Expect(byDepth[0].MaxDrawdown).To(BeNumerically("~", -5, 1e-9))
			byDays := stats.SortEpisodes(episodes, stats.ByDuration)
			Expect(byDays[0].Days).To(Equal(3))
			Expect(stats.SortEpisodes(byDepth, stats.ByStart)[0].Start).To(Equal(jan1))
		})
	})
})
