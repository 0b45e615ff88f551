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

package report_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvstats/report"
)

var _ = Describe("Drawdowns", func() {
	It("summarizes the drawdown episodes", func() {
		summary := report.Drawdowns(scenario())
		Expect(summary.Episodes).To(HaveLen(2))
		Expect(summary.MaxDrawdown).To(BeNumerically("~", -0.05, 1e-12))
		Expect(summary.LongestDays).To(Equal(1))
		Expect(summary.AvgDrawdown).To(BeNumerically("~", -0.035, 1e-12))
		Expect(summary.AvgDays).To(Equal(1))
	})

	It("has an empty summary without drawdowns", func() {
		summary := report.Drawdowns(daily(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0.01, 0.02))
		Expect(summary.Episodes).To(BeEmpty())
		Expect(summary.MaxDrawdown).To(Equal(0.0))
	})

	It("returns the deepest episodes first", func() {
		top := report.TopDrawdowns(scenario(), 1)
		Expect(top).To(HaveLen(1))
		Expect(top[0].MaxDrawdown).To(BeNumerically("~", -5, 1e-9))
		Expect(report.TopDrawdowns(scenario(), 10)).To(HaveLen(2))
	})

	It("renders the episodes", func() {
		buf := &bytes.Buffer{}
		Expect(report.RenderDrawdowns(buf, report.TopDrawdowns(scenario(), 0), report.FormatText)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("2020-01-04"))
		Expect(buf.String()).To(ContainSubstring("2020-01-05 *"))
		Expect(buf.String()).To(ContainSubstring("-5.00"))

		buf.Reset()
		Expect(report.RenderDrawdowns(buf, report.TopDrawdowns(scenario(), 0), report.FormatJSON)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"recovered": false`))
	})
})

var _ = Describe("Monthly table", func() {
	It("expresses monthly returns in percent", func() {
		r := daily(time.Date(2021, 1, 30, 0, 0, 0, 0, time.UTC), 0.01, 0.02, 0.03)
		df := report.MonthlyTable(r, true, true)
		Expect(df.Vals[df.ColIndex("JAN")][0]).To(BeNumerically("~", 3.02, 1e-9))
		Expect(df.Vals[df.ColIndex("EOY")][0]).To(BeNumerically("~", 6.1106, 1e-9))

		buf := &bytes.Buffer{}
		Expect(report.RenderTable(buf, df, report.FormatText)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("3.02"))
		Expect(buf.String()).To(ContainSubstring("2021"))

		buf.Reset()
		Expect(report.RenderTable(buf, df, report.FormatJSON)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"2021"`))
	})
})
