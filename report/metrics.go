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

package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
	"github.com/penny-vault/pvstats/stats"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Mode selects how many metrics are included in a report
type Mode string

const (
	Basic Mode = "basic"
	Full  Mode = "full"
)

// ParseMode converts a user supplied mode name; anything other than "full" is basic
func ParseMode(name string) Mode {
	if strings.EqualFold(strings.TrimSpace(name), string(Full)) {
		return Full
	}
	return Basic
}

// Options controls the calculation of a metrics report
type Options struct {
	RiskFree       float64
	PeriodsPerYear int
	Mode           Mode
	Compounded     bool
	MatchDates     bool
	BenchmarkName  string
}

// DefaultOptions returns options for a basic, compounded report of daily returns
func DefaultOptions() Options {
	return Options{
		PeriodsPerYear: 252,
		Mode:           Basic,
		Compounded:     true,
	}
}

// BenchmarkFromFrame extracts the benchmark series from a frame, which must have
// exactly one column
func BenchmarkFromFrame(df *dataframe.DataFrame[time.Time]) (*dataframe.Series, error) {
	if df.ColCount() != 1 {
		return nil, ErrMultipleBenchmarkColumns
	}
	return dataframe.ColumnSeries(df, 0), nil
}

// column accumulates the cells of one report column in row order
type column struct {
	labels []string
	cells  []Cell
}

func (col *column) add(label string, cell Cell) {
	col.labels = append(col.labels, label)
	col.cells = append(col.cells, cell)
}

func (col *column) blank() {
	col.add("", textCell(""))
}

// columnInput holds everything needed to compute a single column
type columnInput struct {
	returns   *dataframe.Series
	benchmark *dataframe.Series // set for the strategy column when a benchmark is present
	hasBench  bool
	opts      Options
}

// Metrics computes the performance report of strategy, optionally compared with a
// benchmark. Both inputs may be returns or prices. Strategy and benchmark columns
// are evaluated concurrently.
func Metrics(strategy, benchmark *dataframe.Series, opts Options) (*Report, error) {
	if opts.PeriodsPerYear <= 0 {
		opts.PeriodsPerYear = 252
	}

	returns, err := stats.PrepareReturns(strategy, 0, 0)
	if err != nil {
		return nil, err
	}

	if returns.Len() == 0 {
		return nil, ErrNoData
	}

	var bench *dataframe.Series
	if benchmark != nil {
		bench, err = stats.AlignBenchmark(benchmark, returns.Index, 0, 0)
		if err != nil {
			return nil, err
		}
		if opts.MatchDates {
			returns, bench = stats.MatchDates(returns, bench)
		}
		bench = bench.FillNaN(0)
	}
	returns = returns.FillNaN(0)

	inputs := []*columnInput{
		{returns: returns, benchmark: bench, hasBench: bench != nil, opts: opts},
	}
	columns := []string{"Strategy"}
	if bench != nil {
		inputs = append(inputs, &columnInput{returns: bench, hasBench: true, opts: opts})
		name := "Benchmark"
		if opts.BenchmarkName != "" {
			name = fmt.Sprintf("Benchmark (%s)", strings.ToUpper(opts.BenchmarkName))
		}
		columns = append(columns, name)
	}

	results := make([]*column, len(inputs))
	var g errgroup.Group
	for idx, input := range inputs {
		idx := idx
		input := input
		g.Go(func() error {
			col, err := computeColumn(input)
			if err != nil {
				return err
			}
			results[idx] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("could not compute metrics")
		return nil, err
	}

	rep := &Report{
		Columns: columns,
		Rows:    make([]*Row, 0, len(results[0].labels)),
	}
	for rowIdx, label := range results[0].labels {
		row := &Row{Label: label}
		for _, col := range results {
			row.Cells = append(row.Cells, col.cells[rowIdx])
		}
		rep.Rows = append(rep.Rows, row)
	}

	return rep, nil
}

// computeColumn calculates every metric of one series. The sequence of rows only
// depends on the options and on whether a benchmark is present so all columns of
// a report line up.
func computeColumn(in *columnInput) (*column, error) {
	r := in.returns
	opts := in.opts
	rf := opts.RiskFree
	periods := opts.PeriodsPerYear
	full := opts.Mode == Full
	col := &column{}

	// pair returns the cell for a metric that compares strategy and benchmark;
	// the benchmark column shows "-"
	pair := func(fn func() Cell) Cell {
		if in.benchmark == nil {
			return textCell("-")
		}
		return fn()
	}

	col.add("Start Period", textCell(r.Start().Format("2006-01-02")))
	col.add("End Period", textCell(r.End().Format("2006-01-02")))
	col.add("Risk-Free Rate %", pctCell(rf))
	col.add("Time in Market %", pctCell(stats.Exposure(r)))
	col.blank()

	if opts.Compounded {
		col.add("Cumulative Return %", pctCell(stats.Compound(r)))
	} else {
		col.add("Total Return %", pctCell(stats.Sum(r)))
	}

	cagr, err := stats.CAGR(r, rf, periods, opts.Compounded)
	if err != nil {
		return nil, err
	}
	col.add("CAGR %", pctCell(cagr))
	col.blank()

	sharpe, err := stats.Sharpe(r, rf, periods, true)
	if err != nil {
		return nil, err
	}
	col.add("Sharpe", ratioCell(sharpe))

	psr, err := stats.ProbabilisticSharpe(r, rf, periods, false, false)
	if err != nil {
		return nil, err
	}
	col.add("Prob. Sharpe Ratio %", pctCell(psr))

	if full {
		smartSharpe, err := stats.SmartSharpe(r, rf, periods, true)
		if err != nil {
			return nil, err
		}
		col.add("Smart Sharpe", ratioCell(smartSharpe))
	}

	sortino, err := stats.Sortino(r, rf, periods, true)
	if err != nil {
		return nil, err
	}
	col.add("Sortino", ratioCell(sortino))

	var smartSortino float64
	if full {
		smartSortino, err = stats.SmartSortino(r, rf, periods, true)
		if err != nil {
			return nil, err
		}
		col.add("Smart Sortino", ratioCell(smartSortino))
	}

	col.add("Sortino/√2", ratioCell(sortino/math.Sqrt2))
	if full {
		col.add("Smart Sortino/√2", ratioCell(smartSortino/math.Sqrt2))
	}

	omega, err := stats.Omega(r, rf, 0, periods)
	if err != nil {
		return nil, err
	}
	col.add("Omega", ratioCell(omega))
	col.blank()

	dd := Drawdowns(r)
	col.add("Max Drawdown %", pctCell(dd.MaxDrawdown))
	col.add("Longest DD Days", intCell(dd.LongestDays))

	if full {
		col.add("Volatility (ann.) %", pctCell(stats.Volatility(r, periods, true)))
		if in.hasBench {
			col.add("R^2", pair(func() Cell { return ratioCell(stats.RSquared(r, in.benchmark)) }))
			col.add("Information Ratio", pair(func() Cell { return ratioCell(stats.InformationRatio(r, in.benchmark)) }))
		}
		col.add("Calmar", ratioCell(stats.Calmar(r)))
		col.add("Skew", ratioCell(stats.Skew(r)))
		col.add("Kurtosis", ratioCell(stats.Kurtosis(r)))
		col.blank()

		col.add("Expected Daily %", pctCell(stats.ExpectedReturn(r, calendar.None, opts.Compounded)))
		col.add("Expected Monthly %", pctCell(stats.ExpectedReturn(r, calendar.Month, opts.Compounded)))
		col.add("Expected Yearly %", pctCell(stats.ExpectedReturn(r, calendar.Year, opts.Compounded)))
		col.add("Kelly Criterion %", pctCell(stats.KellyCriterion(r)))
		col.add("Risk of Ruin %", pctCell(stats.RiskOfRuin(r)))
		col.add("Daily Value-at-Risk %", pctCell(-math.Abs(stats.ValueAtRisk(r, 1, 0.95))))
		col.add("Expected Shortfall (cVaR) %", pctCell(-math.Abs(stats.CVaR(r, 1, 0.95))))
	}
	col.blank()

	if full {
		col.add("Max Consecutive Wins", intCell(stats.ConsecutiveWins(r, calendar.None, opts.Compounded)))
		col.add("Max Consecutive Losses", intCell(stats.ConsecutiveLosses(r, calendar.None, opts.Compounded)))
	}

	gainToPain, err := stats.GainToPain(r, rf, periods, calendar.Day)
	if err != nil {
		return nil, err
	}
	col.add("Gain/Pain Ratio", ratioCell(gainToPain))

	gainToPainMonth, err := stats.GainToPain(r, rf, periods, calendar.Month)
	if err != nil {
		return nil, err
	}
	col.add("Gain/Pain (1M)", ratioCell(gainToPainMonth))
	col.blank()

	col.add("Payoff Ratio", ratioCell(stats.PayoffRatio(r)))
	col.add("Profit Factor", ratioCell(stats.ProfitFactor(r)))
	col.add("Common Sense Ratio", ratioCell(stats.CommonSenseRatio(r)))
	col.add("CPC Index", ratioCell(stats.CPCIndex(r)))
	col.add("Tail Ratio", ratioCell(stats.TailRatio(r, 0.95)))
	col.add("Outlier Win Ratio", ratioCell(stats.OutlierWinRatio(r, 0.99)))
	col.add("Outlier Loss Ratio", ratioCell(stats.OutlierLossRatio(r, 0.01)))
	col.blank()

	today := r.End()
	col.add("MTD %", pctCell(stats.PeriodReturn(r, calendar.MonthStart(today), opts.Compounded)))
	col.add("1M %", pctCell(stats.PeriodReturn(r, stats.LookbackStart(today, 0, 1), opts.Compounded)))
	col.add("3M %", pctCell(stats.PeriodReturn(r, stats.LookbackStart(today, 0, 3), opts.Compounded)))
	col.add("6M %", pctCell(stats.PeriodReturn(r, stats.LookbackStart(today, 0, 6), opts.Compounded)))
	col.add("YTD %", pctCell(stats.PeriodReturn(r, calendar.YearStart(today), opts.Compounded)))
	col.add("1Y %", pctCell(stats.PeriodReturn(r, stats.LookbackStart(today, 1, 0), opts.Compounded)))
	col.add("3Y (ann.) %", pctCell(stats.PeriodCAGR(r, stats.LookbackStart(today, 0, 35), opts.Compounded)))
	col.add("5Y (ann.) %", pctCell(stats.PeriodCAGR(r, stats.LookbackStart(today, 0, 59), opts.Compounded)))
	col.add("10Y (ann.) %", pctCell(stats.PeriodCAGR(r, stats.LookbackStart(today, 10, 0), opts.Compounded)))
	col.add("All-time (ann.) %", pctCell(stats.PeriodCAGR(r, r.Start(), opts.Compounded)))

	if full {
		col.blank()
		col.add("Best Day %", pctCell(stats.Best(r, calendar.None, opts.Compounded)))
		col.add("Worst Day %", pctCell(stats.Worst(r, calendar.None, opts.Compounded)))
		col.add("Best Month %", pctCell(stats.Best(r, calendar.Month, opts.Compounded)))
		col.add("Worst Month %", pctCell(stats.Worst(r, calendar.Month, opts.Compounded)))
		col.add("Best Year %", pctCell(stats.Best(r, calendar.Year, opts.Compounded)))
		col.add("Worst Year %", pctCell(stats.Worst(r, calendar.Year, opts.Compounded)))
	}
	col.blank()

	col.add("Avg. Drawdown %", pctCell(dd.AvgDrawdown))
	col.add("Avg. Drawdown Days", intCell(dd.AvgDays))
	col.add("Recovery Factor", ratioCell(stats.RecoveryFactor(r)))
	col.add("Ulcer Index", ratioCell(stats.UlcerIndex(r)))
	col.add("Serenity Index", ratioCell(stats.SerenityIndex(r, rf)))

	if full {
		col.blank()
		col.add("Avg. Up Month %", pctCell(stats.AvgWin(r, calendar.Month, opts.Compounded)))
		col.add("Avg. Down Month %", pctCell(stats.AvgLoss(r, calendar.Month, opts.Compounded)))
		col.add("Win Days %", pctCell(stats.WinRate(r, calendar.None, opts.Compounded)))
		col.add("Win Month %", pctCell(stats.WinRate(r, calendar.Month, opts.Compounded)))
		col.add("Win Quarter %", pctCell(stats.WinRate(r, calendar.Quarter, opts.Compounded)))
		col.add("Win Year %", pctCell(stats.WinRate(r, calendar.Year, opts.Compounded)))

		if in.hasBench {
			col.blank()
			col.add("Beta", pair(func() Cell { return ratioCell(stats.CalculateGreeks(r, in.benchmark, periods).Beta) }))
			col.add("Alpha", pair(func() Cell { return ratioCell(stats.CalculateGreeks(r, in.benchmark, periods).Alpha) }))
			col.add("Correlation %", pair(func() Cell { return pctCell(stats.Correlation(r, in.benchmark)) }))
			col.add("Treynor Ratio %", pair(func() Cell { return pctCell(stats.TreynorRatio(r, in.benchmark, periods, rf)) }))
		}
	}

	return col, nil
}
