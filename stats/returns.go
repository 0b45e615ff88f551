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

package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
)

// Split partitions a set of values into those inside the Tukey fences and the
// outliers beyond them
type Split struct {
	Values   []float64 `json:"values"`
	Outliers []float64 `json:"outliers"`
}

// PeriodDistribution is the distribution of returns aggregated to one bucket size
type PeriodDistribution struct {
	Bucket calendar.Bucket `json:"bucket"`
	Split
}

// MonthlyReturns pivots the returns into a year by month table. Each cell holds the
// aggregated return of that month (0 when the month has no data). With eoy set an
// EOY column holds the aggregated return of the whole year.
func MonthlyReturns(r *dataframe.Series, eoy, compounded bool) *dataframe.DataFrame[string] {
	monthly := AggregateReturns(r, calendar.Month, compounded)
	yearly := AggregateReturns(r, calendar.Year, compounded)

	colNames := make([]string, 0, 13)
	for m := time.January; m <= time.December; m++ {
		colNames = append(colNames, strings.ToUpper(m.String()[:3]))
	}
	df := &dataframe.DataFrame[string]{
		Index:    []string{},
		ColNames: colNames,
		Vals:     make([][]float64, len(colNames)),
	}

	rowOf := make(map[int]int)
	addYear := func(year int) int {
		if row, ok := rowOf[year]; ok {
			return row
		}
		row := len(df.Index)
		rowOf[year] = row
		df.Index = append(df.Index, fmt.Sprintf("%d", year))
		for colIdx := range df.Vals {
			df.Vals[colIdx] = append(df.Vals[colIdx], 0)
		}
		return row
	}

	for idx, dt := range monthly.Index {
		row := addYear(dt.Year())
		df.Vals[int(dt.Month())-1][row] = monthly.Vals[idx]
	}

	if eoy {
		eoyCol := make([]float64, df.Len())
		for idx, dt := range yearly.Index {
			if row, ok := rowOf[dt.Year()]; ok {
				eoyCol[row] = yearly.Vals[idx]
			}
		}
		df.Insert("EOY", eoyCol)
	}

	return df
}

// Distribution splits the returns aggregated to each calendar bucket (day, week,
// month, quarter and year) into values and IQR outliers
func Distribution(r *dataframe.Series, compounded bool) []*PeriodDistribution {
	daily := r.DropNaN()
	buckets := []calendar.Bucket{calendar.Day, calendar.Week, calendar.Month, calendar.Quarter, calendar.Year}

	res := make([]*PeriodDistribution, 0, len(buckets))
	for _, bucket := range buckets {
		var vals []float64
		if bucket == calendar.Day {
			vals = daily.Vals
		} else {
			vals = AggregateReturns(daily, bucket, compounded).Vals
		}
		res = append(res, &PeriodDistribution{
			Bucket: bucket,
			Split:  splitOutliers(vals),
		})
	}

	return res
}

func splitOutliers(vals []float64) Split {
	lower, upper := iqrFence(vals)
	split := Split{
		Values:   make([]float64, 0, len(vals)),
		Outliers: make([]float64, 0),
	}
	for _, v := range vals {
		if v >= lower && v <= upper {
			split.Values = append(split.Values, v)
		} else {
			split.Outliers = append(split.Outliers, v)
		}
	}
	return split
}

// PeriodReturn is the aggregate return of the observations on or after since
func PeriodReturn(r *dataframe.Series, since time.Time, compounded bool) float64 {
	return Total(r.Since(since), compounded)
}

// PeriodCAGR is the annualized return of the observations on or after since
func PeriodCAGR(r *dataframe.Series, since time.Time, compounded bool) float64 {
	res, _ := CAGR(r.Since(since), 0, 0, compounded)
	return res
}

// LookbackStart returns the date that lies years and months before t, clamping the
// day to the end of the target month
func LookbackStart(t time.Time, years, months int) time.Time {
	total := t.Year()*12 + int(t.Month()) - 1 - years*12 - months
	year := total / 12
	month := time.Month(total%12 + 1)
	day := t.Day()
	if last := calendar.MonthEnd(time.Date(year, month, 1, 0, 0, 0, 0, t.Location())).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
