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
	"io"
	"strings"

	"github.com/penny-vault/pvstats/dataframe"
	"github.com/penny-vault/pvstats/stats"
)

// MonthlyTable is the year by month table of returns expressed in percent
func MonthlyTable(r *dataframe.Series, eoy, compounded bool) *dataframe.DataFrame[string] {
	df := stats.MonthlyReturns(r, eoy, compounded)
	for _, col := range df.Vals {
		for idx := range col {
			col[idx] *= 100
		}
	}
	return df
}

// RenderTable writes a string indexed table of percentages to w
func RenderTable(w io.Writer, df *dataframe.DataFrame[string], format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		rows := make([][]string, 0, df.Len())
		for rowIdx, label := range df.Index {
			row := []string{label}
			for _, col := range df.Vals {
				row = append(row, ratioCell(col[rowIdx]).Text)
			}
			rows = append(rows, row)
		}
		renderTable(w, append([]string{""}, df.ColNames...), rows)
		return nil
	case FormatJSON:
		out := make(map[string]map[string]Cell, df.Len())
		for rowIdx, label := range df.Index {
			out[label] = make(map[string]Cell, len(df.ColNames))
			for colIdx, name := range df.ColNames {
				out[label][name] = ratioCell(df.Vals[colIdx][rowIdx])
			}
		}
		return renderJSON(w, out)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
