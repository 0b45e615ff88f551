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
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pvstats/dataframe"
	"github.com/rs/zerolog/log"
)

var (
	ErrMultipleBenchmarkColumns = errors.New("benchmark must be a single series but a multi-column frame was passed")
	ErrNoData                   = errors.New("series contains no observations")
	ErrUnknownFormat            = errors.New("unknown output format")
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Cell is a single computed value and its display text
type Cell struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// MarshalJSON encodes non-finite values as null
func (c Cell) MarshalJSON() ([]byte, error) {
	out := struct {
		Value *float64 `json:"value"`
		Text  string   `json:"text"`
	}{
		Text: c.Text,
	}
	if isFinite(c.Value) {
		v := c.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// Row is one line of a report; a row with an empty label separates groups
type Row struct {
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// Report is a table of metrics with one column per series
type Report struct {
	Columns []string `json:"columns"`
	Rows    []*Row   `json:"rows"`
}

// Separator reports whether the row is a blank group separator
func (row *Row) Separator() bool {
	return row.Label == ""
}

// Get returns the row with the given label or nil
func (rep *Report) Get(label string) *Row {
	for _, row := range rep.Rows {
		if row.Label == label {
			return row
		}
	}
	return nil
}

// DataFrame converts the report into a string indexed dataframe, dropping the
// separator rows
func (rep *Report) DataFrame() *dataframe.DataFrame[string] {
	df := &dataframe.DataFrame[string]{
		Index:    make([]string, 0, len(rep.Rows)),
		ColNames: rep.Columns,
	}

	for _, row := range rep.Rows {
		if row.Separator() {
			continue
		}
		vals := make([]float64, len(rep.Columns))
		for colIdx := range vals {
			vals[colIdx] = math.NaN()
			if colIdx < len(row.Cells) {
				vals[colIdx] = row.Cells[colIdx].Value
			}
		}
		if err := df.InsertRow(row.Label, vals...); err != nil {
			log.Warn().Err(err).Str("Row", row.Label).Msg("could not add report row to dataframe")
		}
	}

	return df
}

// Render writes the report to w in the requested format (text or json)
func (rep *Report) Render(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		header := append([]string{"Metric"}, rep.Columns...)
		rows := make([][]string, 0, len(rep.Rows))
		for _, row := range rep.Rows {
			line := make([]string, 0, len(rep.Columns)+1)
			line = append(line, row.Label)
			for _, cell := range row.Cells {
				line = append(line, cell.Text)
			}
			rows = append(rows, line)
		}
		renderTable(w, header, rows)
		return nil
	case FormatJSON:
		return renderJSON(w, rep)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	table.Render()
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatting helpers; non-finite values render as "-"

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func pctCell(v float64) Cell {
	v *= 100
	if !isFinite(v) {
		return Cell{Value: v, Text: "-"}
	}
	return Cell{Value: v, Text: fmt.Sprintf("%s%%", trimZero(v))}
}

func ratioCell(v float64) Cell {
	if !isFinite(v) {
		return Cell{Value: v, Text: "-"}
	}
	return Cell{Value: v, Text: trimZero(v)}
}

func intCell(v int) Cell {
	return Cell{Value: float64(v), Text: fmt.Sprintf("%d", v)}
}

func textCell(s string) Cell {
	return Cell{Value: math.NaN(), Text: s}
}

// trimZero formats v with two decimals and replaces a negative zero with 0.00
func trimZero(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
