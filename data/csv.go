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


package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/pvstats/dataframe"
	"github.com/rs/zerolog/log"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ReadCSV parses `date,value[,value...]` rows into a DataFrame. The first row
// is the header and names the value columns. Empty cells and the literal
// strings NaN, NA and null become NaN. Rows must be in strictly increasing
// date order.
func ReadCSV(r io.Reader) (*dataframe.DataFrame[time.Time], error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}

	if len(header) < 2 {
		return nil, ErrNoValueColumns
	}

	df := &dataframe.DataFrame[time.Time]{
		Index:    make([]time.Time, 0, 256),
		ColNames: make([]string, len(header)-1),
		Vals:     make([][]float64, len(header)-1),
	}

	for idx, name := range header[1:] {
		df.ColNames[idx] = strings.TrimSpace(name)
		df.Vals[idx] = make([]float64, 0, 256)
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) != len(header) {
			log.Warn().Int("Line", line).Int("Fields", len(record)).Int("Expected", len(header)).Msg("ragged csv row")
			return nil, fmt.Errorf("line %d: %w", line, ErrRaggedRow)
		}

		dt, err := parseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		vals := make([]float64, len(df.ColNames))
		for idx, raw := range record[1:] {
			vals[idx], err = parseValue(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, df.ColNames[idx], err)
			}
		}

		if err := df.InsertRow(dt, vals...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if df.Len() == 0 {
		return nil, ErrEmptyFile
	}

	return df, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, raw); err == nil {
			return dt, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", raw, ErrBadDate)
}

func parseValue(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "na", "null":
		return math.NaN(), nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, ErrBadValue)
	}
	return val, nil
}
