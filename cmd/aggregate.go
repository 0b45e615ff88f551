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


package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
	"github.com/penny-vault/pvstats/report"
	"github.com/penny-vault/pvstats/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var aggregatePeriod string

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVarP(&aggregatePeriod, "period", "p", "month", "Aggregation period: day, week, month, quarter or year")
}

type periodValue struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value"`
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <returns.csv>",
	Short: "Aggregate returns by calendar period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, err := calendar.ParseBucket(aggregatePeriod)
		if err != nil {
			return fmt.Errorf("%s: %w", aggregatePeriod, err)
		}

		r, err := loadReturns(args[0])
		if err != nil {
			return err
		}

		agg := stats.AggregateReturns(r, bucket, viper.GetBool("stats.compounded"))
		return writeSeries(cmd.OutOrStdout(), agg)
	},
}

func writeSeries(w io.Writer, s *dataframe.Series) error {
	switch strings.ToLower(outputFormat()) {
	case report.FormatJSON:
		out := make([]periodValue, s.Len())
		for idx, dt := range s.Index {
			out[idx].Date = dt
			if v := s.Vals[idx]; !math.IsNaN(v) && !math.IsInf(v, 0) {
				out[idx].Value = &v
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case report.FormatText, "":
		_, err := fmt.Fprint(w, s.Table())
		return err
	default:
		return fmt.Errorf("%w: %s", report.ErrUnknownFormat, outputFormat())
	}
}
