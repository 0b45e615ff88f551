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
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pvstats/report"
	"github.com/penny-vault/pvstats/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
)

func init() {
	rootCmd.AddCommand(distributionCmd)
}

var distributionCmd = &cobra.Command{
	Use:   "distribution <returns.csv>",
	Short: "Summarize returns per period with IQR outliers split out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadReturns(args[0])
		if err != nil {
			return err
		}

		dist := stats.Distribution(r, viper.GetBool("stats.compounded"))

		w := cmd.OutOrStdout()
		switch strings.ToLower(outputFormat()) {
		case report.FormatJSON:
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(dist)
		case report.FormatText, "":
			table := tablewriter.NewWriter(w)
			table.SetHeader([]string{"Period", "Count", "Outliers", "Min", "Max"})
			table.SetBorder(false)
			table.SetAlignment(tablewriter.ALIGN_RIGHT)
			for _, period := range dist {
				row := []string{string(period.Bucket), fmt.Sprintf("%d", len(period.Values)), fmt.Sprintf("%d", len(period.Outliers)), "-", "-"}
				all := append(append([]float64{}, period.Values...), period.Outliers...)
				if len(all) > 0 {
					row[3] = fmt.Sprintf("%.2f%%", floats.Min(all)*100)
					row[4] = fmt.Sprintf("%.2f%%", floats.Max(all)*100)
				}
				table.Append(row)
			}
			table.Render()
			return nil
		default:
			return fmt.Errorf("%w: %s", report.ErrUnknownFormat, outputFormat())
		}
	},
}
