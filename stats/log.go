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
	"github.com/rs/zerolog"
)

func (o *Episode) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Start", o.Start).Time("Valley", o.Valley).Time("End", o.End).Int("Days", o.Days).Float64("MaxDrawdown", o.MaxDrawdown).Float64("MaxDrawdown99", o.MaxDrawdown99).Bool("Recovered", o.Recovered)
}

func (o *Greeks) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Alpha", o.Alpha).Float64("Beta", o.Beta)
}

func (o *Comparison) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Date", o.Date).Float64("Returns", o.Returns).Float64("Benchmark", o.Benchmark).Float64("Multiplier", o.Multiplier).Bool("Won", o.Won)
}
