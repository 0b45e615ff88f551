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

package dataframe

import (
	"errors"
	"time"
)

// DataFrame stores a table of values organized by an index (typically dates).
// Vals is column major - e.g.,
// Index       SPY  TLT
// 2021-01-04  1    4
// 2021-01-05  2    5
// 2021-01-06  3    6
//
// Vals[0] = [1, 2, 3]
// Vals[1] = [4, 5, 6]
type DataFrame[T time.Time | string] struct {
	Index    []T
	ColNames []string
	Vals     [][]float64
}

// Series is a single named column of values indexed by strictly increasing dates.
// A NaN value marks a period that was not observed.
type Series struct {
	Name  string
	Index []time.Time
	Vals  []float64
}

var (
	ErrLengthMismatch = errors.New("index and value lengths do not match")
	ErrUnsortedIndex  = errors.New("index must be strictly increasing")
	ErrDuplicateIndex = errors.New("index contains duplicate dates")
	ErrColumnNotFound = errors.New("column does not exist")
)
