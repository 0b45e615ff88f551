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

package calendar

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownBucket = errors.New("unknown calendar bucket")
)

// Bucket defines a calendar period used to group a time series
type Bucket string

const (
	None    Bucket = ""
	Day     Bucket = "Day"
	Week    Bucket = "Week"
	Month   Bucket = "Month"
	Quarter Bucket = "Quarter"
	Year    Bucket = "Year"
)

// ParseBucket converts a user supplied period name into a Bucket. Both the long
// form ("month") and the short pandas-like aliases ("M", "eom") are accepted.
func ParseBucket(name string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "d", "day", "daily":
		return Day, nil
	case "w", "week", "weekly", "eow":
		return Week, nil
	case "m", "month", "monthly", "eom":
		return Month, nil
	case "q", "quarter", "quarterly", "eoq":
		return Quarter, nil
	case "a", "y", "year", "yearly", "annually", "eoy", "yoy":
		return Year, nil
	default:
		return None, ErrUnknownBucket
	}
}

// Identity returns true if grouping by the bucket leaves a daily series unchanged
func (b Bucket) Identity() bool {
	return b == None || b == Day
}

// Key identifies the bucket that t falls into. Two times share a key if and only
// if they belong to the same calendar period. Weeks follow ISO-8601 (weeks start
// on Monday and the first week of the year contains January 4th).
func (b Bucket) Key(t time.Time) int {
	switch b {
	case Week:
		y, w := t.ISOWeek()
		return y*100 + w
	case Month:
		return t.Year()*100 + int(t.Month())
	case Quarter:
		return t.Year()*10 + QuarterOf(t)
	case Year:
		return t.Year()
	default:
		y, m, d := t.Date()
		return y*10000 + int(m)*100 + d
	}
}

// PeriodEnd returns the last calendar day of the bucket containing t at midnight
// in t's location
func (b Bucket) PeriodEnd(t time.Time) time.Time {
	switch b {
	case Week:
		return WeekEnd(t)
	case Month:
		return MonthEnd(t)
	case Quarter:
		return QuarterEnd(t)
	case Year:
		return YearEnd(t)
	default:
		return StartOfDay(t)
	}
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of the ISO week containing t
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday that closes the ISO week containing t
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// MonthEnd returns the last calendar day of the month containing t
func MonthEnd(t time.Time) time.Time {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return firstOfMonth.AddDate(0, 1, -1)
}

// QuarterOf returns the calendar quarter (1-4) of t
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// QuarterEnd returns the last calendar day of the quarter containing t
func QuarterEnd(t time.Time) time.Time {
	lastMonth := time.Month(QuarterOf(t) * 3)
	return MonthEnd(time.Date(t.Year(), lastMonth, 1, 0, 0, 0, 0, t.Location()))
}

// YearEnd returns December 31st of the year containing t
func YearEnd(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, t.Location())
}

// MonthStart returns the first day of the month containing t
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// YearStart returns January 1st of the year containing t
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// NextMonth returns the first day of the next month
func NextMonth(t time.Time) time.Time {
	y := t.Year()
	m := t.Month()
	if m == time.December {
		y++
		m = time.January
	} else {
		m++
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ToYears converts a duration into fractional years
func ToYears(d time.Duration) float64 {
	return d.Hours() / (24 * 365.0)
}
