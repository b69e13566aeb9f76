// Package review computes the fixed-checkpoint review schedule for grok
// cohorts and tracks which words are revealed during a review session.
package review

import (
	"math"
	"sort"
	"time"

	"github.com/kalambet/grokwords/internal/vocab"
)

// Checkpoints are the review offsets, in days since the cohort date.
var Checkpoints = []int{0, 1, 3, 7, 15, 30}

// IsCheckpoint reports whether day is one of Checkpoints.
func IsCheckpoint(day int) bool {
	for _, c := range Checkpoints {
		if c == day {
			return true
		}
	}
	return false
}

// Checkpoint is the state of one checkpoint within a cohort.
type Checkpoint struct {
	Day          int  `json:"day"`
	Due          bool `json:"due"`
	Completed    int  `json:"completed"`
	AllCompleted bool `json:"all_completed"`
	Selectable   bool `json:"selectable"`
	Active       bool `json:"active"`
}

// Cohort groups the grokked words sharing a grok date.
type Cohort struct {
	Date        string       `json:"date"`
	Size        int          `json:"size"`
	DaysSince   *int         `json:"days_since"`
	Reward      float64      `json:"reward"`
	Checkpoints []Checkpoint `json:"checkpoints"`
	Words       []vocab.Word `json:"words"`
}

// Checkpoint returns the state for day.
func (c Cohort) Checkpoint(day int) (Checkpoint, bool) {
	for _, cp := range c.Checkpoints {
		if cp.Day == day {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// DaysSince returns the whole days elapsed between the UTC midnight of a
// YYYY/MM/DD key and now, rounded down. ok is false when the key does not parse.
func DaysSince(date string, now time.Time) (int, bool) {
	start, ok := vocab.ParseDateKey(date)
	if !ok {
		return 0, false
	}
	const day = 24 * time.Hour
	d := now.Sub(start)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days, true
}

// Schedule builds one row per grok cohort, newest first. Only words with a
// definition and a grok stamp join a cohort. sel marks the active checkpoint.
func Schedule(words []vocab.Word, reviews []vocab.Review, now time.Time, sel Selection) []Cohort {
	byDate := make(map[string][]vocab.Word)
	for _, w := range words {
		if !w.Grokked() || w.GrokkedAt == "" {
			continue
		}
		date := w.CohortDate()
		if date == "" {
			continue
		}
		byDate[date] = append(byDate[date], w)
	}

	type key struct {
		date string
		day  int
	}
	completed := make(map[key]int)
	rewards := make(map[string]float64)
	for _, r := range reviews {
		completed[key{r.Date, r.Day}]++
		if !math.IsNaN(r.Reward) && !math.IsInf(r.Reward, 0) {
			rewards[r.Date] += r.Reward
		}
	}

	cohorts := make([]Cohort, 0, len(byDate))
	for date, members := range byDate {
		c := Cohort{
			Date:   date,
			Size:   len(members),
			Reward: rewards[date],
			Words:  members,
		}
		days, ok := DaysSince(date, now)
		if ok {
			c.DaysSince = &days
		}
		for _, day := range Checkpoints {
			cp := Checkpoint{
				Day:       day,
				Due:       ok && days == day,
				Completed: completed[key{date, day}],
			}
			cp.AllCompleted = cp.Completed == c.Size
			cp.Selectable = cp.Due || cp.AllCompleted
			cp.Active = sel.Matches(date, day)
			c.Checkpoints = append(c.Checkpoints, cp)
		}
		cohorts = append(cohorts, c)
	}

	sort.Slice(cohorts, func(i, j int) bool {
		return cohorts[i].Date > cohorts[j].Date
	})
	return cohorts
}

// Find returns the cohort for date.
func Find(cohorts []Cohort, date string) (Cohort, bool) {
	for _, c := range cohorts {
		if c.Date == date {
			return c, true
		}
	}
	return Cohort{}, false
}
