package model

import (
	"fmt"
	"time"
)

// CatalogProblem is a problem joined with its estimated difficulty.
// Catalog records live only for the duration of one generation cycle.
type CatalogProblem struct {
	ProblemID  string `json:"problem_id"`
	ContestID  string `json:"contest_id"`
	Title      string `json:"title"`
	Difficulty int    `json:"difficulty"`
}

// DifficultyEstimate is one entry of the difficulty feed. Both fields are
// optional in the upstream payload; entries missing either one, or flagged
// experimental, never enter the catalog.
type DifficultyEstimate struct {
	Difficulty     *int  `json:"difficulty"`
	IsExperimental *bool `json:"is_experimental"`
}

// ProblemInfo is one entry of the problem metadata feed.
type ProblemInfo struct {
	ID        string `json:"id"`
	ContestID string `json:"contest_id"`
	Title     string `json:"title"`
}

// BoardEntry is one chosen problem of a daily board.
// Position is 0-based and defines both display order and bucket membership.
type BoardEntry struct {
	ID         int       `json:"id"`
	ChosenDate time.Time `json:"chosen_date"`
	Position   int       `json:"position"`
	ProblemID  string    `json:"problem_id"`
	ContestID  string    `json:"contest_id"`
	Title      string    `json:"title"`
	Difficulty int       `json:"difficulty"`
}

func (e *BoardEntry) URL() string {
	return fmt.Sprintf("https://atcoder.jp/contests/%s/tasks/%s", e.ContestID, e.ProblemID)
}

// UserStatus is the per-user, per-board-row acceptance flag.
// Accepted only ever transitions false to true.
type UserStatus struct {
	UserID     string `json:"user_id"`
	BoardRowID int    `json:"board_row_id"`
	Accepted   bool   `json:"accepted"`
}

// Submission is one judge verdict from the submissions feed.
type Submission struct {
	ID             int64     `json:"id"`
	SubmissionTime time.Time `json:"submission_time"`
	ProblemID      string    `json:"problem_id"`
	UserID         string    `json:"user_id"`
	Accepted       bool      `json:"accepted"`
}

// ProblemStatus is the displayed state of a board problem for one user.
type ProblemStatus string

const (
	StatusNone     ProblemStatus = "no-status"
	StatusTrying   ProblemStatus = "trying"
	StatusAccepted ProblemStatus = "accepted"
)

// DateOf truncates t to its local calendar date (midnight).
func DateOf(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Today is the calendar date boards are keyed by: exact local midnight.
func Today() time.Time {
	return DateOf(time.Now())
}
