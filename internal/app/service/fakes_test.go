package service_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"atcoder_bingo/internal/common"
	"atcoder_bingo/internal/domain/model"
)

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// fakeBoardRepo is an in-memory BoardRepository keyed by calendar date.
type fakeBoardRepo struct {
	boards map[string][]model.BoardEntry
	nextID int

	replaceCalls int
	clearCalls   int
	replaceErr   error
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: map[string][]model.BoardEntry{}, nextID: 1}
}

func (f *fakeBoardRepo) seed(date time.Time, n int, problemIDs ...string) []model.BoardEntry {
	entries := make([]model.BoardEntry, n)
	for i := range entries {
		problemID := fmt.Sprintf("seed_%d", i)
		if i < len(problemIDs) {
			problemID = problemIDs[i]
		}
		entries[i] = model.BoardEntry{
			ID:         f.nextID,
			ChosenDate: date,
			Position:   i,
			ProblemID:  problemID,
			ContestID:  "abc100",
			Title:      fmt.Sprintf("Problem %d", i),
			Difficulty: i * 100,
		}
		f.nextID++
	}
	f.boards[dateKey(date)] = entries
	return entries
}

func (f *fakeBoardRepo) ReplaceForDate(ctx context.Context, date time.Time, entries []model.BoardEntry, clear bool) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaceCalls++
	if clear {
		f.clearCalls++
		delete(f.boards, dateKey(date))
	}
	stored := make([]model.BoardEntry, len(entries))
	for i, e := range entries {
		e.ID = f.nextID
		f.nextID++
		stored[i] = e
	}
	f.boards[dateKey(date)] = stored
	return nil
}

func (f *fakeBoardRepo) NewestChosenDate(ctx context.Context) (*time.Time, error) {
	keys := make([]string, 0, len(f.boards))
	for k := range f.boards {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)
	newest, err := time.ParseInLocation("2006-01-02", keys[len(keys)-1], time.Local)
	if err != nil {
		return nil, err
	}
	return &newest, nil
}

func (f *fakeBoardRepo) CountByDate(ctx context.Context, date time.Time) (int, error) {
	return len(f.boards[dateKey(date)]), nil
}

func (f *fakeBoardRepo) ListByDate(ctx context.Context, date time.Time) ([]model.BoardEntry, error) {
	return f.boards[dateKey(date)], nil
}

func (f *fakeBoardRepo) FindByDateAndProblemID(ctx context.Context, date time.Time, problemID string) (*model.BoardEntry, error) {
	for _, e := range f.boards[dateKey(date)] {
		if e.ProblemID == problemID {
			entry := e
			return &entry, nil
		}
	}
	return nil, common.ErrNotFound
}

// fakeStatusRepo is an in-memory StatusRepository. Setting failRowID makes
// every write for that board row fail, to exercise per-submission skips.
type fakeStatusRepo struct {
	statuses map[string]model.UserStatus

	findCalls int
	inserts   int
	updates   int
	failRowID int
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: map[string]model.UserStatus{}}
}

func statusKey(userID string, rowID int) string { return fmt.Sprintf("%s|%d", userID, rowID) }

func (f *fakeStatusRepo) Find(ctx context.Context, userID string, boardRowID int) (*model.UserStatus, error) {
	f.findCalls++
	status, ok := f.statuses[statusKey(userID, boardRowID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &status, nil
}

func (f *fakeStatusRepo) Insert(ctx context.Context, status *model.UserStatus) error {
	if f.failRowID != 0 && status.BoardRowID == f.failRowID {
		return fmt.Errorf("fakeStatusRepo: store unavailable")
	}
	f.inserts++
	f.statuses[statusKey(status.UserID, status.BoardRowID)] = *status
	return nil
}

func (f *fakeStatusRepo) UpdateAccepted(ctx context.Context, status *model.UserStatus) error {
	if f.failRowID != 0 && status.BoardRowID == f.failRowID {
		return fmt.Errorf("fakeStatusRepo: store unavailable")
	}
	f.updates++
	f.statuses[statusKey(status.UserID, status.BoardRowID)] = *status
	return nil
}

// fakeProblemSource serves fixed feed snapshots.
type fakeProblemSource struct {
	difficulties map[string]model.DifficultyEstimate
	infos        []model.ProblemInfo
	err          error
}

func (f *fakeProblemSource) FetchDifficulties(ctx context.Context) (map[string]model.DifficultyEstimate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.difficulties, nil
}

func (f *fakeProblemSource) FetchProblemInfo(ctx context.Context) ([]model.ProblemInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.infos, nil
}

// fakeSubmissionSource serves pre-cut pages in order and records every
// begin timestamp it was asked for.
type fakeSubmissionSource struct {
	pages      [][]model.Submission
	errOnFetch int // 1-based fetch index that fails; 0 disables

	fetches    int
	beginTimes []time.Time
}

func (f *fakeSubmissionSource) FetchSubmissionsFrom(ctx context.Context, begin time.Time) ([]model.Submission, error) {
	f.fetches++
	f.beginTimes = append(f.beginTimes, begin)
	if f.errOnFetch != 0 && f.fetches == f.errOnFetch {
		return nil, fmt.Errorf("fakeSubmissionSource: feed unreachable")
	}
	if f.fetches > len(f.pages) {
		return nil, nil
	}
	return f.pages[f.fetches-1], nil
}

// denseFeeds builds difficulty and metadata feeds with n problems spaced
// step apart, enough to fill every bucket.
func denseFeeds(n, step int) (map[string]model.DifficultyEstimate, []model.ProblemInfo) {
	difficulties := make(map[string]model.DifficultyEstimate, n)
	infos := make([]model.ProblemInfo, 0, n)
	experimental := false
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("abc%03d_a", i)
		difficulty := i * step
		difficulties[id] = model.DifficultyEstimate{Difficulty: &difficulty, IsExperimental: &experimental}
		infos = append(infos, model.ProblemInfo{ID: id, ContestID: fmt.Sprintf("abc%03d", i), Title: fmt.Sprintf("Task %d", i)})
	}
	return difficulties, infos
}
