package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"regexp"

	"atcoder_bingo/internal/common"
	"atcoder_bingo/internal/domain/model"
	"atcoder_bingo/internal/domain/repository"
	"atcoder_bingo/internal/domain/selection"

	"github.com/gosimple/slug"
)

// ProblemSource abstracts the two full-snapshot problem feeds.
type ProblemSource interface {
	FetchDifficulties(ctx context.Context) (map[string]model.DifficultyEstimate, error)
	FetchProblemInfo(ctx context.Context) ([]model.ProblemInfo, error)
}

// LevelNames label the five buckets, easiest first.
var LevelNames = [5]string{"NOVICE", "ADVANCED", "EXPERT", "MASTER", "ULTIMATE"}

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{0,16}$`)

type BoardService struct {
	boardRepo  repository.BoardRepository
	statusRepo repository.StatusRepository
	source     ProblemSource
	rng        *rand.Rand
}

func NewBoardService(
	boardRepo repository.BoardRepository,
	statusRepo repository.StatusRepository,
	source ProblemSource,
	rng *rand.Rand,
) *BoardService {
	return &BoardService{
		boardRepo:  boardRepo,
		statusRepo: statusRepo,
		source:     source,
		rng:        rng,
	}
}

// GenerateDaily checks whether today's board exists and generates it if
// not. It reports whether a board was written. The idempotency signal is
// the row count for today, not the presence of some rows: a partial board
// left by an interrupted run is an invariant violation that gets logged
// and repaired in place.
func (s *BoardService) GenerateDaily(ctx context.Context) (bool, error) {
	today := model.Today()
	expected := selection.BoardSize()

	newest, err := s.boardRepo.NewestChosenDate(ctx)
	if err != nil {
		return false, common.Errorf("failed to read newest board date: %w", err)
	}

	partial := false
	if newest != nil && model.DateOf(*newest).Equal(today) {
		count, err := s.boardRepo.CountByDate(ctx, today)
		if err != nil {
			return false, common.Errorf("failed to count today's board rows: %w", err)
		}
		if count == expected {
			return false, nil
		}
		log.Printf("ERROR: %v: found %d rows, expected %d; regenerating", common.ErrPartialBoard, count, expected)
		partial = true
	}

	difficulties, err := s.source.FetchDifficulties(ctx)
	if err != nil {
		return false, common.Errorf("failed to fetch difficulty feed: %w", err)
	}
	infos, err := s.source.FetchProblemInfo(ctx)
	if err != nil {
		return false, common.Errorf("failed to fetch metadata feed: %w", err)
	}

	catalog := selection.BuildCatalog(difficulties, infos)
	chosen := selection.SelectBoard(catalog, selection.DefaultBuckets(), selection.QuotaPerBucket, s.rng)

	entries := make([]model.BoardEntry, len(chosen))
	for position, problem := range chosen {
		entries[position] = model.BoardEntry{
			ChosenDate: today,
			Position:   position,
			ProblemID:  problem.ProblemID,
			ContestID:  problem.ContestID,
			Title:      problem.Title,
			Difficulty: problem.Difficulty,
		}
	}

	if err := s.boardRepo.ReplaceForDate(ctx, today, entries, partial); err != nil {
		return false, common.Errorf("failed to store board: %w", err)
	}

	return true, nil
}

// BoardProblem is one board cell as presented to clients.
type BoardProblem struct {
	RowID      int                 `json:"row_id"`
	ProblemID  string              `json:"problem_id"`
	ContestID  string              `json:"contest_id"`
	Title      string              `json:"title"`
	TitleSlug  string              `json:"title_slug"`
	Difficulty int                 `json:"difficulty"`
	URL        string              `json:"url"`
	Status     model.ProblemStatus `json:"status"`
}

// BoardLevel is one difficulty section of today's board.
type BoardLevel struct {
	Level    string         `json:"level"`
	Problems []BoardProblem `json:"problems"`
}

// TodayBoard returns today's board grouped into the five levels. When
// userID is a valid handle its per-problem statuses are filled in; an
// empty or malformed handle just leaves every cell at no-status.
func (s *BoardService) TodayBoard(ctx context.Context, userID string) ([]BoardLevel, error) {
	entries, err := s.boardRepo.ListByDate(ctx, model.Today())
	if err != nil {
		return nil, common.Errorf("failed to list today's board: %w", err)
	}
	if len(entries) == 0 {
		return nil, common.Errorf("no board generated for today: %w", common.ErrNotFound)
	}

	withStatus := userID != "" && userIDPattern.MatchString(userID)

	problems := make([]BoardProblem, len(entries))
	for i, entry := range entries {
		problems[i] = BoardProblem{
			RowID:      entry.ID,
			ProblemID:  entry.ProblemID,
			ContestID:  entry.ContestID,
			Title:      entry.Title,
			TitleSlug:  slug.Make(entry.Title),
			Difficulty: entry.Difficulty,
			URL:        entry.URL(),
			Status:     model.StatusNone,
		}
		if !withStatus {
			continue
		}
		status, err := s.statusRepo.Find(ctx, userID, entry.ID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, common.Errorf("failed to look up user status: %w", err)
		}
		if status.Accepted {
			problems[i].Status = model.StatusAccepted
		} else {
			problems[i].Status = model.StatusTrying
		}
	}

	levels := make([]BoardLevel, 0, len(LevelNames))
	for i, name := range LevelNames {
		lo := i * selection.QuotaPerBucket
		hi := lo + selection.QuotaPerBucket
		if lo >= len(problems) {
			break
		}
		if hi > len(problems) {
			hi = len(problems)
		}
		levels = append(levels, BoardLevel{Level: name, Problems: problems[lo:hi]})
	}
	return levels, nil
}
