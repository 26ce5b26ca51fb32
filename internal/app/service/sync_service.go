package service

import (
	"context"
	"errors"
	"log"
	"time"

	"atcoder_bingo/internal/common"
	"atcoder_bingo/internal/domain/model"
	"atcoder_bingo/internal/domain/repository"
	"atcoder_bingo/pkg/metrics"
)

// SubmissionSource abstracts one page fetch of the submissions feed.
// Implementations return submissions at or after begin, time-ascending,
// capped at the feed's page size.
type SubmissionSource interface {
	FetchSubmissionsFrom(ctx context.Context, begin time.Time) ([]model.Submission, error)
}

type SyncService struct {
	boardRepo  repository.BoardRepository
	statusRepo repository.StatusRepository
	source     SubmissionSource
	pageSize   int
}

func NewSyncService(
	boardRepo repository.BoardRepository,
	statusRepo repository.StatusRepository,
	source SubmissionSource,
	pageSize int,
) *SyncService {
	return &SyncService{
		boardRepo:  boardRepo,
		statusRepo: statusRepo,
		source:     source,
		pageSize:   pageSize,
	}
}

// SyncRecent pulls every submission of the last window and folds it into
// the status store. It returns the number of status rows created or
// flipped to accepted.
//
// The feed pages by time, not offset: a page of exactly pageSize entries
// means more data may exist at or after its newest timestamp, so the next
// fetch restarts there. The resulting overlap is harmless because
// applySubmission is idempotent.
func (s *SyncService) SyncRecent(ctx context.Context, window time.Duration) (int, error) {
	now := time.Now()
	begin := now.Add(-window)

	changed := 0
	for {
		page, err := s.source.FetchSubmissionsFrom(ctx, begin)
		if err != nil {
			return changed, common.Errorf("failed to fetch submissions from %s: %w", begin.Format(time.RFC3339), err)
		}

		for _, submission := range page {
			metrics.SubmissionsProcessed.Inc()
			applied, err := s.applySubmission(ctx, submission)
			if err != nil {
				// One broken row must not starve the rest of the batch.
				log.Printf("ERROR: Failed to update status for submission %d: %v", submission.ID, err)
				continue
			}
			if applied {
				changed++
				metrics.StatusesChanged.Inc()
			}
		}

		if len(page) < s.pageSize {
			break
		}

		next := begin
		for _, submission := range page {
			if submission.SubmissionTime.After(next) {
				next = submission.SubmissionTime
			}
		}
		begin = next
	}

	return changed, nil
}

// applySubmission resolves one submission against the board of its own
// calendar date and applies the monotonic acceptance transition. It
// reports whether a row was written. Re-processing the same submission is
// a no-op.
func (s *SyncService) applySubmission(ctx context.Context, submission model.Submission) (bool, error) {
	entry, err := s.boardRepo.FindByDateAndProblemID(ctx, model.DateOf(submission.SubmissionTime), submission.ProblemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Problem was not on that day's board.
			return false, nil
		}
		return false, err
	}

	current, err := s.statusRepo.Find(ctx, submission.UserID, entry.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			status := &model.UserStatus{
				UserID:     submission.UserID,
				BoardRowID: entry.ID,
				Accepted:   submission.Accepted,
			}
			if err := s.statusRepo.Insert(ctx, status); err != nil {
				return false, err
			}
			return true, nil
		}
		return false, err
	}

	// Accepted never reverts; only false -> true is applied.
	if !current.Accepted && submission.Accepted {
		status := &model.UserStatus{
			UserID:     submission.UserID,
			BoardRowID: entry.ID,
			Accepted:   true,
		}
		if err := s.statusRepo.UpdateAccepted(ctx, status); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
