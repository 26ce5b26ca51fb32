package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"atcoder_bingo/internal/common"
	"atcoder_bingo/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type BoardRepository interface {
	// ReplaceForDate persists a full board inside one transaction so a
	// concurrent reader sees all of the date's rows or none of them. With
	// clear set, rows already present for the date are removed first.
	ReplaceForDate(ctx context.Context, date time.Time, entries []model.BoardEntry, clear bool) error

	NewestChosenDate(ctx context.Context) (*time.Time, error)
	CountByDate(ctx context.Context, date time.Time) (int, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.BoardEntry, error)
	FindByDateAndProblemID(ctx context.Context, date time.Time, problemID string) (*model.BoardEntry, error)
}

type pgBoardRepository struct {
	db *sql.DB
}

func NewPgBoardRepository(db *sql.DB) BoardRepository {
	return &pgBoardRepository{db: db}
}

func (r *pgBoardRepository) ReplaceForDate(ctx context.Context, date time.Time, entries []model.BoardEntry, clear bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgBoardRepository.ReplaceForDate begin: %w", err)
	}
	defer tx.Rollback()

	if clear {
		if _, err := tx.ExecContext(ctx, `DELETE FROM board_problems WHERE chosen_date = $1`, date); err != nil {
			return fmt.Errorf("pgBoardRepository.ReplaceForDate delete: %w", err)
		}
	}

	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgBoardRepository.ReplaceForDate commit: %w", err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, entries []model.BoardEntry) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO board_problems (chosen_date, position, problem_id, contest_id, title, difficulty)
	          VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("pgBoardRepository.ReplaceForDate prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx, e.ChosenDate, e.Position, e.ProblemID, e.ContestID, e.Title, e.Difficulty)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (chosen_date, position) unique
				return fmt.Errorf("board position already taken for date: %w", common.ErrConflict)
			}
			return fmt.Errorf("pgBoardRepository.ReplaceForDate exec for position %d: %w", e.Position, err)
		}
	}
	return nil
}

func (r *pgBoardRepository) NewestChosenDate(ctx context.Context) (*time.Time, error) {
	query := `SELECT max(chosen_date) FROM board_problems`
	var newest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query).Scan(&newest); err != nil {
		return nil, fmt.Errorf("pgBoardRepository.NewestChosenDate: %w", err)
	}
	if !newest.Valid {
		return nil, nil
	}
	return &newest.Time, nil
}

func (r *pgBoardRepository) CountByDate(ctx context.Context, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM board_problems WHERE chosen_date = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgBoardRepository.CountByDate: %w", err)
	}
	return count, nil
}

func (r *pgBoardRepository) ListByDate(ctx context.Context, date time.Time) ([]model.BoardEntry, error) {
	query := `SELECT id, chosen_date, position, problem_id, contest_id, title, difficulty
	          FROM board_problems WHERE chosen_date = $1 ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("pgBoardRepository.ListByDate query: %w", err)
	}
	defer rows.Close()

	entries := []model.BoardEntry{}
	for rows.Next() {
		var e model.BoardEntry
		if err := rows.Scan(&e.ID, &e.ChosenDate, &e.Position, &e.ProblemID, &e.ContestID, &e.Title, &e.Difficulty); err != nil {
			return nil, fmt.Errorf("pgBoardRepository.ListByDate scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgBoardRepository.ListByDate rows.Err: %w", err)
	}
	return entries, nil
}

func (r *pgBoardRepository) FindByDateAndProblemID(ctx context.Context, date time.Time, problemID string) (*model.BoardEntry, error) {
	query := `SELECT id, chosen_date, position, problem_id, contest_id, title, difficulty
	          FROM board_problems WHERE chosen_date = $1 AND problem_id = $2`
	entry := &model.BoardEntry{}
	err := r.db.QueryRowContext(ctx, query, date, problemID).Scan(
		&entry.ID, &entry.ChosenDate, &entry.Position, &entry.ProblemID, &entry.ContestID, &entry.Title, &entry.Difficulty,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgBoardRepository.FindByDateAndProblemID: %w", err)
	}
	return entry, nil
}
