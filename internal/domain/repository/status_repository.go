package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"atcoder_bingo/internal/common"
	"atcoder_bingo/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type StatusRepository interface {
	Find(ctx context.Context, userID string, boardRowID int) (*model.UserStatus, error)
	Insert(ctx context.Context, status *model.UserStatus) error
	UpdateAccepted(ctx context.Context, status *model.UserStatus) error
}

type pgStatusRepository struct {
	db *sql.DB
}

func NewPgStatusRepository(db *sql.DB) StatusRepository {
	return &pgStatusRepository{db: db}
}

func (r *pgStatusRepository) Find(ctx context.Context, userID string, boardRowID int) (*model.UserStatus, error) {
	query := `SELECT user_id, board_row_id, accepted FROM user_statuses
	          WHERE user_id = $1 AND board_row_id = $2`
	status := &model.UserStatus{}
	err := r.db.QueryRowContext(ctx, query, userID, boardRowID).Scan(
		&status.UserID, &status.BoardRowID, &status.Accepted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgStatusRepository.Find: %w", err)
	}
	return status, nil
}

func (r *pgStatusRepository) Insert(ctx context.Context, status *model.UserStatus) error {
	query := `INSERT INTO user_statuses (user_id, board_row_id, accepted) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, status.UserID, status.BoardRowID, status.Accepted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (user_id, board_row_id) unique
			return fmt.Errorf("status already exists for user and board row: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgStatusRepository.Insert: %w", err)
	}
	return nil
}

func (r *pgStatusRepository) UpdateAccepted(ctx context.Context, status *model.UserStatus) error {
	query := `UPDATE user_statuses SET accepted = $1 WHERE user_id = $2 AND board_row_id = $3`
	_, err := r.db.ExecContext(ctx, query, status.Accepted, status.UserID, status.BoardRowID)
	if err != nil {
		return fmt.Errorf("pgStatusRepository.UpdateAccepted: %w", err)
	}
	return nil
}
