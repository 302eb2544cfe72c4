package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

// UpsertRight сохраняет право доступа пары (модель, пользователь).
// На пару существует не более одной записи: повторная выдача права
// перезаписывает уровень доступа, последняя выдача выигрывает.
func (s *Storage) UpsertRight(ctx context.Context, right models.Right) error {
	const op = "storage.UpsertRight"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO rights (model_id, username, right_level)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (model_id, username)
			  DO UPDATE SET right_level = EXCLUDED.right_level, granted_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, right.ModelID, right.Username, right.RightLevel); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetRight возвращает право пары (модель, пользователь) или ErrNotFound.
func (s *Storage) GetRight(ctx context.Context, modelID, username string) (*models.Right, error) {
	const op = "storage.GetRight"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT model_id, username, right_level, granted_at
			  FROM rights
			  WHERE model_id = $1 AND username = $2`
	r := &models.Right{}
	row := s.DB.QueryRowContext(ctx, query, modelID, username)
	if err := row.Scan(&r.ModelID, &r.Username, &r.RightLevel, &r.GrantedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// RemoveRight отзывает право пары (модель, пользователь) и возвращает
// количество удалённых записей.
func (s *Storage) RemoveRight(ctx context.Context, modelID, username string) (int64, error) {
	const op = "storage.RemoveRight"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM rights WHERE model_id = $1 AND username = $2`, modelID, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListRightsByModel возвращает все права, выданные на модель.
func (s *Storage) ListRightsByModel(ctx context.Context, modelID string) ([]*models.Right, error) {
	const op = "storage.ListRightsByModel"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT model_id, username, right_level, granted_at
			  FROM rights
			  WHERE model_id = $1
			  ORDER BY granted_at`
	rows, err := s.DB.QueryContext(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Right
	for rows.Next() {
		var r models.Right
		if err := rows.Scan(&r.ModelID, &r.Username, &r.RightLevel, &r.GrantedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
