package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

// CreateComment сохраняет комментарий и возвращает его идентификатор.
// ParentID может быть пустым для комментария верхнего уровня.
func (s *Storage) CreateComment(ctx context.Context, c models.Comment) (string, error) {
	const op = "storage.CreateComment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var parent sql.NullString
	if c.ParentID != "" {
		parent = sql.NullString{String: c.ParentID, Valid: true}
	}

	var newID string
	query := `INSERT INTO comments (model_id, parent_id, author, text)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		c.ModelID, parent, c.Author, c.Text).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetComment возвращает комментарий по идентификатору или ErrNotFound.
func (s *Storage) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage.GetComment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, model_id, parent_id, author, text, created_at
			  FROM comments
			  WHERE id = $1`
	c := &models.Comment{}
	var parent sql.NullString
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.ModelID, &parent, &c.Author, &c.Text, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if parent.Valid {
		c.ParentID = parent.String
	}
	return c, nil
}

// ListCommentsByModel возвращает комментарии модели в порядке создания.
func (s *Storage) ListCommentsByModel(ctx context.Context, modelID string, limit, offset int) ([]*models.Comment, error) {
	const op = "storage.ListCommentsByModel"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, model_id, parent_id, author, text, created_at
			  FROM comments
			  WHERE model_id = $1
			  ORDER BY created_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, modelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Comment
	for rows.Next() {
		var c models.Comment
		var parent sql.NullString
		if err := rows.Scan(&c.ID, &c.ModelID, &parent, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if parent.Valid {
			c.ParentID = parent.String
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveComment удаляет комментарий и возвращает количество удалённых записей.
func (s *Storage) RemoveComment(ctx context.Context, id string) (int64, error) {
	const op = "storage.RemoveComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
