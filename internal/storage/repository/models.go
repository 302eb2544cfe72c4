package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

// CreateModel сохраняет новую модель и возвращает её идентификатор.
// Теги хранятся в колонке JSONB.
func (s *Storage) CreateModel(ctx context.Context, m models.Model) (string, error) {
	const op = "storage.CreateModel"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tags, err := json.Marshal(m.Tags)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	query := `INSERT INTO models (name, file_ref, thumbnail_ref, tags, creator)
			  VALUES ($1, $2, $3, $4::jsonb, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		m.Name, m.FileRef, m.ThumbnailRef, tags, m.Creator).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetModel возвращает модель по её идентификатору.
func (s *Storage) GetModel(ctx context.Context, id string) (*models.Model, error) {
	const op = "storage.GetModel"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, file_ref, thumbnail_ref, tags, creator, created_at
			  FROM models
			  WHERE id = $1`
	m := &models.Model{}
	var thumbnail sql.NullString
	var tags []byte
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&m.ID, &m.Name, &m.FileRef, &thumbnail, &tags, &m.Creator, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if thumbnail.Valid {
		m.ThumbnailRef = thumbnail.String
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &m.Tags); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return m, nil
}

// UpdateModel обновляет изменяемые поля модели и возвращает количество
// затронутых записей. Nil-поля остаются без изменений.
func (s *Storage) UpdateModel(ctx context.Context, id string, upd models.ModelUpdate) (int64, error) {
	const op = "storage.UpdateModel"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var tags []byte
	if upd.Tags != nil {
		var err error
		tags, err = json.Marshal(upd.Tags)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	query := `UPDATE models
			  SET name = COALESCE($1, name),
			      file_ref = COALESCE($2, file_ref),
			      thumbnail_ref = COALESCE($3, thumbnail_ref),
			      tags = COALESCE($4::jsonb, tags)
			  WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query, upd.Name, upd.FileRef, upd.ThumbnailRef, tags, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// RemoveModel удаляет модель по идентификатору и возвращает количество
// удалённых записей. Права и комментарии не затрагиваются: их жизненный
// цикл независим от модели.
func (s *Storage) RemoveModel(ctx context.Context, id string) (int64, error) {
	const op = "storage.RemoveModel"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListModelsByUser возвращает модели, доступные пользователю хотя бы
// на чтение, с пагинацией.
func (s *Storage) ListModelsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Model, error) {
	const op = "storage.ListModelsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.id, m.name, m.file_ref, m.thumbnail_ref, m.tags, m.creator, m.created_at
			  FROM models m
			  WHERE m.creator = $1
			     OR EXISTS (SELECT 1 FROM rights r
			                WHERE r.model_id = m.id AND r.username = $1)
			  ORDER BY m.created_at DESC
			  LIMIT $2 OFFSET $3`
	return s.queryModels(ctx, op, query, username, limit, offset)
}

// ListModels возвращает все модели с пагинацией.
func (s *Storage) ListModels(ctx context.Context, limit, offset int) ([]*models.Model, error) {
	const op = "storage.ListModels"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, file_ref, thumbnail_ref, tags, creator, created_at
			  FROM models
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	return s.queryModels(ctx, op, query, limit, offset)
}

func (s *Storage) queryModels(ctx context.Context, op, query string, args ...any) ([]*models.Model, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Model
	for rows.Next() {
		var m models.Model
		var thumbnail sql.NullString
		var tags []byte
		if err := rows.Scan(&m.ID, &m.Name, &m.FileRef, &thumbnail, &tags, &m.Creator, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if thumbnail.Valid {
			m.ThumbnailRef = thumbnail.String
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &m.Tags); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
