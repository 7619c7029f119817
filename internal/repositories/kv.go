package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumewise/resume-analyzer/internal/models"
)

// KVRepository is a per-owner string key-value store.
type KVRepository interface {
	Get(ctx context.Context, owner, key string) (string, bool, error)
	Set(ctx context.Context, owner, key, value string) error
	// List returns entries whose key matches the glob pattern ('*' and '?').
	// Values are only populated when resolveValues is true.
	List(ctx context.Context, owner, pattern string, resolveValues bool) ([]models.KVItem, error)
}

type kvRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) KVRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, owner, key string) (string, bool, error) {
	var entry models.KVEntry
	err := r.db.WithContext(ctx).
		Where("owner = ? AND key = ?", owner, key).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, owner, key, value string) error {
	now := time.Now()
	entry := models.KVEntry{
		Owner:     owner,
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner"}, {Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      value,
				"updated_at": now,
			}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (r *kvRepository) List(ctx context.Context, owner, pattern string, resolveValues bool) ([]models.KVItem, error) {
	var entries []models.KVEntry
	query := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC")
	if pattern != "" && pattern != "*" {
		query = query.Where(`key LIKE ? ESCAPE '\'`, GlobToLike(pattern))
	}
	if !resolveValues {
		query = query.Select("owner", "key", "created_at")
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	items := make([]models.KVItem, 0, len(entries))
	for _, e := range entries {
		item := models.KVItem{Key: e.Key}
		if resolveValues {
			item.Value = e.Value
		}
		items = append(items, item)
	}
	return items, nil
}

// GlobToLike translates a '*'/'?' glob into a SQL LIKE pattern escaped with '\'.
func GlobToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '\\', '%', '_':
			b.WriteRune('\\')
			b.WriteRune(r)
		case '*':
			b.WriteRune('%')
		case '?':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
