package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"techcatalog/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORM модель
type documentRow struct {
	Collection string            `gorm:"primaryKey;size:128"`
	DocID      string            `gorm:"primaryKey;size:128;column:doc_id"`
	Fields     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate() error {
	return s.db.AutoMigrate(&documentRow{})
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Fields, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get %s/%s: %v", domain.ErrStoreUnavailable, collection, id, err)
	}
	return Fields(row.Fields), nil
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, fields Fields) error {
	row := documentRow{
		Collection: collection,
		DocID:      id,
		Fields:     datatypes.JSONMap(fields),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: put %s/%s: %v", domain.ErrStoreUnavailable, collection, id, err)
	}
	return nil
}

// Update — partial merge. Читаем строку под row-level lock, мержим, пишем.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, partial Fields) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND doc_id = ?", collection, id).
			First(&row).Error
		if err != nil {
			return err
		}

		merged := Fields(row.Fields)
		if merged == nil {
			merged = Fields{}
		}
		for k, v := range partial {
			if v == DeleteField {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}

		return tx.Model(&documentRow{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("fields", datatypes.JSONMap(merged)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: update %s/%s: %v", domain.ErrStoreUnavailable, collection, id, err)
	}
	return nil
}

// Delete идемпотентен: удаление несуществующего документа — не ошибка.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", domain.ErrStoreUnavailable, collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Scan(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("doc_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", domain.ErrStoreUnavailable, collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{ID: row.DocID, Fields: Fields(row.Fields)})
	}
	return docs, nil
}
