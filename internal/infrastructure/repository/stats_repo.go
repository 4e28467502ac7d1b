package repository

import (
	"context"
	"errors"

	"techcatalog/internal/domain"
)

// Имена полей документа с прогрессом пользователя
const (
	FieldAttempted   = "attempted"
	FieldLevel       = "proficiencyLevel"
	FieldLastUpdated = "lastUpdated"
)

// StatsRepo хранит записи прогресса в коллекциях вида "userstats:<userID>",
// id документа = id теха.
type StatsRepo struct {
	store DocumentStore
}

func NewStatsRepo(store DocumentStore) *StatsRepo {
	return &StatsRepo{store: store}
}

func statsCollection(userID string) string {
	return "userstats:" + userID
}

func (r *StatsRepo) Get(ctx context.Context, userID, techID string) (*domain.UserProficiency, error) {
	fields, err := r.store.Get(ctx, statsCollection(userID), techID)
	if err != nil {
		return nil, err
	}
	p := fieldsToProficiency(userID, techID, fields)
	return &p, nil
}

// Merge — upsert с частичным слиянием (аналог setDoc merge:true).
func (r *StatsRepo) Merge(ctx context.Context, userID, techID string, patch Fields) error {
	err := r.store.Update(ctx, statsCollection(userID), techID, patch)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	fields := Fields{}
	for k, v := range patch {
		if v == DeleteField {
			continue
		}
		fields[k] = v
	}
	return r.store.Put(ctx, statsCollection(userID), techID, fields)
}

func (r *StatsRepo) Delete(ctx context.Context, userID, techID string) error {
	return r.store.Delete(ctx, statsCollection(userID), techID)
}

// ListByUser возвращает карту techID -> запись прогресса.
func (r *StatsRepo) ListByUser(ctx context.Context, userID string) (map[string]domain.UserProficiency, error) {
	docs, err := r.store.Scan(ctx, statsCollection(userID))
	if err != nil {
		return nil, err
	}
	stats := make(map[string]domain.UserProficiency, len(docs))
	for _, doc := range docs {
		stats[doc.ID] = fieldsToProficiency(userID, doc.ID, doc.Fields)
	}
	return stats, nil
}

func fieldsToProficiency(userID, techID string, fields Fields) domain.UserProficiency {
	p := domain.UserProficiency{
		UserID:      userID,
		TechID:      techID,
		LastUpdated: asTime(fields[FieldLastUpdated]),
	}
	if attempted, ok := fields[FieldAttempted].(bool); ok {
		p.Attempted = attempted
	}
	switch lvl := fields[FieldLevel].(type) {
	case float64:
		n := int(lvl)
		p.Level = &n
	case int:
		n := lvl
		p.Level = &n
	}
	return p
}
