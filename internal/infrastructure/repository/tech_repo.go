package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"techcatalog/internal/domain"
)

const TechCollection = "techs"

// Имена полей документа в коллекции techs
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldDifficulty  = "difficulty"
	FieldTags        = "tags"
	FieldAka         = "aka"
	FieldVideoURL    = "videoUrl"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// TechRepo — типизированная обёртка над DocumentStore для техов.
type TechRepo struct {
	store DocumentStore
}

func NewTechRepo(store DocumentStore) *TechRepo {
	return &TechRepo{store: store}
}

func (r *TechRepo) Store() DocumentStore {
	return r.store
}

func (r *TechRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.store.Get(ctx, TechCollection, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *TechRepo) GetByID(ctx context.Context, id string) (*domain.Tech, error) {
	fields, err := r.store.Get(ctx, TechCollection, id)
	if err != nil {
		return nil, err
	}
	tech := fieldsToTech(id, fields)
	return &tech, nil
}

func (r *TechRepo) List(ctx context.Context) ([]domain.Tech, error) {
	docs, err := r.store.Scan(ctx, TechCollection)
	if err != nil {
		return nil, err
	}
	techs := make([]domain.Tech, 0, len(docs))
	for _, doc := range docs {
		techs = append(techs, fieldsToTech(doc.ID, doc.Fields))
	}
	return techs, nil
}

func (r *TechRepo) Create(ctx context.Context, tech domain.Tech) error {
	return r.store.Put(ctx, TechCollection, tech.ID, techToFields(tech))
}

// ApplyPatch — частичное обновление; значения DeleteField удаляют поле.
func (r *TechRepo) ApplyPatch(ctx context.Context, id string, patch Fields) error {
	return r.store.Update(ctx, TechCollection, id, patch)
}

func (r *TechRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, TechCollection, id)
}

// Опциональные поля пишем только непустыми: отсутствующее поле
// и пустой контейнер для каталога не одно и то же.
func techToFields(tech domain.Tech) Fields {
	fields := Fields{
		FieldName:        tech.Name,
		FieldDescription: tech.Description,
		FieldDifficulty:  tech.Difficulty,
		FieldCreatedAt:   tech.CreatedAt.UTC().Format(time.RFC3339),
	}
	if len(tech.Tags) > 0 {
		fields[FieldTags] = toAnySlice(tech.Tags)
	}
	if len(tech.Aka) > 0 {
		fields[FieldAka] = toAnySlice(tech.Aka)
	}
	if tech.VideoURL != "" {
		fields[FieldVideoURL] = tech.VideoURL
	}
	if !tech.UpdatedAt.IsZero() {
		fields[FieldUpdatedAt] = tech.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return fields
}

func fieldsToTech(id string, fields Fields) domain.Tech {
	tech := domain.Tech{
		ID:          id,
		Name:        asString(fields[FieldName]),
		Description: asString(fields[FieldDescription]),
		Difficulty:  asDifficulty(fields[FieldDifficulty]),
		Tags:        asStringSlice(fields[FieldTags]),
		Aka:         asStringSlice(fields[FieldAka]),
		VideoURL:    asString(fields[FieldVideoURL]),
		CreatedAt:   asTime(fields[FieldCreatedAt]),
		UpdatedAt:   asTime(fields[FieldUpdatedAt]),
	}
	return tech
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// Старые документы могли хранить difficulty числом — приводим к строке.
func asDifficulty(v any) string {
	switch vv := v.(type) {
	case string:
		if vv == "" {
			return domain.DifficultyUnrated
		}
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case int:
		return strconv.Itoa(vv)
	default:
		return domain.DifficultyUnrated
	}
}

func asStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		if len(vv) == 0 {
			return nil
		}
		return append([]string(nil), vv...)
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func asTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
