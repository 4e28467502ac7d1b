package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"techcatalog/internal/domain"
	"techcatalog/internal/infrastructure/cache"
	"techcatalog/internal/infrastructure/repository"
)

// ListCache — кеш выборок каталога; nil-безопасная абстракция над Redis.
type ListCache interface {
	GetList(ctx context.Context, spec domain.QuerySpec) ([]domain.Tech, bool)
	SetList(ctx context.Context, spec domain.QuerySpec, techs []domain.Tech)
	Invalidate(ctx context.Context)
}

type CatalogService struct {
	techRepo   *repository.TechRepo
	listCache  ListCache
	createLock Locker
	probeLimit int
}

func NewCatalogService(techRepo *repository.TechRepo, listCache ListCache, createLock Locker, probeLimit int) *CatalogService {
	if createLock == nil {
		createLock = NopLocker{}
	}
	if probeLimit <= 0 {
		probeLimit = DefaultIDProbeLimit
	}
	return &CatalogService{
		techRepo:   techRepo,
		listCache:  listCache,
		createLock: createLock,
		probeLimit: probeLimit,
	}
}

// List читает весь каталог и прогоняет через query engine.
// Кеш — read-through по ключу спецификации.
func (s *CatalogService) List(ctx context.Context, spec domain.QuerySpec) ([]domain.Tech, error) {
	if s.listCache != nil {
		if techs, ok := s.listCache.GetList(ctx, spec); ok {
			return techs, nil
		}
	}

	techs, err := s.techRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := ApplyQuery(techs, spec)

	if s.listCache != nil {
		s.listCache.SetList(ctx, spec, result)
	}
	return result, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Tech, error) {
	return s.techRepo.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, input domain.CreateTechInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if description == "" {
		return "", fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	baseID := GenerateID(name)
	if baseID == "" {
		return "", fmt.Errorf("%w: name has no alphanumeric characters", domain.ErrValidation)
	}

	// Создания с одним базовым id сериализуются, иначе два конкурентных
	// запроса могут увидеть базовый id свободным одновременно.
	release, err := s.createLock.Acquire(ctx, baseID)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return "", ErrCreateBusy
		}
		return "", err
	}
	defer release()

	id, err := ResolveAvailableID(ctx, s.techRepo, name, s.probeLimit)
	if err != nil {
		return "", err
	}

	tech := domain.Tech{
		ID:          id,
		Name:        name,
		Description: description,
		Difficulty:  normalizeDifficulty(string(input.Difficulty)),
		Tags:        cleanList(input.Tags, true),
		Aka:         cleanList(input.Aka, false),
		VideoURL:    strings.TrimSpace(input.VideoURL),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.techRepo.Create(ctx, tech); err != nil {
		return "", err
	}

	if s.listCache != nil {
		s.listCache.Invalidate(ctx)
	}
	return id, nil
}

// Update применяет частичное обновление. Отсутствующее поле не трогается;
// опциональное поле, присланное пустым, удаляется из документа.
// Имя может меняться, id при этом не перегенерируется.
func (s *CatalogService) Update(ctx context.Context, id string, input domain.UpdateTechInput) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	patch := repository.Fields{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		patch[repository.FieldName] = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return fmt.Errorf("%w: description cannot be empty", domain.ErrValidation)
		}
		patch[repository.FieldDescription] = description
	}
	if input.Difficulty != nil {
		patch[repository.FieldDifficulty] = normalizeDifficulty(string(*input.Difficulty))
	}
	if input.Tags != nil {
		patch[repository.FieldTags] = listOrDelete(cleanList(*input.Tags, true))
	}
	if input.Aka != nil {
		patch[repository.FieldAka] = listOrDelete(cleanList(*input.Aka, false))
	}
	if input.VideoURL != nil {
		if url := strings.TrimSpace(*input.VideoURL); url != "" {
			patch[repository.FieldVideoURL] = url
		} else {
			patch[repository.FieldVideoURL] = repository.DeleteField
		}
	}

	patch[repository.FieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)

	if err := s.techRepo.ApplyPatch(ctx, id, patch); err != nil {
		return err
	}

	if s.listCache != nil {
		s.listCache.Invalidate(ctx)
	}
	return nil
}

// Delete идемпотентен; осиротевшие записи прогресса не каскадируются.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.techRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.listCache != nil {
		s.listCache.Invalidate(ctx)
	}
	return nil
}

func normalizeDifficulty(difficulty string) string {
	d := strings.TrimSpace(difficulty)
	if d == "" {
		return domain.DifficultyUnrated
	}
	return d
}

func cleanList(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if lower {
			v = strings.ToLower(v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func listOrDelete(values []string) any {
	if len(values) == 0 {
		return repository.DeleteField
	}
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
