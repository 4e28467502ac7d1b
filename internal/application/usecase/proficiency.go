package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"techcatalog/internal/domain"
	"techcatalog/internal/infrastructure/repository"
)

// ProficiencyService — машина состояний (user, tech):
// Untouched -> Attempted -> Rated. Единственный способ вернуться
// в Untouched — полное удаление записи.
type ProficiencyService struct {
	statsRepo *repository.StatsRepo
	techRepo  *repository.TechRepo
}

func NewProficiencyService(statsRepo *repository.StatsRepo, techRepo *repository.TechRepo) *ProficiencyService {
	return &ProficiencyService{statsRepo: statsRepo, techRepo: techRepo}
}

func (s *ProficiencyService) Get(ctx context.Context, userID, techID string) (*domain.UserProficiency, error) {
	return s.statsRepo.Get(ctx, userID, techID)
}

// MarkAttempted: Untouched -> Attempted. Для Attempted и Rated — no-op.
func (s *ProficiencyService) MarkAttempted(ctx context.Context, userID, techID string) error {
	existing, err := s.statsRepo.Get(ctx, userID, techID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil && existing.State() != domain.StateUntouched {
		return nil
	}
	return s.statsRepo.Merge(ctx, userID, techID, repository.Fields{
		repository.FieldAttempted:   true,
		repository.FieldLastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// SetLevel ставит оценку 1..5. Из Untouched attempted проставляется
// неявно — отдельного шага "сначала отметь попытку" нет.
func (s *ProficiencyService) SetLevel(ctx context.Context, userID, techID string, level int) error {
	if !domain.ValidLevel(level) {
		return fmt.Errorf("%w: level must be %d..%d", domain.ErrValidation, domain.LevelMin, domain.LevelMax)
	}
	return s.statsRepo.Merge(ctx, userID, techID, repository.Fields{
		repository.FieldAttempted:   true,
		repository.FieldLevel:       level,
		repository.FieldLastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// ClearLevel: Rated -> Attempted (поле оценки удаляется из документа).
// Для Attempted и Untouched — no-op.
func (s *ProficiencyService) ClearLevel(ctx context.Context, userID, techID string) error {
	existing, err := s.statsRepo.Get(ctx, userID, techID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.State() != domain.StateRated {
		return nil
	}
	return s.statsRepo.Merge(ctx, userID, techID, repository.Fields{
		repository.FieldLevel:       repository.DeleteField,
		repository.FieldLastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// Remove: любое состояние -> Untouched, запись удаляется целиком.
// Снятие флага attempted эквивалентно Remove: состояния
// "оценка без попытки" не существует.
func (s *ProficiencyService) Remove(ctx context.Context, userID, techID string) error {
	return s.statsRepo.Delete(ctx, userID, techID)
}

// Apply обрабатывает один запрос {attempted, level?} с транспорта.
func (s *ProficiencyService) Apply(ctx context.Context, userID, techID string, input domain.ProficiencyInput) error {
	if !input.Attempted {
		if input.Level != nil {
			return fmt.Errorf("%w: level without attempted", domain.ErrInvalidState)
		}
		return s.Remove(ctx, userID, techID)
	}
	if input.Level != nil {
		return s.SetLevel(ctx, userID, techID, *input.Level)
	}
	return s.MarkAttempted(ctx, userID, techID)
}

// Stats — все записи прогресса пользователя, techID -> запись.
func (s *ProficiencyService) Stats(ctx context.Context, userID string) (map[string]domain.UserProficiency, error) {
	return s.statsRepo.ListByUser(ctx, userID)
}

// Overview агрегирует прогресс пользователя по каталогу.
func (s *ProficiencyService) Overview(ctx context.Context, userID string) (*domain.Overview, error) {
	stats, err := s.statsRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	techs, err := s.techRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	overview := &domain.Overview{
		TotalTechs:   len(techs),
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	var sum int
	for _, stat := range stats {
		if !stat.Attempted {
			continue
		}
		overview.AttemptedCount++
		if stat.Level != nil {
			overview.RatedCount++
			overview.Distribution[*stat.Level]++
			sum += *stat.Level
		}
	}
	if overview.RatedCount > 0 {
		avg := float64(sum) / float64(overview.RatedCount)
		overview.AverageLevel = math.Round(avg*10) / 10
	}
	return overview, nil
}
