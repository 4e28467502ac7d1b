package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"techcatalog/internal/domain"
	"techcatalog/internal/infrastructure/repository"
)

// DefaultIDProbeLimit — максимум кандидатов (включая базовый id)
// при подборе свободного идентификатора.
const DefaultIDProbeLimit = 100

// GenerateID нормализует имя теха в URL-безопасный ключ документа:
// нижний регистр, без пробелов, только [a-z0-9]. Пустой результат
// (имя без алфавитно-цифровых символов) — ошибка на стороне вызывающего.
func GenerateID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveAvailableID возвращает базовый id, если он свободен, иначе
// перебирает base2, base3... до probeLimit кандидатов.
func ResolveAvailableID(ctx context.Context, repo *repository.TechRepo, name string, probeLimit int) (string, error) {
	baseID := GenerateID(name)
	if baseID == "" {
		return "", fmt.Errorf("%w: name has no alphanumeric characters", domain.ErrValidation)
	}
	if probeLimit <= 0 {
		probeLimit = DefaultIDProbeLimit
	}

	exists, err := repo.Exists(ctx, baseID)
	if err != nil {
		return "", err
	}
	if !exists {
		return baseID, nil
	}

	for counter := 2; counter <= probeLimit; counter++ {
		candidate := fmt.Sprintf("%s%d", baseID, counter)
		exists, err := repo.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: no free id for %q after %d candidates",
		domain.ErrGenerationExhausted, baseID, probeLimit)
}

// Locker сериализует создание техов с одним базовым id.
type Locker interface {
	Acquire(ctx context.Context, baseID string) (func(), error)
}

// NopLocker — для тестов и single-writer окружений.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

var _ Locker = NopLocker{}

// ErrCreateBusy — конкурентное создание с тем же базовым id;
// вызывающий может повторить запрос.
var ErrCreateBusy = errors.New("concurrent create in progress, retry")
