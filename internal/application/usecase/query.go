package usecase

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"techcatalog/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator нельзя шарить между горутинами: CompareString мутирует
// его внутренние итераторы. Создаём свой на каждую сортировку.
func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// ApplyQuery — чистая функция: фильтры search -> difficulty -> tags,
// затем сортировка. Вход не мутируется. Неизвестный sort игнорируется,
// без sort сохраняется порядок хранилища.
func ApplyQuery(techs []domain.Tech, spec domain.QuerySpec) []domain.Tech {
	result := make([]domain.Tech, 0, len(techs))
	result = append(result, techs...)

	if spec.Search != "" {
		needle := strings.ToLower(spec.Search)
		result = filterTechs(result, func(t domain.Tech) bool {
			return matchesSearch(t, needle)
		})
	}

	if spec.Difficulty != "" {
		result = filterTechs(result, func(t domain.Tech) bool {
			return t.Difficulty == spec.Difficulty
		})
	}

	if len(spec.Tags) > 0 {
		result = filterTechs(result, func(t domain.Tech) bool {
			return hasAllTags(t.Tags, spec.Tags)
		})
	}

	sortTechs(result, spec.Sort)
	return result
}

func filterTechs(techs []domain.Tech, keep func(domain.Tech) bool) []domain.Tech {
	out := techs[:0]
	for _, t := range techs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func matchesSearch(t domain.Tech, needle string) bool {
	if strings.Contains(strings.ToLower(t.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	for _, aka := range t.Aka {
		if strings.Contains(strings.ToLower(aka), needle) {
			return true
		}
	}
	return false
}

// Конъюнкция: тех должен содержать каждый запрошенный тег.
func hasAllTags(techTags, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, t := range techTags {
			if t == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortTechs(techs []domain.Tech, order string) {
	switch order {
	case domain.SortNameAsc:
		cl := newNameCollator()
		sort.SliceStable(techs, func(i, j int) bool {
			return cl.CompareString(techs[i].Name, techs[j].Name) < 0
		})
	case domain.SortNameDesc:
		cl := newNameCollator()
		sort.SliceStable(techs, func(i, j int) bool {
			return cl.CompareString(techs[j].Name, techs[i].Name) < 0
		})
	case domain.SortDiffAsc:
		sort.SliceStable(techs, func(i, j int) bool {
			return difficultyValue(techs[i].Difficulty) < difficultyValue(techs[j].Difficulty)
		})
	case domain.SortDiffDesc:
		sort.SliceStable(techs, func(i, j int) bool {
			return difficultyValue(techs[j].Difficulty) < difficultyValue(techs[i].Difficulty)
		})
	}
}

// "?" и прочие нечисловые значения сортируются ниже любого числа.
func difficultyValue(difficulty string) float64 {
	v, err := strconv.ParseFloat(difficulty, 64)
	if err != nil {
		return math.Inf(-1)
	}
	return v
}
