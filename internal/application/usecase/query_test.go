package usecase

import (
	"sync"
	"testing"

	"techcatalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTechs() []domain.Tech {
	return []domain.Tech{
		{ID: "backflip", Name: "Backflip", Description: "Standing back somersault", Difficulty: "3", Tags: []string{"flip", "basics"}},
		{ID: "cork", Name: "Corkscrew", Description: "Off-axis twisting flip", Difficulty: "7", Tags: []string{"twist", "flip"}, Aka: []string{"Cork"}},
		{ID: "btwist", Name: "Butterfly Twist", Description: "Horizontal twist", Difficulty: "?", Tags: []string{"twist"}},
		{ID: "roundoff", Name: "Round-off", Description: "Cartwheel variation landing both feet", Difficulty: "1"},
	}
}

func ids(techs []domain.Tech) []string {
	out := make([]string, 0, len(techs))
	for _, t := range techs {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyQuery_NoSpecKeepsOrder(t *testing.T) {
	techs := sampleTechs()
	result := ApplyQuery(techs, domain.QuerySpec{})
	require.Equal(t, ids(techs), ids(result))
}

func TestApplyQuery_SearchAllFields(t *testing.T) {
	techs := sampleTechs()

	// имя
	result := ApplyQuery(techs, domain.QuerySpec{Search: "BACKFLIP"})
	require.Equal(t, []string{"backflip"}, ids(result))

	// описание
	result = ApplyQuery(techs, domain.QuerySpec{Search: "cartwheel"})
	require.Equal(t, []string{"roundoff"}, ids(result))

	// тег
	result = ApplyQuery(techs, domain.QuerySpec{Search: "basics"})
	require.Equal(t, []string{"backflip"}, ids(result))

	// альтернативное имя; у записей без aka оно просто не матчится
	result = ApplyQuery(techs, domain.QuerySpec{Search: "cork"})
	require.Equal(t, []string{"cork"}, ids(result))
}

func TestApplyQuery_EmptySearchIsNoFilter(t *testing.T) {
	techs := sampleTechs()
	result := ApplyQuery(techs, domain.QuerySpec{Search: ""})
	require.Len(t, result, len(techs))
}

func TestApplyQuery_DifficultyExactMatch(t *testing.T) {
	techs := sampleTechs()

	result := ApplyQuery(techs, domain.QuerySpec{Difficulty: "7"})
	require.Equal(t, []string{"cork"}, ids(result))

	// сентинел "?" матчится только сам на себя, без числовой коэрции
	result = ApplyQuery(techs, domain.QuerySpec{Difficulty: "?"})
	require.Equal(t, []string{"btwist"}, ids(result))
}

func TestApplyQuery_TagsConjunctive(t *testing.T) {
	techs := sampleTechs()

	result := ApplyQuery(techs, domain.QuerySpec{Tags: []string{"flip"}})
	require.Equal(t, []string{"backflip", "cork"}, ids(result))

	// {a} не матчит фильтр {a,b}
	result = ApplyQuery(techs, domain.QuerySpec{Tags: []string{"twist", "basics"}})
	require.Empty(t, result)

	// запись без тегов не матчит непустой фильтр
	result = ApplyQuery(techs, domain.QuerySpec{Tags: []string{"flip", "basics"}})
	require.Equal(t, []string{"backflip"}, ids(result))
}

func TestApplyQuery_EmptyTagsIsNoFilter(t *testing.T) {
	techs := sampleTechs()
	result := ApplyQuery(techs, domain.QuerySpec{Tags: []string{}})
	require.Len(t, result, len(techs))
}

func TestApplyQuery_SortByName(t *testing.T) {
	techs := sampleTechs()

	result := ApplyQuery(techs, domain.QuerySpec{Sort: domain.SortNameAsc})
	require.Equal(t, []string{"backflip", "btwist", "cork", "roundoff"}, ids(result))

	result = ApplyQuery(techs, domain.QuerySpec{Sort: domain.SortNameDesc})
	require.Equal(t, []string{"roundoff", "cork", "btwist", "backflip"}, ids(result))
}

func TestApplyQuery_SortByDifficulty(t *testing.T) {
	techs := sampleTechs()

	// "?" всегда ниже любого числа
	result := ApplyQuery(techs, domain.QuerySpec{Sort: domain.SortDiffAsc})
	require.Equal(t, []string{"btwist", "roundoff", "backflip", "cork"}, ids(result))

	result = ApplyQuery(techs, domain.QuerySpec{Sort: domain.SortDiffDesc})
	require.Equal(t, []string{"cork", "backflip", "roundoff", "btwist"}, ids(result))
}

func TestApplyQuery_DiffDescNumericBeforeSentinel(t *testing.T) {
	techs := []domain.Tech{
		{ID: "a", Difficulty: "3"},
		{ID: "b", Difficulty: "?"},
		{ID: "c", Difficulty: "1"},
	}
	result := ApplyQuery(techs, domain.QuerySpec{Sort: domain.SortDiffDesc})
	require.Equal(t, []string{"a", "c", "b"}, ids(result))
}

func TestApplyQuery_UnknownSortIgnored(t *testing.T) {
	techs := sampleTechs()
	result := ApplyQuery(techs, domain.QuerySpec{Sort: "newest"})
	require.Equal(t, ids(techs), ids(result))
}

func TestApplyQuery_DoesNotMutateInput(t *testing.T) {
	techs := sampleTechs()
	before := ids(techs)

	ApplyQuery(techs, domain.QuerySpec{Search: "twist", Sort: domain.SortNameDesc})
	require.Equal(t, before, ids(techs))
}

func TestApplyQuery_ResultIsSubset(t *testing.T) {
	techs := sampleTechs()
	spec := domain.QuerySpec{Search: "twist", Tags: []string{"twist"}, Sort: domain.SortNameAsc}

	result := ApplyQuery(techs, spec)
	known := map[string]bool{}
	for _, tech := range techs {
		known[tech.ID] = true
	}
	for _, tech := range result {
		assert.True(t, known[tech.ID], "query fabricated %q", tech.ID)
		assert.Contains(t, tech.Tags, "twist")
	}
}

// Движок запросов обязан быть реентерабельным: gin обслуживает
// хендлеры параллельно, и несколько выборок с сортировкой по имени
// могут идти одновременно. Ловится под -race.
func TestApplyQuery_ConcurrentNameSort(t *testing.T) {
	techs := sampleTechs()
	want := []string{"backflip", "btwist", "cork", "roundoff"}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				asc := ApplyQuery(techs, domain.QuerySpec{Sort: domain.SortNameAsc})
				assert.Equal(t, want, ids(asc))
				ApplyQuery(techs, domain.QuerySpec{Sort: domain.SortNameDesc})
			}
		}()
	}
	wg.Wait()
}

func TestApplyQuery_FilterThenSortComposes(t *testing.T) {
	techs := sampleTechs()

	filtered := ApplyQuery(techs, domain.QuerySpec{Tags: []string{"twist"}})
	sorted := ApplyQuery(filtered, domain.QuerySpec{Sort: domain.SortNameAsc})
	combined := ApplyQuery(techs, domain.QuerySpec{Tags: []string{"twist"}, Sort: domain.SortNameAsc})

	require.Equal(t, ids(combined), ids(sorted))
}
