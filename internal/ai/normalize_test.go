package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/event-planner/backend/internal/models"
)

// TestNormalizePlanStringItemsShareCategoryCost проверяет раздачу стоимости категории строковым позициям.
func TestNormalizePlanStringItemsShareCategoryCost(t *testing.T) {
	raw := `{"estimatedCost": 500, "breakdown": [{"category":"Catering","items":["Cake","Juice"],"estimatedCost":500}]}`

	plan := NormalizePlan([]byte(raw))

	require.Len(t, plan.Breakdown, 1)
	category := plan.Breakdown[0]
	assert.Equal(t, "Catering", category.Category)
	assert.Equal(t, 500.0, category.EstimatedCost)
	require.Len(t, category.Items, 2)
	assert.Equal(t, models.PlanItem{Name: "Cake", Price: 0, Source: defaultItemSource}, category.Items[0])
	assert.Equal(t, models.PlanItem{Name: "Juice", Price: 0, Source: defaultItemSource}, category.Items[1])
	assert.Equal(t, 500.0, plan.EstimatedCost)
}

// TestNormalizePlanRoundsSharedPrice проверяет округление доли до тысяч.
func TestNormalizePlanRoundsSharedPrice(t *testing.T) {
	raw := `{"breakdown": [{"category":"Deco","items":["Globos","Flores","Velas"],"estimatedCost":100000}]}`

	plan := NormalizePlan([]byte(raw))

	require.Len(t, plan.Breakdown[0].Items, 3)
	for _, item := range plan.Breakdown[0].Items {
		assert.Equal(t, 33000.0, item.Price)
	}
}

// TestNormalizePlanObjectItems проверяет значения по умолчанию для объектных позиций.
func TestNormalizePlanObjectItems(t *testing.T) {
	raw := `{"breakdown": [{"category":"  ","items":[
		{"name":"Torta","price":25000,"source":"Jumbo","notes":"Para 30 personas"},
		{"price":"cara","source":""},
		42
	]}]}`

	plan := NormalizePlan([]byte(raw))

	require.Len(t, plan.Breakdown, 1)
	category := plan.Breakdown[0]
	assert.Equal(t, defaultCategory, category.Category)
	assert.Zero(t, category.EstimatedCost)
	require.Len(t, category.Items, 3)
	assert.Equal(t, models.PlanItem{Name: "Torta", Price: 25000, Source: "Jumbo", Notes: "Para 30 personas"}, category.Items[0])
	assert.Equal(t, models.PlanItem{Name: "Item 2", Price: 0, Source: defaultItemSource}, category.Items[1])
	assert.Equal(t, models.PlanItem{Name: "Item 3", Price: 0, Source: defaultItemSource}, category.Items[2])
}

// TestNormalizePlanRecommendationArgument проверяет склейку заголовка и аргумента.
func TestNormalizePlanRecommendationArgument(t *testing.T) {
	raw := `{"recommendations": [{"title":"Use local flowers","argument":"**Cheaper** and _fresher_"}]}`

	plan := NormalizePlan([]byte(raw))

	assert.Equal(t, []string{"Use local flowers: Cheaper and fresher"}, plan.Recommendations)
}

// TestNormalizePlanRecommendationShapes проверяет все формы рекомендаций.
func TestNormalizePlanRecommendationShapes(t *testing.T) {
	raw := `{"recommendations": [
		"  Reserva   con *tiempo*  ",
		{"title":"Clima","reason":"Lleva toldo"},
		{"details":"Sin titulo"},
		{"title":"Presupuesto","items":[{"title":"Catering","detail":"40%"},{"title":"Deco"},{"text":"Ahorra"},"Compara precios"]},
		{"title":"Solo titulo"},
		7
	]}`

	plan := NormalizePlan([]byte(raw))

	assert.Equal(t, []string{
		"Reserva con tiempo",
		"Clima: Lleva toldo",
		"Recommendation 3: Sin titulo",
		"Presupuesto: Catering: 40% | Deco | Ahorra | Compara precios",
		"Solo titulo",
		"Recommendation 6",
	}, plan.Recommendations)
}

// TestNormalizePlanKeepsOnlyStringSuggestions проверяет фильтрацию подсказок.
func TestNormalizePlanKeepsOnlyStringSuggestions(t *testing.T) {
	raw := `{"suggestions": ["DJ", 3, null, {"x":1}, "Photo booth"], "estimatedCost": "mucho"}`

	plan := NormalizePlan([]byte(raw))

	assert.Equal(t, []string{"DJ", "Photo booth"}, plan.Suggestions)
	assert.Zero(t, plan.EstimatedCost)
}

// TestNormalizePlanEmpty проверяет пустой и некорректный вход.
func TestNormalizePlanEmpty(t *testing.T) {
	for _, raw := range []string{`{}`, `[]`, `"text"`, `not json`, ``, `{"breakdown": {"a": 1}, "recommendations": "x"}`} {
		plan := NormalizePlan([]byte(raw))

		assert.NotNil(t, plan.Suggestions, raw)
		assert.Empty(t, plan.Suggestions, raw)
		assert.NotNil(t, plan.Breakdown, raw)
		assert.Empty(t, plan.Breakdown, raw)
		assert.NotNil(t, plan.Recommendations, raw)
		assert.Empty(t, plan.Recommendations, raw)
		assert.Zero(t, plan.EstimatedCost, raw)
	}
}

// TestNormalizePlanClampsNegativeCosts проверяет отсечение отрицательных сумм.
func TestNormalizePlanClampsNegativeCosts(t *testing.T) {
	raw := `{"estimatedCost": -10, "breakdown": [{"category":"A","estimatedCost":-5,"items":[{"name":"x","price":-1}]}]}`

	plan := NormalizePlan([]byte(raw))

	assert.Zero(t, plan.EstimatedCost)
	assert.Zero(t, plan.Breakdown[0].EstimatedCost)
	assert.Zero(t, plan.Breakdown[0].Items[0].Price)
}

// TestNormalizePlanOutOfRangeNumbers проверяет, что числа вне диапазона float64 превращаются в 0.
func TestNormalizePlanOutOfRangeNumbers(t *testing.T) {
	raw := `{"estimatedCost": 1e999, "breakdown": [
		{"category":"Catering","items":["Cake"],"estimatedCost":1e999},
		{"category":"Deco","items":[{"name":"Globos","price":1e999}],"estimatedCost":-1e999}
	]}`

	var plan models.EventPlan
	require.NotPanics(t, func() {
		plan = NormalizePlan([]byte(raw))
	})

	assert.Zero(t, plan.EstimatedCost)
	require.Len(t, plan.Breakdown, 2)
	assert.Zero(t, plan.Breakdown[0].EstimatedCost)
	assert.Zero(t, plan.Breakdown[0].Items[0].Price)
	assert.Zero(t, plan.Breakdown[1].EstimatedCost)
	assert.Zero(t, plan.Breakdown[1].Items[0].Price)

	_, err := json.Marshal(plan)
	assert.NoError(t, err)
}

// TestNormalizePlanDuplicateKeysLastWins проверяет, что при повторе ключа берется последнее значение.
func TestNormalizePlanDuplicateKeysLastWins(t *testing.T) {
	raw := `{"estimatedCost":1,"estimatedCost":2,"breakdown":[
		{"category":"First","category":"Second","items":[{"name":"a","name":"b","price":5,"price":7}],"estimatedCost":3}
	]}`

	plan := NormalizePlan([]byte(raw))

	assert.Equal(t, 2.0, plan.EstimatedCost)
	require.Len(t, plan.Breakdown, 1)
	assert.Equal(t, "Second", plan.Breakdown[0].Category)
	assert.Equal(t, "b", plan.Breakdown[0].Items[0].Name)
	assert.Equal(t, 7.0, plan.Breakdown[0].Items[0].Price)
}

// TestStripMarkdown проверяет удаление разметки.
func TestStripMarkdown(t *testing.T) {
	cases := map[string]string{
		"**bold** text":          "bold text",
		"__bold__ and _it_":      "bold and it",
		"*a* `code`":             "a code",
		"snake_case_name stays":  "snake_case_name stays",
		"  many \n\t spaces  ":   "many spaces",
		"***nested***":           "nested",
		"":                       "",
	}

	for input, want := range cases {
		assert.Equal(t, want, StripMarkdown(input), input)
	}
}
