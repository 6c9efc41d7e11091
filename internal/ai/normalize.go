package ai

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"example.com/event-planner/backend/internal/models"
)

const (
	defaultItemSource = "Local reference"
	defaultCategory   = "General"
)

var recommendationArgumentKeys = []string{
	"argument",
	"description",
	"detail",
	"details",
	"text",
	"content",
	"reason",
	"note",
}

// NormalizePlan приводит произвольный JSON от модели к каноничному EventPlan.
// Функция тотальная: на любом входе возвращает план с инициализированными срезами.
func NormalizePlan(raw []byte) models.EventPlan {
	plan := models.EventPlan{
		Suggestions:     []string{},
		Breakdown:       []models.PlanCategory{},
		Recommendations: []string{},
	}

	if !gjson.ValidBytes(raw) {
		return plan
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return plan
	}

	for _, entry := range arrayOf(field(root, "suggestions")) {
		if entry.Type == gjson.String {
			plan.Suggestions = append(plan.Suggestions, entry.Str)
		}
	}

	plan.EstimatedCost = nonNegativeNumber(field(root, "estimatedCost"))

	for _, entry := range arrayOf(field(root, "breakdown")) {
		plan.Breakdown = append(plan.Breakdown, normalizeCategory(entry))
	}

	for i, entry := range arrayOf(field(root, "recommendations")) {
		plan.Recommendations = append(plan.Recommendations, normalizeRecommendation(entry, i))
	}

	return plan
}

func normalizeCategory(entry gjson.Result) models.PlanCategory {
	category := models.PlanCategory{
		Category:      defaultCategory,
		Items:         []models.PlanItem{},
		EstimatedCost: nonNegativeNumber(field(entry, "estimatedCost")),
	}

	if label := field(entry, "category"); label.Type == gjson.String {
		if trimmed := strings.TrimSpace(label.Str); trimmed != "" {
			category.Category = trimmed
		}
	}

	items := arrayOf(field(entry, "items"))
	perItem := sharePrice(category.EstimatedCost, len(items))

	for i, item := range items {
		category.Items = append(category.Items, normalizeItem(item, i, perItem))
	}

	return category
}

func normalizeItem(item gjson.Result, index int, sharedPrice float64) models.PlanItem {
	placeholder := fmt.Sprintf("Item %d", index+1)

	switch {
	case item.Type == gjson.String:
		return models.PlanItem{
			Name:   item.Str,
			Price:  sharedPrice,
			Source: defaultItemSource,
		}
	case item.IsObject():
		normalized := models.PlanItem{
			Name:   nonEmptyString(field(item, "name"), placeholder),
			Price:  nonNegativeNumber(field(item, "price")),
			Source: nonEmptyString(field(item, "source"), defaultItemSource),
		}
		if notes := field(item, "notes"); notes.Type == gjson.String {
			normalized.Notes = notes.Str
		}
		return normalized
	default:
		return models.PlanItem{
			Name:   placeholder,
			Source: defaultItemSource,
		}
	}
}

func normalizeRecommendation(entry gjson.Result, index int) string {
	placeholder := fmt.Sprintf("Recommendation %d", index+1)

	switch {
	case entry.Type == gjson.String:
		return StripMarkdown(entry.Str)
	case entry.IsObject():
		title := placeholder
		if raw := field(entry, "title"); raw.Type == gjson.String {
			if stripped := StripMarkdown(raw.Str); stripped != "" {
				title = stripped
			}
		}

		argument := recommendationArgument(entry)
		if argument == "" {
			return title
		}
		return title + ": " + argument
	default:
		return placeholder
	}
}

func recommendationArgument(entry gjson.Result) string {
	for _, key := range recommendationArgumentKeys {
		value := field(entry, key)
		if value.Type != gjson.String {
			continue
		}
		if stripped := StripMarkdown(value.Str); stripped != "" {
			return stripped
		}
	}

	parts := make([]string, 0)
	for _, sub := range arrayOf(field(entry, "items")) {
		if part := recommendationPart(sub); part != "" {
			parts = append(parts, part)
		}
	}

	return StripMarkdown(strings.Join(parts, " | "))
}

func recommendationPart(sub gjson.Result) string {
	if sub.Type == gjson.String {
		return StripMarkdown(sub.Str)
	}
	if !sub.IsObject() {
		return ""
	}

	title := ""
	if raw := field(sub, "title"); raw.Type == gjson.String {
		title = StripMarkdown(raw.Str)
	}

	detail := ""
	for _, key := range recommendationArgumentKeys {
		value := field(sub, key)
		if value.Type != gjson.String {
			continue
		}
		if stripped := StripMarkdown(value.Str); stripped != "" {
			detail = stripped
			break
		}
	}

	switch {
	case title != "" && detail != "":
		return title + ": " + detail
	case title != "":
		return title
	default:
		return detail
	}
}

// sharePrice делит стоимость категории на число позиций и округляет до тысяч.
func sharePrice(total float64, count int) float64 {
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0
	}
	if count < 1 {
		count = 1
	}
	share := decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(count)))
	return share.Round(-3).InexactFloat64()
}

// field возвращает последнее вхождение ключа: при повторах побеждает последнее значение.
func field(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(name, value gjson.Result) bool {
		if name.Str == key {
			found = value
		}
		return true
	})
	return found
}

func arrayOf(value gjson.Result) []gjson.Result {
	if !value.IsArray() {
		return nil
	}
	return value.Array()
}

func nonNegativeNumber(value gjson.Result) float64 {
	if value.Type != gjson.Number || value.Num < 0 || math.IsInf(value.Num, 0) || math.IsNaN(value.Num) {
		return 0
	}
	return value.Num
}

func nonEmptyString(value gjson.Result, fallback string) string {
	if value.Type == gjson.String && value.Str != "" {
		return value.Str
	}
	return fallback
}
