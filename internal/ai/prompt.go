package ai

import (
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"example.com/event-planner/backend/internal/models"
)

const (
	defaultCurrency = "CLP"
	defaultLocation = "Chile"
)

type season string

const (
	seasonSummer season = "summer"
	seasonAutumn season = "autumn"
	seasonWinter season = "winter"
	seasonSpring season = "spring"
)

type localizedText struct {
	es string
	en string
}

func (t localizedText) in(lang string) string {
	if lang == LanguageSpanish {
		return t.es
	}
	return t.en
}

var seasonHints = map[season]localizedText{
	seasonSummer: {
		es: "Verano austral (temperaturas altas, radiación UV elevada, posibilidad de brisa costera).",
		en: "Southern summer (hot days, high UV index, potential coastal breeze).",
	},
	seasonAutumn: {
		es: "Otoño austral (tardes templadas, noches frías, inicio de lluvias suaves).",
		en: "Southern autumn (mild afternoons, cooler nights, light rain starting).",
	},
	seasonWinter: {
		es: "Invierno austral (temperaturas bajas, alta probabilidad de lluvia y viento).",
		en: "Southern winter (cool to cold temperatures, higher chance of rain and wind).",
	},
	seasonSpring: {
		es: "Primavera austral (clima templado, posibles cambios bruscos y presencia de polen).",
		en: "Southern spring (mild weather, sudden changes possible, pollen in the air).",
	},
}

type spendingMessage struct {
	label localizedText
	rule  localizedText
}

var spendingMessages = map[models.SpendingStyle]spendingMessage{
	models.SpendingStyleValue: {
		label: localizedText{
			es: "Optimiza cantidad con precios bajos, aceptando marcas económicas o genéricas.",
			en: "Maximize quantity with low prices, accepting generic or economy brands.",
		},
		rule: localizedText{
			es: "Prioriza combos, formatos familiares y proveedores mayoristas aunque sacrifiques algo de calidad.",
			en: "Favor bulk packs, wholesale vendors, and combos even if quality is basic.",
		},
	},
	models.SpendingStyleBalanced: {
		label: localizedText{
			es: "Equilibra costo y calidad, mezclando ítems accesibles con otros diferenciados.",
			en: "Balance cost and quality, mixing accessible items with a few standout touches.",
		},
		rule: localizedText{
			es: "Combina productos costo/beneficio con algunos destacados para invitados clave.",
			en: "Blend value-friendly items with select upgrades for key moments.",
		},
	},
	models.SpendingStylePremium: {
		label: localizedText{
			es: "Prefiere calidad y experiencia, aceptando menor cantidad si es necesario.",
			en: "Prioritize quality and guest experience even if quantity decreases.",
		},
		rule: localizedText{
			es: "Selecciona proveedores premium, ingredientes gourmet y cantidades controladas con presentación impecable.",
			en: "Select premium vendors, gourmet ingredients, and curated portions with top presentation.",
		},
	},
}

var (
	dateToBeConfirmed = localizedText{es: "Por definir", en: "To be confirmed"}
	climateUnknown    = localizedText{
		es: "Sin fecha precisa, brinda recomendaciones climáticas generales para eventos en Chile.",
		en: "Date TBD, provide general Chilean weather considerations for events.",
	}
	noBudgetLimit      = localizedText{es: "Sin límite específico", en: "No specific limit"}
	defaultEventName   = localizedText{es: "Evento personalizado", en: "Custom event"}
	defaultPreferences = localizedText{es: "Ninguna específica", en: "None specific"}
)

var (
	weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthsES   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

var eventDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type promptData struct {
	EventType          string
	NumberOfGuests     int
	AgeRange           string
	GenderDistribution string
	Location           string
	DateText           string
	ClimateHint        string
	Currency           string
	BudgetText         string
	Name               string
	Preferences        string
	SpendingLabel      string
	SpendingRule       string
}

const planJSONShapeES = `{
  "suggestions": ["sugerencia1", "sugerencia2"],
  "estimatedCost": 1000,
  "breakdown": [
    {
      "category": "Catering",
      "items": [
        {"name": "Item", "price": 500, "source": "Supermercado Lider", "notes": "Opcional"}
      ],
      "estimatedCost": 500
    }
  ],
  "recommendations": ["recomendación1", "recomendación2"]
}`

const planJSONShapeEN = `{
  "suggestions": ["suggestion1", "suggestion2"],
  "estimatedCost": 1000,
  "breakdown": [
    {
      "category": "Catering",
      "items": [
        {"name": "Item", "price": 500, "source": "Lider.cl", "notes": "Optional"}
      ],
      "estimatedCost": 500
    }
  ],
  "recommendations": ["recommendation1", "recommendation2"]
}`

var promptES = template.Must(template.New("es").Parse(`Eres un asistente experto en planificación de eventos. Genera un plan detallado considerando datos reales del mercado chileno y la siguiente información:

Tipo de evento: {{.EventType}}
Número de invitados: {{.NumberOfGuests}}
Rango de edad: {{.AgeRange}}
Distribución de género: {{.GenderDistribution}}
Ubicación del evento: {{.Location}}
Fecha del evento: {{.DateText}}
Contexto climático estimado: {{.ClimateHint}}
Presupuesto disponible (moneda {{.Currency}}): {{.BudgetText}}
Nombre del evento: {{.Name}}
Preferencias especiales: {{.Preferences}}
Estilo de compra: {{.SpendingLabel}}

Debes entregar:
1. Sugerencias de actividades y elementos clave
2. Costo estimado total
3. Desglose por categorías (catering, decoración, entretenimiento, etc.) con items específicos y costos individuales
4. Recomendaciones adicionales con argumentos

Condiciones adicionales:
- Expresa todos los montos en {{.Currency}}, redondeados al múltiplo de 1.000 más cercano.
- Basa los precios en proveedores reales disponibles en {{.Location}}. Si no hay un dato exacto, entrega un rango y explica la causa.
- Cada item del desglose debe incluir nombre, precio individual y fuente (supermercado, marketplace o local comercial conocido).
- Incluye una breve justificación o nota cuando corresponda (temporada, calidad, porción por persona, etc.).
- Menciona cómo cada bloque afecta el presupuesto disponible y advierte si alguna partida consume gran parte del total.
- {{.SpendingRule}}
- Describe el clima esperado para la fecha en {{.Location}} y entrega recomendaciones concretas (toldos, calefacción, hidratación, bloqueador). Sugiere verificar el pronóstico oficial 48 horas antes.

Responde en JSON con esta estructura exacta:
`))

var promptEN = template.Must(template.New("en").Parse(`You are an expert event planning assistant. Generate a detailed plan based on real market references and the following data:

Event type: {{.EventType}}
Number of guests: {{.NumberOfGuests}}
Age range: {{.AgeRange}}
Gender distribution: {{.GenderDistribution}}
Event location: {{.Location}}
Event date: {{.DateText}}
Estimated climate context: {{.ClimateHint}}
Budget (currency {{.Currency}}): {{.BudgetText}}
Event name: {{.Name}}
Preferences: {{.Preferences}}
Shopping focus: {{.SpendingLabel}}

Provide:
1. Suggestions for key activities and elements
2. Total estimated cost
3. Breakdown by categories (catering, decoration, entertainment, etc.) with concrete items and individual costs
4. Additional recommendations with rationale

Additional rules:
- Express every amount in {{.Currency}}, rounded to the nearest 1,000.
- Base prices on real providers in {{.Location}}. If only a range is available, share it and justify the variance.
- Every item in the breakdown must include: name, individual price, and a source (supermarket, marketplace listing, or local provider).
- Explain how each block impacts the available budget and highlight big-ticket items.
- {{.SpendingRule}}
- Include a brief weather outlook for {{.Location}} around that date and tie it to actionable advice (tents, heaters, hydration, sunscreen, indoor backup). Remind readers to confirm the forecast 48 hours before the event.

Respond strictly as JSON with this structure:
`))

// BuildPrompt собирает текст запроса к модели. Функция чистая и не возвращает ошибок.
func BuildPrompt(req EventPlanRequest, lang string) PlanPrompt {
	lang = ResolveLanguage(lang)

	eventDate, hasDate := parseEventDate(req.EventDate)
	dateText := dateToBeConfirmed.in(lang)
	climate := climateUnknown.in(lang)
	if hasDate {
		dateText = formatEventDate(eventDate, lang)
		climate = seasonHints[seasonFor(eventDate.Month())].in(lang)
	}

	currencyCode := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currencyCode == "" {
		currencyCode = defaultCurrency
	}

	style := resolveSpendingStyle(req.SpendingStyle)
	spending := spendingMessages[style]

	data := promptData{
		EventType:          req.EventType,
		NumberOfGuests:     req.NumberOfGuests,
		AgeRange:           req.AgeRange,
		GenderDistribution: req.GenderDistribution,
		Location:           withDefault(req.Location, defaultLocation),
		DateText:           dateText,
		ClimateHint:        climate,
		Currency:           currencyCode,
		BudgetText:         budgetPhrase(req.Budget, currencyCode, lang),
		Name:               withDefault(req.Name, defaultEventName.in(lang)),
		Preferences:        withDefault(req.Preferences, defaultPreferences.in(lang)),
		SpendingLabel:      spending.label.in(lang),
		SpendingRule:       spending.rule.in(lang),
	}

	tmpl, shape := promptEN, planJSONShapeEN
	if lang == LanguageSpanish {
		tmpl, shape = promptES, planJSONShapeES
	}

	var builder strings.Builder
	// promptData holds only strings and ints, so execution cannot fail.
	_ = tmpl.Execute(&builder, data)
	builder.WriteString(shape)

	return PlanPrompt{
		Text:     builder.String(),
		Language: lang,
		Locale:   localeTag(lang).String(),
	}
}

// ResolveLanguage приводит язык к "es" или "en"; пустое значение означает испанский.
func ResolveLanguage(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return LanguageSpanish
	}

	tag, err := language.Parse(trimmed)
	if err != nil {
		return LanguageEnglish
	}

	if base, _ := tag.Base(); base.String() == LanguageSpanish {
		return LanguageSpanish
	}

	return LanguageEnglish
}

// amountLocale задает группировку разрядов бюджета независимо от языка промпта.
var amountLocale = language.MustParse("es-CL")

func localeTag(lang string) language.Tag {
	if lang == LanguageSpanish {
		return language.MustParse("es-CL")
	}
	return language.AmericanEnglish
}

func parseEventDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range eventDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

func formatEventDate(date time.Time, lang string) string {
	if lang == LanguageSpanish {
		return fmt.Sprintf("%s, %d de %s de %d", weekdaysES[date.Weekday()], date.Day(), monthsES[date.Month()-1], date.Year())
	}

	return date.Format("Monday, January 2, 2006")
}

// seasonFor uses southern-hemisphere seasons.
func seasonFor(month time.Month) season {
	switch {
	case month >= time.March && month <= time.May:
		return seasonAutumn
	case month >= time.June && month <= time.August:
		return seasonWinter
	case month >= time.September && month <= time.November:
		return seasonSpring
	default:
		return seasonSummer
	}
}

func budgetPhrase(budget *float64, currencyCode, lang string) string {
	if budget == nil || *budget == 0 {
		return noBudgetLimit.in(lang)
	}

	printer := message.NewPrinter(amountLocale)
	amount := printer.Sprintf("%d", int64(math.Round(*budget)))

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return currencyCode + " " + amount
	}

	return printer.Sprint(currency.Symbol(unit)) + " " + amount
}

func resolveSpendingStyle(value models.SpendingStyle) models.SpendingStyle {
	if style, ok := models.ParseSpendingStyle(strings.ToLower(strings.TrimSpace(string(value)))); ok {
		return style
	}
	return models.SpendingStyleBalanced
}

func withDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
