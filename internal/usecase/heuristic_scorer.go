package usecase

import (
	"strings"

	"github.com/ecosnap/backend/internal/domain"
)

// baselineScore is where every sub-score starts before adjustments
const baselineScore = 50

// Score bounds for every sub-score and the overall score
const (
	minScore = 0
	maxScore = 100
)

// adjustment is a signed delta for each sub-score
type adjustment struct {
	carbon         int
	recyclability  int
	sustainability int
	packaging      int
}

func (a adjustment) add(b adjustment) adjustment {
	return adjustment{
		carbon:         a.carbon + b.carbon,
		recyclability:  a.recyclability + b.recyclability,
		sustainability: a.sustainability + b.sustainability,
		packaging:      a.packaging + b.packaging,
	}
}

// uniform lifts all four sub-scores by the same amount
func uniform(delta int) adjustment {
	return adjustment{carbon: delta, recyclability: delta, sustainability: delta, packaging: delta}
}

// attributeField selects which text of the product a rule inspects
type attributeField int

const (
	fieldBrandOrName attributeField = iota
	fieldName
	fieldPackaging
	fieldIngredients
	fieldCategory
)

// textRule fires once when its field contains any of the keywords
type textRule struct {
	field    attributeField
	keywords []string
	adjust   adjustment
}

var textRules = []textRule{
	// Brand and name
	{fieldBrandOrName, []string{"organic", "eco", "green"}, adjustment{carbon: 15, sustainability: 20}},
	{fieldName, []string{"recycled"}, adjustment{recyclability: 25}},
	{fieldName, []string{"sustainable"}, adjustment{sustainability: 20}},
	{fieldName, []string{"bamboo", "hemp"}, adjustment{sustainability: 30}},

	// Packaging materials
	{fieldPackaging, []string{"glass"}, adjustment{packaging: 25, recyclability: 20}},
	{fieldPackaging, []string{"aluminum", "aluminium"}, adjustment{packaging: 20, recyclability: 25}},
	{fieldPackaging, []string{"cardboard", "paper"}, adjustment{packaging: 15, recyclability: 15}},
	{fieldPackaging, []string{"plastic"}, adjustment{packaging: -15, recyclability: -10}},

	// Ingredients
	{fieldIngredients, []string{"organic"}, adjustment{sustainability: 20}},
	{fieldIngredients, []string{"natural"}, adjustment{sustainability: 10}},
	{fieldIngredients, []string{"artificial", "synthetic"}, adjustment{sustainability: -15, carbon: -10}},

	// Category
	{fieldCategory, []string{"meat"}, adjustment{carbon: -20}},
	{fieldCategory, []string{"plant", "vegan"}, adjustment{carbon: 15}},
	{fieldCategory, []string{"local"}, adjustment{carbon: 10}},
}

// Flag adjustments
var (
	organicAdjustment       = uniform(20).add(adjustment{sustainability: 25, carbon: 15})
	localAdjustment         = adjustment{carbon: 20, sustainability: 15}
	fairTradeAdjustment     = adjustment{sustainability: 20}
	notRecyclableAdjustment = adjustment{recyclability: -30}
)

// HeuristicScore computes the four sub-scores from the rule table.
// It is pure and total: missing fields simply match no rule.
func HeuristicScore(attrs *domain.ProductAttributes) domain.SubScores {
	if attrs == nil {
		attrs = &domain.ProductAttributes{}
	}

	texts := productTexts(attrs)
	total := uniform(baselineScore)

	for _, rule := range textRules {
		if containsAny(texts[rule.field], rule.keywords) {
			total = total.add(rule.adjust)
		}
	}

	if attrs.IsOrganic() {
		total = total.add(organicAdjustment)
	}
	if attrs.IsLocal() {
		total = total.add(localAdjustment)
	}
	if attrs.IsFairTrade() {
		total = total.add(fairTradeAdjustment)
	}
	if attrs.NotRecyclable() {
		total = total.add(notRecyclableAdjustment)
	}

	if attrs.CarbonFootprint != nil {
		total.carbon += footprintAdjustment(*attrs.CarbonFootprint)
	}

	return domain.SubScores{
		Carbon:         clampScore(total.carbon),
		Recyclability:  clampScore(total.recyclability),
		Sustainability: clampScore(total.sustainability),
		Packaging:      clampScore(total.packaging),
	}
}

// footprintAdjustment maps a declared footprint in kg CO2e to a carbon delta.
// Bands are checked in priority order; 3-5 kg is neutral.
func footprintAdjustment(kg float64) int {
	switch {
	case kg < 1:
		return 20
	case kg <= 3:
		return 10
	case kg > 8:
		return -20
	case kg >= 5:
		return -10
	default:
		return 0
	}
}

// productTexts lowercases each inspected field once
func productTexts(attrs *domain.ProductAttributes) map[attributeField]string {
	name := strings.ToLower(attrs.Name)
	return map[attributeField]string{
		fieldBrandOrName: strings.TrimSpace(strings.ToLower(attrs.Brand) + " " + name),
		fieldName:        name,
		fieldPackaging:   strings.ToLower(strings.Join(attrs.Packaging, " ")),
		fieldIngredients: strings.ToLower(strings.Join(attrs.Ingredients, " ")),
		fieldCategory:    strings.ToLower(attrs.Category),
	}
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
