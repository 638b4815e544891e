package ai

import (
	"fmt"
	"strings"

	"github.com/ecosnap/backend/internal/domain"
)

const unknownValue = "unknown"

const scorePromptTemplate = `Analyze the environmental impact of this retail product.

Product: %s
Brand: %s
Category: %s
Packaging: %s
Ingredients: %s

Rate each aspect from 0 (worst) to 100 (best):
- carbon: greenhouse gas emissions of production and transport
- recyclability: how readily the product and its packaging can be recycled
- sustainability: sourcing, certification and ingredient practices
- packaging: environmental impact of the packaging materials

Respond with JSON only, in exactly this shape:
{"carbon": 0, "recyclability": 0, "sustainability": 0, "packaging": 0, "overall": 0, "reasoning": "one or two sentences"}`

const identifyPrompt = `Identify the retail product shown in this photo.

Respond with JSON only, in exactly this shape:
{"name": "", "brand": "", "category": "", "packaging": [], "ingredients": [], "organic": false, "local": false, "fairTrade": false, "recyclable": true}

Use an empty name if no product is visible. Omit a boolean you cannot determine.`

// BuildScorePrompt embeds the product attributes in the scoring prompt
func BuildScorePrompt(attrs *domain.ProductAttributes) string {
	return fmt.Sprintf(scorePromptTemplate,
		orUnknown(attrs.Name),
		orUnknown(attrs.Brand),
		orUnknown(attrs.Category),
		joinOrUnknown(attrs.Packaging),
		joinOrUnknown(attrs.Ingredients),
	)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownValue
	}
	return s
}

func joinOrUnknown(items []string) string {
	return orUnknown(strings.Join(items, ", "))
}
