package openfoodfacts

import (
	"strings"

	"github.com/ecosnap/backend/internal/domain"
)

// productResponse is the v2 product endpoint envelope
type productResponse struct {
	Code    string   `json:"code"`
	Status  int      `json:"status"`
	Product *product `json:"product"`
}

type product struct {
	ProductName     string          `json:"product_name"`
	GenericName     string          `json:"generic_name"`
	Brands          string          `json:"brands"`
	Categories      string          `json:"categories"`
	Packaging       string          `json:"packaging"`
	PackagingTags   []string        `json:"packaging_tags"`
	Packagings      []packagingPart `json:"packagings"`
	IngredientsTags []string        `json:"ingredients_tags"`
	LabelsTags      []string        `json:"labels_tags"`
	EcoscoreData    *ecoscoreData   `json:"ecoscore_data"`
}

type packagingPart struct {
	Material  string `json:"material"`
	Shape     string `json:"shape"`
	Recycling string `json:"recycling"`
}

type ecoscoreData struct {
	Agribalyse *struct {
		CO2Total *float64 `json:"co2_total"`
	} `json:"agribalyse"`
}

// Recycling instructions used by packagings[].recycling
const (
	recyclingRecycle = "en:recycle"
	recyclingDiscard = "en:discard"
)

// MapToAttributes converts an Open Food Facts product to scoring attributes
func MapToAttributes(barcode string, p *product) *domain.ProductAttributes {
	attrs := &domain.ProductAttributes{
		Barcode:     barcode,
		Name:        firstNonEmpty(p.ProductName, p.GenericName),
		Brand:       firstBrand(p.Brands),
		Category:    p.Categories,
		Packaging:   packagingTerms(p),
		Ingredients: p.IngredientsTags,
		Recyclable:  recyclable(p.Packagings),
	}

	if hasLabel(p.LabelsTags, "organic") {
		attrs.Organic = domain.Bool(true)
	}
	if hasLabel(p.LabelsTags, "fair-trade", "fairtrade") {
		attrs.FairTrade = domain.Bool(true)
	}
	if hasLabel(p.LabelsTags, "local") {
		attrs.Local = domain.Bool(true)
	}

	if p.EcoscoreData != nil && p.EcoscoreData.Agribalyse != nil && p.EcoscoreData.Agribalyse.CO2Total != nil {
		attrs.CarbonFootprint = domain.Float(*p.EcoscoreData.Agribalyse.CO2Total)
	}

	return attrs
}

// packagingTerms prefers taxonomy tags, then structured parts, then free text
func packagingTerms(p *product) []string {
	if len(p.PackagingTags) > 0 {
		return p.PackagingTags
	}

	var terms []string
	for _, part := range p.Packagings {
		if part.Material != "" {
			terms = append(terms, part.Material)
		}
		if part.Shape != "" {
			terms = append(terms, part.Shape)
		}
	}
	if len(terms) > 0 {
		return terms
	}

	return splitList(p.Packaging)
}

// recyclable is true when every part should be recycled, false when any part
// must be discarded, and unknown otherwise.
func recyclable(parts []packagingPart) *bool {
	if len(parts) == 0 {
		return nil
	}

	allRecycle := true
	for _, part := range parts {
		switch part.Recycling {
		case recyclingDiscard:
			return domain.Bool(false)
		case recyclingRecycle:
		default:
			allRecycle = false
		}
	}

	if allRecycle {
		return domain.Bool(true)
	}
	return nil
}

func hasLabel(labels []string, needles ...string) bool {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, needle := range needles {
			if strings.Contains(lower, needle) {
				return true
			}
		}
	}
	return false
}

func firstBrand(brands string) string {
	parts := splitList(brands)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
