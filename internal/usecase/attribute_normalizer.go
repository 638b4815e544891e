package usecase

import (
	"math"
	"regexp"
	"strings"

	"github.com/ecosnap/backend/internal/domain"
)

// Compiled regex patterns for attribute cleanup
var (
	// Open Food Facts taxonomy tags carry a language prefix, e.g. "en:glass-bottle"
	languagePrefixPattern = regexp.MustCompile(`(?i)^[a-z]{2,3}:`)

	// Tag word separators
	tagSeparatorPattern = regexp.MustCompile(`[-_]+`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)

	// Anything that is not a digit, for barcodes typed with spaces or dashes
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// NormalizeAttributes returns a cleaned copy of attrs; the input is not modified.
// Text is trimmed and whitespace collapsed, list entries lose taxonomy prefixes
// and separators and are de-duplicated, and a non-finite footprint is treated
// as unknown.
func NormalizeAttributes(attrs *domain.ProductAttributes) *domain.ProductAttributes {
	if attrs == nil {
		return &domain.ProductAttributes{}
	}

	out := &domain.ProductAttributes{
		Barcode:     NormalizeBarcode(attrs.Barcode),
		Name:        cleanText(attrs.Name),
		Brand:       cleanText(attrs.Brand),
		Category:    cleanTag(attrs.Category),
		Packaging:   cleanTags(attrs.Packaging),
		Ingredients: cleanTags(attrs.Ingredients),
		Organic:     copyBool(attrs.Organic),
		Local:       copyBool(attrs.Local),
		FairTrade:   copyBool(attrs.FairTrade),
		Recyclable:  copyBool(attrs.Recyclable),
	}

	if fp := attrs.CarbonFootprint; fp != nil && !math.IsInf(*fp, 0) && !math.IsNaN(*fp) {
		out.CarbonFootprint = domain.Float(*fp)
	}

	return out
}

// NormalizeBarcode strips everything but digits
func NormalizeBarcode(barcode string) string {
	return nonDigitPattern.ReplaceAllString(barcode, "")
}

func cleanText(s string) string {
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func cleanTag(s string) string {
	s = strings.TrimSpace(s)
	s = languagePrefixPattern.ReplaceAllString(s, "")
	s = tagSeparatorPattern.ReplaceAllString(s, " ")
	return strings.ToLower(cleanText(s))
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(tags))
	var result []string
	for _, tag := range tags {
		cleaned := cleanTag(tag)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		result = append(result, cleaned)
	}
	return result
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	return domain.Bool(*b)
}
