package openfoodfacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosnap/backend/internal/domain"
)

func TestMapToAttributes_Labels(t *testing.T) {
	attrs := MapToAttributes("123", &product{
		ProductName: "Coffee Beans",
		LabelsTags:  []string{"en:organic", "en:eu-organic", "en:fairtrade-international", "en:made-locally"},
	})

	assert.Equal(t, "123", attrs.Barcode)
	require.NotNil(t, attrs.Organic)
	assert.True(t, *attrs.Organic)
	require.NotNil(t, attrs.FairTrade)
	assert.True(t, *attrs.FairTrade)
	require.NotNil(t, attrs.Local)
	assert.True(t, *attrs.Local)
}

func TestMapToAttributes_NameFallsBackToGenericName(t *testing.T) {
	attrs := MapToAttributes("123", &product{ProductName: "  ", GenericName: "Hazelnut spread"})
	assert.Equal(t, "Hazelnut spread", attrs.Name)
}

func TestMapToAttributes_NoFootprint(t *testing.T) {
	attrs := MapToAttributes("123", &product{ProductName: "Tea", EcoscoreData: &ecoscoreData{}})
	assert.Nil(t, attrs.CarbonFootprint)
}

func TestPackagingTerms(t *testing.T) {
	tests := []struct {
		name string
		p    product
		want []string
	}{
		{
			name: "tags preferred",
			p:    product{PackagingTags: []string{"en:can"}, Packaging: "Metal"},
			want: []string{"en:can"},
		},
		{
			name: "structured parts",
			p:    product{Packagings: []packagingPart{{Material: "en:aluminium", Shape: "en:can"}, {Material: "en:cardboard"}}},
			want: []string{"en:aluminium", "en:can", "en:cardboard"},
		},
		{
			name: "free text",
			p:    product{Packaging: "Plastic, Film , "},
			want: []string{"Plastic", "Film"},
		},
		{
			name: "nothing",
			p:    product{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, packagingTerms(&tt.p))
		})
	}
}

func TestRecyclable(t *testing.T) {
	tests := []struct {
		name  string
		parts []packagingPart
		want  *bool
	}{
		{"no parts", nil, nil},
		{"all recycle", []packagingPart{{Recycling: "en:recycle"}, {Recycling: "en:recycle"}}, domain.Bool(true)},
		{"any discard", []packagingPart{{Recycling: "en:recycle"}, {Recycling: "en:discard"}}, domain.Bool(false)},
		{"unknown instruction", []packagingPart{{Recycling: "en:recycle"}, {Recycling: ""}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recyclable(tt.parts))
		})
	}
}

func TestFirstBrand(t *testing.T) {
	assert.Equal(t, "Ferrero", firstBrand("Ferrero, Nutella"))
	assert.Equal(t, "Solo", firstBrand(" Solo "))
	assert.Equal(t, "", firstBrand(""))
}
