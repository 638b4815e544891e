package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ecosnap/backend/internal/domain"
)

func sampleView() View {
	attrs := &domain.ProductAttributes{Barcode: "5000112548167", Name: "Sparkling Water", Brand: "Fizz"}
	breakdown := domain.EcoScoreBreakdown{
		SubScores: domain.SubScores{Carbon: 60, Recyclability: 80, Sustainability: 50, Packaging: 70},
		Overall:   65,
		Grade:     "B",
		Factors: []domain.ScoreFactor{
			{Name: "carbon", Value: 60, Weight: 30, Description: "emissions"},
			{Name: "recyclability", Value: 80, Weight: 25, Description: "recycling"},
			{Name: "sustainability", Value: 50, Weight: 25, Description: "sourcing"},
			{Name: "packaging", Value: 70, Weight: 20, Description: "materials"},
		},
		Source: domain.SourceHeuristic,
	}
	return NewView(attrs, breakdown)
}

func TestNewView(t *testing.T) {
	v := sampleView()

	assert.Equal(t, "Sparkling Water", v.Product)
	assert.Equal(t, "Fizz", v.Brand)
	assert.Equal(t, "5000112548167", v.Barcode)
	assert.Equal(t, 65, v.Overall)
	assert.Equal(t, "heuristic", v.Source)
	require.Len(t, v.Factors, 4)
	assert.Equal(t, Factor{Name: "carbon", Value: 60, Weight: 30, Description: "emissions"}, v.Factors[0])
}

func TestNewView_NilAttributes(t *testing.T) {
	v := NewView(nil, domain.EcoScoreBreakdown{Overall: 10, Grade: "E"})
	assert.Empty(t, v.Product)
	assert.Equal(t, 10, v.Overall)
	assert.NotNil(t, v.Factors)
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sampleView()))

	var got View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleView(), got)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatYAML, sampleView()))

	assert.Contains(t, buf.String(), "overall: 65")
	assert.Contains(t, buf.String(), "grade: B")

	var got View
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleView(), got)
}

func TestRender_Console(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatConsole, sampleView()))

	out := buf.String()
	for _, want := range []string{"Sparkling Water (Fizz)", "barcode 5000112548167", "carbon", "packaging", "65/100", "grade", "source: heuristic"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 2, strings.Count(out, "x25%"), "recyclability and sustainability weights")
	assert.Equal(t, 1, strings.Count(out, "x30%"))
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", sampleView())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestBar(t *testing.T) {
	tests := []struct {
		value      int
		wantFilled int
	}{
		{0, 0},
		{50, 10},
		{100, 20},
		{-5, 0},
		{150, 20},
		{2, 0},
		{3, 1},
	}

	for _, tt := range tests {
		b := bar(tt.value)
		assert.Equal(t, tt.wantFilled, strings.Count(b, "█"), "value %d", tt.value)
		assert.Equal(t, barWidth, strings.Count(b, "█")+strings.Count(b, "░"), "value %d", tt.value)
	}
}
