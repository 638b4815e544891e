package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosnap/backend/internal/domain"
	"github.com/ecosnap/backend/internal/report"
	"github.com/ecosnap/backend/internal/usecase"
)

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ECOSNAP_AI_API_KEY", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestScoreCommand_JSON(t *testing.T) {
	out, err := execute(t, "score",
		"--name", "Organic Oat Drink",
		"--brand", "Oaty",
		"--packaging", "carton",
		"--organic",
		"--local",
		"--recyclable", "true",
		"--carbon", "0.6",
		"--offline",
		"--format", "json",
	)
	require.NoError(t, err)

	var view report.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))

	want := usecase.HeuristicBreakdown(usecase.NormalizeAttributes(&domain.ProductAttributes{
		Name:            "Organic Oat Drink",
		Brand:           "Oaty",
		Packaging:       []string{"carton"},
		Organic:         domain.Bool(true),
		Local:           domain.Bool(true),
		Recyclable:      domain.Bool(true),
		CarbonFootprint: domain.Float(0.6),
	}))

	assert.Equal(t, "Organic Oat Drink", view.Product)
	assert.Equal(t, "heuristic", view.Source)
	assert.Equal(t, want.Overall, view.Overall)
	assert.Equal(t, want.Grade, view.Grade)
	require.Len(t, view.Factors, 4)
	assert.Equal(t, want.Carbon, view.Factors[0].Value)
}

func TestScoreCommand_Console(t *testing.T) {
	out, err := execute(t, "score", "--name", "Plastic Water Bottle", "--offline")
	require.NoError(t, err)

	assert.Contains(t, out, "Plastic Water Bottle")
	assert.Contains(t, out, "overall")
	assert.Contains(t, out, "source: heuristic")
}

func TestScoreCommand_EmptyRecord(t *testing.T) {
	out, err := execute(t, "score", "--offline", "--format", "json")
	require.NoError(t, err)

	var view report.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 50, view.Overall)
	assert.Equal(t, "C", view.Grade)
	assert.Equal(t, "heuristic", view.Source)
}

func TestScoreCommand_NegativeCarbon(t *testing.T) {
	out, err := execute(t, "score", "--name", "Kelp", "--carbon=-2", "--offline", "--format", "json")
	require.NoError(t, err)

	var view report.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Factors, 4)
	assert.Equal(t, 70, view.Factors[0].Value)
}

func TestScoreCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad recyclable value", []string{"score", "--name", "Jar", "--recyclable", "maybe"}},
		{"unknown format", []string{"score", "--name", "Jar", "--format", "xml"}},
		{"unexpected argument", []string{"score", "extra", "--name", "Jar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestAttributesFromFlags_OmittedFlagsStayUnknown(t *testing.T) {
	cmd := newScoreCmd(&app{})
	require.NoError(t, cmd.ParseFlags([]string{"--name", "Jam", "--organic=false"}))

	attrs, err := attributesFromFlags(cmd, scoreOptions{name: "Jam"})
	require.NoError(t, err)

	require.NotNil(t, attrs.Organic)
	assert.False(t, *attrs.Organic)
	assert.Nil(t, attrs.Local)
	assert.Nil(t, attrs.FairTrade)
	assert.Nil(t, attrs.Recyclable)
	assert.Nil(t, attrs.CarbonFootprint)
}

func TestLookupCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/product/3017620422003.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"code": "3017620422003",
				"status": 1,
				"product": {
					"product_name": "Hazelnut Spread",
					"brands": "Spready, Spready Group",
					"packaging_tags": ["en:glass"],
					"labels_tags": ["en:fair-trade"]
				}
			}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"code": "", "status": 0}`))
		}
	}))
	defer server.Close()
	t.Setenv("ECOSNAP_OPENFOODFACTS_BASE_URL", server.URL)

	t.Run("scores the product", func(t *testing.T) {
		out, err := execute(t, "lookup", "3017620422003", "--offline", "-f", "yaml")
		require.NoError(t, err)

		assert.Contains(t, out, "product: Hazelnut Spread")
		assert.Contains(t, out, "brand: Spready")
		assert.Contains(t, out, "barcode: \"3017620422003\"")
		assert.Contains(t, out, "source: heuristic")
	})

	t.Run("unknown barcode", func(t *testing.T) {
		_, err := execute(t, "lookup", "0000000000000", "--offline")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no product")
	})

	t.Run("invalid barcode", func(t *testing.T) {
		_, err := execute(t, "lookup", "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid barcode")
	})
}
