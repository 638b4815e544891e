// Package report renders eco-score breakdowns for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ecosnap/backend/internal/domain"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
)

const barWidth = 20

// Factor is one line of the printed breakdown
type Factor struct {
	Name        string `json:"name" yaml:"name"`
	Value       int    `json:"value" yaml:"value"`
	Weight      int    `json:"weight" yaml:"weight"`
	Description string `json:"description" yaml:"description"`
}

// View is the serializable shape of a scored product
type View struct {
	Product   string   `json:"product" yaml:"product"`
	Brand     string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Barcode   string   `json:"barcode,omitempty" yaml:"barcode,omitempty"`
	Overall   int      `json:"overall" yaml:"overall"`
	Grade     string   `json:"grade" yaml:"grade"`
	Source    string   `json:"source" yaml:"source"`
	Reasoning string   `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Factors   []Factor `json:"factors" yaml:"factors"`
}

// NewView flattens a product and its breakdown
func NewView(attrs *domain.ProductAttributes, b domain.EcoScoreBreakdown) View {
	v := View{
		Overall:   b.Overall,
		Grade:     b.Grade,
		Source:    string(b.Source),
		Reasoning: b.Reasoning,
		Factors:   make([]Factor, 0, len(b.Factors)),
	}
	if attrs != nil {
		v.Product = attrs.Name
		v.Brand = attrs.Brand
		v.Barcode = attrs.Barcode
	}
	for _, f := range b.Factors {
		v.Factors = append(v.Factors, Factor(f))
	}
	return v
}

// Render writes v to w in the requested format
func Render(w io.Writer, format string, v View) error {
	switch strings.ToLower(format) {
	case "", FormatConsole:
		_, err := io.WriteString(w, Console(v))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (console|json|yaml)", format)
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle  = lipgloss.NewStyle().Width(16)
	gradeStyles = map[string]lipgloss.Style{
		"A": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		"B": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		"C": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		"D": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		"E": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

// Console renders v as a human-readable block with one bar per factor
func Console(v View) string {
	var sb strings.Builder

	title := v.Product
	if title == "" {
		title = "Unnamed product"
	}
	if v.Brand != "" {
		title += " (" + v.Brand + ")"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	if v.Barcode != "" {
		sb.WriteString(mutedStyle.Render("barcode " + v.Barcode))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for _, f := range v.Factors {
		fmt.Fprintf(&sb, "%s %s %3d  %s\n",
			labelStyle.Render(f.Name),
			bar(f.Value),
			f.Value,
			mutedStyle.Render(fmt.Sprintf("x%d%%", f.Weight)),
		)
	}

	gradeStyle, ok := gradeStyles[v.Grade]
	if !ok {
		gradeStyle = titleStyle
	}
	fmt.Fprintf(&sb, "\n%s %d/100  grade %s  %s\n",
		labelStyle.Render("overall"),
		v.Overall,
		gradeStyle.Render(v.Grade),
		mutedStyle.Render("source: "+v.Source),
	)
	if v.Reasoning != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Width(72).Render(v.Reasoning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// bar draws a fixed-width meter for a 0-100 value
func bar(value int) string {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := (value*barWidth + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
