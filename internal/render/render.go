// Package render writes analysis results as styled text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/onkardamal/Aura/internal/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (available: text, json, yaml)", s)
	}
}

// Document is one rendered analysis.
type Document struct {
	Input                string     `json:"input,omitempty" yaml:"input,omitempty"`
	Source               string     `json:"source" yaml:"source"`
	Mode                 model.Mode `json:"mode" yaml:"mode"`
	model.AnalysisResult `yaml:",inline"`
}

// ModeColor returns the accent color for a presentation mode.
func ModeColor(m model.Mode) lipgloss.Color {
	switch m {
	case model.ModeCalm:
		return lipgloss.Color("#2196F3")
	case model.ModeHappy:
		return lipgloss.Color("#4CAF50")
	default:
		return lipgloss.Color("#9E9E9E")
	}
}

// Write renders docs to w. Width <= 0 disables wrapping in text output.
func Write(w io.Writer, format Format, docs []Document, width int) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, docs)
	case FormatYAML:
		return writeYAML(w, docs)
	default:
		return writeText(w, docs, width)
	}
}

func writeJSON(w io.Writer, docs []Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var v any = docs
	if len(docs) == 1 {
		v = docs[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, docs []Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return nil
}

func writeText(w io.Writer, docs []Document, width int) error {
	r := lipgloss.NewRenderer(w)
	keyStyle := r.NewStyle().Bold(true)
	body := r.NewStyle()
	if width > 0 {
		body = body.Width(width)
	}
	for i, doc := range docs {
		if i > 0 {
			if _, err := fmt.Fprintln(w, ""); err != nil {
				return err
			}
		}
		accent := r.NewStyle().Foreground(ModeColor(doc.Mode)).Bold(true)
		var b strings.Builder
		if doc.Input != "" {
			fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Input:"), doc.Input)
		}
		fmt.Fprintf(&b, "%s %s (%+d)\n", keyStyle.Render("Sentiment:"),
			accent.Render(string(doc.Sentiment.Label)), doc.Sentiment.Score)
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Intent:"), doc.Intent)
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Categories:"), joinCategories(doc.Categories))
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Mode:"), accent.Render(string(doc.Mode)))
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Source:"), doc.Source)
		fmt.Fprintf(&b, "%s\n", keyStyle.Render("Suggestions:"))
		for _, s := range doc.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
		if _, err := fmt.Fprint(w, body.Render(strings.TrimRight(b.String(), "\n"))+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func joinCategories(cats []model.Category) string {
	if len(cats) == 0 {
		return "-"
	}
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
