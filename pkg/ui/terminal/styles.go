package terminal

import (
	_ "embed"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Width      int    `yaml:"width,omitempty"`
}

// StylesConfig represents the complete styles configuration
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles bound to one renderer
type Styles struct {
	registry map[string]lipgloss.Style
	base     lipgloss.Style
}

//go:embed styles.yaml
var embeddedStyles []byte

// LoadStyles parses a styles definition for the given lipgloss renderer
func LoadStyles(data []byte, lr *lipgloss.Renderer) (*Styles, error) {
	var config StylesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse styles data")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	s := &Styles{
		registry: make(map[string]lipgloss.Style, len(config.Styles)),
		base:     lr.NewStyle(),
	}
	for name, def := range config.Styles {
		s.registry[name] = buildStyle(lr, def, colors)
	}
	return s, nil
}

// DefaultStyles loads the embedded styles, falling back to unstyled output
// if they cannot be parsed
func DefaultStyles(lr *lipgloss.Renderer) *Styles {
	s, err := LoadStyles(embeddedStyles, lr)
	if err != nil {
		return &Styles{registry: map[string]lipgloss.Style{}, base: lr.NewStyle()}
	}
	return s
}

// Get returns the named style, or an unstyled one
func (s *Styles) Get(name string) lipgloss.Style {
	if style, ok := s.registry[name]; ok {
		return style
	}
	return s.base
}

func buildStyle(lr *lipgloss.Renderer, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lr.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if def.Foreground != "" {
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
	}
	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	return style
}
