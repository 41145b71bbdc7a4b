package widget

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// FormPreset describes where the widget lives on one host form.
type FormPreset struct {
	Input   string            `yaml:"input"`
	Results string            `yaml:"results"`
	Fields  map[string]string `yaml:"fields"`
}

// Presets maps form names to their widget layout.
type Presets map[string]FormPreset

type presetsFile struct {
	Forms Presets `yaml:"forms"`
}

// LoadPresets reads presets from path, or the built-in set when path is empty.
func LoadPresets(path string) (Presets, error) {
	data := defaultPresets
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read address form presets: %w", err)
		}
		data = raw
	}
	return ParsePresets(data)
}

// ParsePresets decodes a presets document and checks every form names an input.
func ParsePresets(data []byte) (Presets, error) {
	var file presetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse address form presets: %w", err)
	}
	if len(file.Forms) == 0 {
		return nil, fmt.Errorf("parse address form presets: no forms defined")
	}
	for name, preset := range file.Forms {
		if preset.Input == "" {
			return nil, fmt.Errorf("parse address form presets: form %q has no input", name)
		}
	}
	return file.Forms, nil
}

// Names returns the form names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the preset layout into cfg.
func (fp FormPreset) Apply(cfg Config) Config {
	cfg.InputID = fp.Input
	cfg.ResultsID = fp.Results
	cfg.Fields = make(map[string]string, len(fp.Fields))
	for k, v := range fp.Fields {
		cfg.Fields[k] = v
	}
	return cfg
}
