// Package catalog holds the fixed survey questions and their options.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"github.com/glebk/lunch-buddy/internal/domain"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// Option is one selectable answer. Value is the numeric meaning of the
// label for questions that have one (budget ceiling, minutes).
type Option struct {
	Label string `yaml:"label"`
	Value int    `yaml:"value,omitempty"`
}

// Question is one button stage of the survey
type Question struct {
	Stage   domain.Stage         `yaml:"stage"`
	Kind    domain.SelectionKind `yaml:"kind"`
	Prompt  string               `yaml:"prompt"`
	Options []Option             `yaml:"options"`
}

// Catalog is the ordered list of survey questions
type Catalog struct {
	Version   int        `yaml:"version"`
	Questions []Question `yaml:"questions"`

	index map[domain.Stage]int
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// MustDefault is Default for package initialization and tests
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog v%d has no questions", c.Version)
	}

	c.index = make(map[domain.Stage]int, len(c.Questions))
	for i, q := range c.Questions {
		if q.Stage == "" {
			return fmt.Errorf("question %d has no stage", i)
		}
		if _, dup := c.index[q.Stage]; dup {
			return fmt.Errorf("duplicate stage %q", q.Stage)
		}
		if q.Kind != domain.SelectionSingle && q.Kind != domain.SelectionMulti {
			return fmt.Errorf("stage %q has unknown kind %q", q.Stage, q.Kind)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("stage %q has no options", q.Stage)
		}
		c.index[q.Stage] = i
	}

	if _, ok := c.index[domain.StageOffice]; !ok {
		return fmt.Errorf("catalog v%d has no office question", c.Version)
	}
	return nil
}

// Question looks up a button stage
func (c *Catalog) Question(stage domain.Stage) (Question, bool) {
	i, ok := c.index[stage]
	if !ok {
		return Question{}, false
	}
	return c.Questions[i], true
}

// First returns the first stage of the survey
func (c *Catalog) First() domain.Stage {
	return c.Questions[0].Stage
}

// Next returns the stage after the given one; the last question is
// followed by StageFinish.
func (c *Catalog) Next(stage domain.Stage) (domain.Stage, bool) {
	i, ok := c.index[stage]
	if !ok {
		return "", false
	}
	if i == len(c.Questions)-1 {
		return domain.StageFinish, true
	}
	return c.Questions[i+1].Stage, true
}

// Prev returns the stage before the given one
func (c *Catalog) Prev(stage domain.Stage) (domain.Stage, bool) {
	if stage == domain.StageFinish {
		return c.Questions[len(c.Questions)-1].Stage, true
	}
	i, ok := c.index[stage]
	if !ok || i == 0 {
		return "", false
	}
	return c.Questions[i-1].Stage, true
}

// Option returns the option at index for a stage
func (c *Catalog) Option(stage domain.Stage, index int) (Option, error) {
	q, ok := c.Question(stage)
	if !ok {
		return Option{}, fmt.Errorf("%w: %q", domain.ErrUnknownStage, stage)
	}
	if index < 0 || index >= len(q.Options) {
		return Option{}, fmt.Errorf("%w: %s option %d of %d", domain.ErrInvalidSelection, stage, index, len(q.Options))
	}
	return q.Options[index], nil
}

// Value maps a label to its numeric value
func (c *Catalog) Value(stage domain.Stage, label string) (int, bool) {
	q, ok := c.Question(stage)
	if !ok {
		return 0, false
	}
	for _, o := range q.Options {
		if o.Label == label && o.Value != 0 {
			return o.Value, true
		}
	}
	return 0, false
}

// PlainLabel strips leading decorative marks (emoji, symbols, spaces)
// from a label and normalizes it to NFC.
func PlainLabel(label string) string {
	plain := strings.TrimLeftFunc(norm.NFC.String(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.TrimSpace(plain)
}
