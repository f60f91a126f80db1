package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

//go:embed content.yaml
var defaultContent []byte

// Content is the static copy rendered around the quote form.
type Content struct {
	Brand struct {
		Name    string `yaml:"name"`
		Tagline string `yaml:"tagline"`
	} `yaml:"brand"`
	Page struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"page"`
	Form         FormCopy         `yaml:"form"`
	Confirmation ConfirmationCopy `yaml:"confirmation"`
	Contact      []ContactChannel `yaml:"contact"`
	Badges       []string         `yaml:"badges"`
	Footer       string           `yaml:"footer"`
}

type FormCopy struct {
	Heading         string                  `yaml:"heading"`
	Subtitle        string                  `yaml:"subtitle"`
	Footnote        string                  `yaml:"footnote"`
	SubmitLabel     string                  `yaml:"submit_label"`
	SubmittingLabel string                  `yaml:"submitting_label"`
	Labels          map[quotes.Field]string `yaml:"labels"`
	Placeholders    map[quotes.Field]string `yaml:"placeholders"`
}

type ConfirmationCopy struct {
	Heading    string `yaml:"heading"`
	Message    string `yaml:"message"`
	ResetLabel string `yaml:"reset_label"`
}

// ContactChannel is one way to reach the business (phone, LINE, email).
type ContactChannel struct {
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse(defaultContent)
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Content, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML content and checks the fields the page cannot render without.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("site: parse content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	var errs []error
	if strings.TrimSpace(c.Brand.Name) == "" {
		errs = append(errs, errors.New("site: brand.name is required"))
	}
	if strings.TrimSpace(c.Form.Heading) == "" {
		errs = append(errs, errors.New("site: form.heading is required"))
	}
	for _, f := range quotes.AllFields {
		if strings.TrimSpace(c.Form.Labels[f]) == "" {
			errs = append(errs, fmt.Errorf("site: form.labels.%s is required", f))
		}
	}
	for key := range c.Form.Labels {
		if !key.Valid() {
			errs = append(errs, fmt.Errorf("site: unknown form field %q", key))
		}
	}
	if c.Form.SubmittingLabel == "" {
		c.Form.SubmittingLabel = "Submitting..."
	}
	return errors.Join(errs...)
}

// Label returns the display label for f.
func (c *Content) Label(f quotes.Field) string {
	return c.Form.Labels[f]
}

// Placeholder returns the input placeholder for f, if any.
func (c *Content) Placeholder(f quotes.Field) string {
	return c.Form.Placeholders[f]
}
