// Package cards renders model output or static text into CDS Hooks cards.
//
// A Creator pushes its input through a template that produces card JSON, so
// the card layout (summary, indicator, source) can be customized without code
// changes. The default template yields an info card that echoes the content.
package cards

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"github.com/healthforge/cdssandbox/cdshooks"
	"github.com/rs/zerolog/log"
)

//go:embed default.json.tmpl
var tmplFS embed.FS

const summaryMaxLen = 140

// DefaultSource is the source attached to cards rendered by a Creator.
var DefaultSource = cdshooks.Source{Label: "Card generated by CDS Sandbox"}

// templateData is the data a card template is executed with.
type templateData struct {
	Content string
	Source  cdshooks.Source
}

// Creator turns text content into a structured CDS Hooks card.
type Creator struct {
	tmpl    *template.Template
	static  string
	source  string
	task    string
	cardSrc cdshooks.Source
}

type Option func(*options)

type options struct {
	templateStr  string
	templatePath string
	static       string
	source       string
	task         string
}

// WithTemplate sets the card template to the given template string.
func WithTemplate(tmpl string) Option {
	return func(o *options) {
		o.templateStr = tmpl
	}
}

// WithTemplateFile loads the card template from a file. When the file cannot
// be read, the error is logged and the default template is used instead.
func WithTemplateFile(path string) Option {
	return func(o *options) {
		o.templatePath = path
	}
}

// WithStaticContent configures a fixed text to render, instead of model output.
func WithStaticContent(content string) Option {
	return func(o *options) {
		o.static = content
	}
}

// WithModelOutput configures the model output source and task to render.
func WithModelOutput(source, task string) Option {
	return func(o *options) {
		o.source = source
		o.task = task
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"toJSON": func(v any) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
	}
}

// New creates a card Creator. An unparsable template is a configuration error
// and fails construction.
func New(opts ...Option) (*Creator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tmplStr := o.templateStr
	if o.templatePath != "" {
		contents, err := os.ReadFile(o.templatePath)
		if err != nil {
			log.Error().Err(err).Str("path", o.templatePath).Msg("Error loading card template, falling back to default")
		} else {
			tmplStr = string(contents)
		}
	}

	var tmpl *template.Template
	var err error
	if tmplStr != "" {
		tmpl, err = template.New("card").Funcs(templateFuncs()).Parse(tmplStr)
	} else {
		tmpl, err = template.New("default.json.tmpl").Funcs(templateFuncs()).ParseFS(tmplFS, "default.json.tmpl")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse card template: %w", err)
	}

	return &Creator{
		tmpl:    tmpl,
		static:  o.static,
		source:  o.source,
		task:    o.task,
		cardSrc: DefaultSource,
	}, nil
}

// CreateCard renders the given content into a card through the configured
// template. The summary is truncated to 140 characters after rendering.
func (c *Creator) CreateCard(content string) (cdshooks.Card, error) {
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, templateData{Content: content, Source: c.cardSrc}); err != nil {
		return cdshooks.Card{}, fmt.Errorf("failed to execute card template: %w", err)
	}

	var card cdshooks.Card
	if err := json.Unmarshal(buf.Bytes(), &card); err != nil {
		return cdshooks.Card{}, fmt.Errorf("card template did not produce valid card JSON: %w", err)
	}

	if summary := []rune(card.Summary); len(summary) > summaryMaxLen {
		card.Summary = string(summary[:summaryMaxLen])
	}
	if card.Source == (cdshooks.Source{}) {
		card.Source = c.cardSrc
	}
	if err := card.Validate(); err != nil {
		return cdshooks.Card{}, err
	}
	return card, nil
}

// Create produces cards from the configured content source: model output when
// a source/task is configured, static content otherwise. Missing model output
// is logged and yields no cards; having neither configured is an error.
func (c *Creator) Create(outputs ModelOutputs) ([]cdshooks.Card, error) {
	var contents []string
	switch {
	case c.source != "" && c.task != "":
		contents = outputs.Get(c.source, c.task)
		if len(contents) == 0 {
			log.Warn().Str("source", c.source).Str("task", c.task).
				Msgf("No generated text for %s/%s found", c.source, c.task)
			return nil, nil
		}
	case c.static != "":
		contents = []string{c.static}
	default:
		return nil, fmt.Errorf("either model output (source and task) or content need to be provided")
	}

	result := make([]cdshooks.Card, 0, len(contents))
	for _, content := range contents {
		card, err := c.CreateCard(content)
		if err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, nil
}

// ModelOutputs holds generated texts keyed by model source and task.
type ModelOutputs map[string][]string

func outputKey(source, task string) string {
	return source + "/" + task
}

// Add appends generated texts for the given source and task.
func (m ModelOutputs) Add(source, task string, texts ...string) {
	m[outputKey(source, task)] = append(m[outputKey(source, task)], texts...)
}

// Get returns the generated texts for the given source and task.
func (m ModelOutputs) Get(source, task string) []string {
	return m[outputKey(source, task)]
}
