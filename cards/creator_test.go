package cards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/healthforge/cdssandbox/cdshooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customTemplate = `{
	"summary": {{ toJSON (printf "Custom: %s" .Content) }},
	"indicator": "warning",
	"source": {{ toJSON .Source }},
	"detail": {{ toJSON .Content }}
}`

func TestCreator_CreateCard(t *testing.T) {
	t.Run("default template", func(t *testing.T) {
		creator, err := New()
		require.NoError(t, err)

		card, err := creator.CreateCard("Test message")
		require.NoError(t, err)
		assert.Equal(t, "Test message", card.Summary)
		assert.Equal(t, cdshooks.IndicatorInfo, card.Indicator)
		assert.Equal(t, DefaultSource, card.Source)
		assert.Equal(t, "Test message", card.Detail)
	})
	t.Run("custom template", func(t *testing.T) {
		creator, err := New(WithTemplate(customTemplate))
		require.NoError(t, err)

		card, err := creator.CreateCard("Test message")
		require.NoError(t, err)
		assert.Equal(t, "Custom: Test message", card.Summary)
		assert.Equal(t, cdshooks.IndicatorWarning, card.Indicator)
		assert.Equal(t, DefaultSource, card.Source)
		assert.Equal(t, "Test message", card.Detail)
	})
	t.Run("summary truncated to 140 characters", func(t *testing.T) {
		creator, err := New()
		require.NoError(t, err)

		card, err := creator.CreateCard(strings.Repeat("x", 200))
		require.NoError(t, err)
		assert.Len(t, card.Summary, 140)
		assert.Equal(t, strings.Repeat("x", 140), card.Summary)
	})
	t.Run("content with quotes survives JSON rendering", func(t *testing.T) {
		creator, err := New()
		require.NoError(t, err)

		card, err := creator.CreateCard(`Take "2" tablets`)
		require.NoError(t, err)
		assert.Equal(t, `Take "2" tablets`, card.Summary)
	})
	t.Run("template producing invalid card JSON", func(t *testing.T) {
		creator, err := New(WithTemplate(`{"summary": {{ .Content }},}`))
		require.NoError(t, err)

		_, err = creator.CreateCard("test")
		assert.ErrorContains(t, err, "valid card JSON")
	})
	t.Run("unparsable template string", func(t *testing.T) {
		_, err := New(WithTemplate(`{{ invalid_json }}`))
		assert.ErrorContains(t, err, "failed to parse card template")
	})
}

func TestCreator_TemplateFile(t *testing.T) {
	t.Run("template loaded from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "card.json.tmpl")
		require.NoError(t, os.WriteFile(path, []byte(customTemplate), 0644))

		creator, err := New(WithTemplateFile(path))
		require.NoError(t, err)

		card, err := creator.CreateCard("Test message")
		require.NoError(t, err)
		assert.Equal(t, "Custom: Test message", card.Summary)
		assert.Equal(t, cdshooks.IndicatorWarning, card.Indicator)
	})
	t.Run("nonexistent file falls back to default template", func(t *testing.T) {
		creator, err := New(WithTemplateFile("nonexistent_template.json"))
		require.NoError(t, err)

		card, err := creator.CreateCard("Test message")
		require.NoError(t, err)
		assert.Equal(t, "Test message", card.Summary)
		assert.Equal(t, cdshooks.IndicatorInfo, card.Indicator)
		assert.Equal(t, DefaultSource, card.Source)
	})
	t.Run("file with unparsable template", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.json.tmpl")
		require.NoError(t, os.WriteFile(path, []byte(`{{ invalid_json }}`), 0644))

		_, err := New(WithTemplateFile(path))
		assert.ErrorContains(t, err, "failed to parse card template")
	})
}

func TestCreator_Create(t *testing.T) {
	t.Run("from model output", func(t *testing.T) {
		creator, err := New(WithModelOutput("huggingface", "summarization"))
		require.NoError(t, err)

		outputs := ModelOutputs{}
		outputs.Add("huggingface", "summarization", "Model summary")

		result, err := creator.Create(outputs)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Model summary", result[0].Summary)
		assert.Equal(t, cdshooks.IndicatorInfo, result[0].Indicator)
	})
	t.Run("from static content", func(t *testing.T) {
		creator, err := New(WithStaticContent("Static content"))
		require.NoError(t, err)

		result, err := creator.Create(ModelOutputs{})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Static content", result[0].Summary)
	})
	t.Run("missing model output yields no cards", func(t *testing.T) {
		creator, err := New(WithModelOutput("huggingface", "missing_task"))
		require.NoError(t, err)

		result, err := creator.Create(ModelOutputs{})
		require.NoError(t, err)
		assert.Empty(t, result)
	})
	t.Run("no content source configured", func(t *testing.T) {
		creator, err := New()
		require.NoError(t, err)

		_, err = creator.Create(ModelOutputs{})
		assert.ErrorContains(t, err, "either model output (source and task) or content need to be provided")
	})
	t.Run("multiple outputs yield multiple cards", func(t *testing.T) {
		creator, err := New(WithModelOutput("llm", "generation"))
		require.NoError(t, err)

		outputs := ModelOutputs{}
		outputs.Add("llm", "generation", "First", "Second")

		result, err := creator.Create(outputs)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "First", result[0].Summary)
		assert.Equal(t, "Second", result[1].Summary)
	})
}
