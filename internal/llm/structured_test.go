package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftPayload struct {
	Title      string  `json:"title"`
	Priority   string  `json:"priority"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"title":"Fix login bug","priority":"high","confidence":0.95}`
	result, err := ExtractJSON[draftPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Fix login bug", result.Title)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"title\":\"Update docs\",\"confidence\":0.88}\n```"
	result, err := ExtractJSON[draftPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Update docs", result.Title)
	assert.Equal(t, 0.88, result.Confidence)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here is the extracted task:\n{\"title\":\"Review deploy pipeline\",\"confidence\":0.72}\nHope that helps!"
	result, err := ExtractJSON[draftPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Review deploy pipeline", result.Title)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	type nested struct {
		Title string            `json:"title"`
		Meta  map[string]string `json:"meta"`
	}
	raw := `{"title":"Plan sprint","meta":{"assignee":"alice"}}`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Plan sprint", result.Title)
	assert.Equal(t, "alice", result.Meta["assignee"])
}

func TestExtractJSON_NoJSON(t *testing.T) {
	raw := "I could not find any tasks in that text."
	_, err := ExtractJSON[draftPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	raw := `{"title":"Fix login bug", broken}`
	_, err := ExtractJSON[draftPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_CommentsStripped(t *testing.T) {
	raw := "{\n\"title\":\"Fix login bug\", // main issue\n\"confidence\":0.9\n}"
	result, err := ExtractJSON[draftPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Fix login bug", result.Title)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestExtractJSON_LeadingDecimalNormalized(t *testing.T) {
	raw := `{"title":"Fix login bug","confidence":.8}`
	result, err := ExtractJSON[draftPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	raw := `{"title":"Fix login bug","confidence":1.5}`
	validator := func(p draftPayload) error {
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("confidence must be in [0,1], got %f", p.Confidence)
		}
		return nil
	}
	_, err := ExtractJSON(raw, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractJSON_ValidationSuccess(t *testing.T) {
	raw := `{"title":"Update docs","confidence":0.9}`
	validator := func(p draftPayload) error {
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("confidence out of range")
		}
		return nil
	}
	result, err := ExtractJSON(raw, validator)
	require.NoError(t, err)
	assert.Equal(t, "Update docs", result.Title)
}

func TestExtractJSON_MultipleFences(t *testing.T) {
	raw := "Some text\n```\n{\"title\":\"Update docs\",\"confidence\":0.8}\n```\nMore text"
	result, err := ExtractJSON[draftPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Update docs", result.Title)
}
