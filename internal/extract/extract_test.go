package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_BareObject(t *testing.T) {
	raw, err := Value(`{"title": "AI gardening", "score": 42}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "AI gardening", "score": 42}`, string(raw))
}

func TestValue_FencedWithLanguageTag(t *testing.T) {
	input := "Here is the manifest:\n```json\n[{\"path\":\"README.md\",\"content\":\"hi\"}]\n```\nEnjoy!"
	raw, err := Value(input)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"path":"README.md","content":"hi"}]`, string(raw))
}

func TestValue_SurroundingProse(t *testing.T) {
	input := "I analyzed the trends carefully. The results are: {\"winner\": 1} as requested."
	raw, err := Value(input)
	require.NoError(t, err)
	assert.JSONEq(t, `{"winner": 1}`, string(raw))

	var parsed map[string]int
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, 1, parsed["winner"])
}

func TestValue_TrailingGarbageExcluded(t *testing.T) {
	raw, err := Value(`[1, 2, 3] and some trailing commentary`)
	require.NoError(t, err)
	assert.Equal(t, `[1, 2, 3]`, string(raw))
}

func TestValue_RecoversFromInvalidFirstCandidate(t *testing.T) {
	// The first {...} is not valid JSON; the later array is.
	input := `{not json at all} but later we get ["a", "b"]`
	raw, err := Value(input)
	require.NoError(t, err)
	assert.JSONEq(t, `["a", "b"]`, string(raw))
}

func TestValue_EmptyInput(t *testing.T) {
	_, err := Value("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValue_NoValidJSONAnywhere(t *testing.T) {
	_, err := Value("brackets { everywhere [ but nothing } parses ]")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValue_ProseOnly(t *testing.T) {
	_, err := Value("The model produced only an apology and no data.")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValue_NestedObjectInsideFence(t *testing.T) {
	input := "```\n{\"ideas\": [{\"rank\": 1, \"title\": \"X\"}]}\n```"
	raw, err := Value(input)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ideas": [{"rank": 1, "title": "X"}]}`, string(raw))
}

func TestArray_SkipsLeadingObject(t *testing.T) {
	input := `{"meta": true} [10, 20]`
	raw, err := Array(input)
	require.NoError(t, err)
	assert.Equal(t, `[10, 20]`, string(raw))
}

func TestObject_SkipsLeadingArray(t *testing.T) {
	input := `[1] {"k": "v"}`
	raw, err := Object(input)
	require.NoError(t, err)
	assert.JSONEq(t, `{"k": "v"}`, string(raw))
}

func TestInto_UnmarshalsExtractedValue(t *testing.T) {
	var out struct {
		Rank int `json:"rank"`
	}
	err := Into("prefix {\"rank\": 3} suffix", &out)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rank)
}

func TestInto_NotFound(t *testing.T) {
	var out map[string]any
	err := Into("nothing here", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsArray(t *testing.T) {
	assert.True(t, IsArray(json.RawMessage("  [1]")))
	assert.False(t, IsArray(json.RawMessage(`{"a":1}`)))
}
