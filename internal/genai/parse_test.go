package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_PlainObject(t *testing.T) {
	var got TagResult
	err := decodeJSON(`{"subject":"torts","topic":"battery","difficulty":2}`, &got)
	require.NoError(t, err)
	assert.Equal(t, "torts", got.Subject)
	assert.Equal(t, "battery", got.Topic)
	assert.Equal(t, 2, got.Difficulty)
}

func TestDecodeJSON_FencedWithLanguageTag(t *testing.T) {
	raw := "```json\n{\"subject\":\"contracts\",\"topic\":\"offer\"}\n```"
	var got TagResult
	require.NoError(t, decodeJSON(raw, &got))
	assert.Equal(t, "offer", got.Topic)
}

func TestDecodeJSON_ProseAroundObject(t *testing.T) {
	raw := "Here is the classification you asked for:\n\n{\"subject\":\"evidence\",\"topic\":\"hearsay\"}\n\nLet me know if you need anything else."
	var got TagResult
	require.NoError(t, decodeJSON(raw, &got))
	assert.Equal(t, "hearsay", got.Topic)
}

func TestDecodeJSON_ArrayWithNestedBraces(t *testing.T) {
	raw := "```\n[{\"front\":\"a {test}\",\"back\":\"b\",\"card_type\":\"rule\"},{\"front\":\"c\",\"back\":\"d\",\"card_type\":\"concept\"}]\n```"
	var got []GeneratedCard
	require.NoError(t, decodeJSON(raw, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a {test}", got[0].Front)
}

func TestDecodeJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"feedback":"watch the \"close} brace\" case","score":55}`
	var got IssueSpotGrade
	require.NoError(t, decodeJSON(raw, &got))
	assert.Equal(t, 55.0, got.Score)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	var got TagResult
	assert.Error(t, decodeJSON("I could not produce JSON for this.", &got))
	assert.Error(t, decodeJSON(`{"subject": `, &got))
}
