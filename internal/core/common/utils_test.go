package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseJSON_Bare(t *testing.T) {
	result, err := ParseJSON[sample](`{"name": "recursos", "count": 3}`)
	assert.NoError(t, err)
	assert.Equal(t, "recursos", result.Name)
	assert.Equal(t, 3, result.Count)
}

func TestParseJSON_Fenced(t *testing.T) {
	response := "Segue a análise solicitada:\n```json\n{\"name\": \"edital\", \"count\": 7}\n```\nEspero que ajude."
	result, err := ParseJSON[sample](response)
	assert.NoError(t, err)
	assert.Equal(t, "edital", result.Name)
	assert.Equal(t, 7, result.Count)
}

func TestParseJSON_SurroundingProse(t *testing.T) {
	response := `Claro! Aqui está: {"name": "prova"} - qualquer dúvida me avise.`
	result, err := ParseJSON[sample](response)
	assert.NoError(t, err)
	assert.Equal(t, "prova", result.Name)
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[sample]("não foi possível analisar as questões")
	assert.Error(t, err)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON[sample](`{"name": }`)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "curto", Truncate("curto", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
}
