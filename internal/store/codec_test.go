package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codecRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Price     string    `json:"priceEgp"`
	Active    bool      `json:"isActive"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type codecPatch struct {
	Title *string `json:"title,omitempty"`
	Level *string `json:"level,omitempty"`
}

// CodecBase is exported because reflection cannot read through unexported embedded structs.
type CodecBase struct {
	Level *string `json:"level,omitempty"`
}

type codecEmbedded struct {
	CodecBase
	Extra int `json:"extra"`
}

func TestEncode_Record(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	doc, err := Encode(codecRecord{ID: "x", Title: "AI", Price: "10", CreatedAt: created})
	require.NoError(t, err)

	assert.NotContains(t, doc, "id")
	assert.NotContains(t, doc, "note")
	assert.Equal(t, "AI", doc["title"])
	assert.Equal(t, false, doc["isActive"])
	assert.Equal(t, created, doc["createdAt"])
}

func TestEncode_PatchSkipsNil(t *testing.T) {
	title := "New"
	doc, err := Encode(&codecPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, Document{"title": "New"}, doc)
}

func TestEncode_PatchKeepsExplicitZero(t *testing.T) {
	empty := ""
	doc, err := Encode(codecPatch{Title: &empty})
	require.NoError(t, err)

	assert.Equal(t, Document{"title": ""}, doc)
}

func TestEncode_FlattensEmbedded(t *testing.T) {
	level := "Advanced"
	doc, err := Encode(codecEmbedded{CodecBase: CodecBase{Level: &level}, Extra: 2})
	require.NoError(t, err)

	assert.Equal(t, Document{"level": "Advanced", "extra": 2}, doc)
}

func TestEncode_RejectsNonStruct(t *testing.T) {
	_, err := Encode("text")
	assert.Error(t, err)

	var p *codecPatch
	_, err = Encode(p)
	assert.Error(t, err)
}

func TestDecode_FromStoredText(t *testing.T) {
	doc := Document{
		"id":        "abc",
		"title":     "AI",
		"isActive":  true,
		"createdAt": "2025-01-02T03:04:05.000000000Z",
	}

	var rec codecRecord
	require.NoError(t, Decode(doc, &rec))

	assert.Equal(t, "abc", rec.ID)
	assert.True(t, rec.Active)
	assert.True(t, rec.CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestMerge(t *testing.T) {
	base := Document{"a": 1, "b": 2}
	out := Merge(base, Document{"b": 3}, Document{"c": 4})

	assert.Equal(t, Document{"a": 1, "b": 3, "c": 4}, out)
	assert.Equal(t, 2, base["b"], "base must not be modified")
}
