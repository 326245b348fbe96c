package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleCSV(t *testing.T) {
	raw := "Title, Content ,Category,TAGS\r\nFirst post, Body text ,News,a;b\r\n,skipped,x,y\n"
	records := ParseSimpleCSV(raw)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "First post", rec.Get("title"))
	assert.Equal(t, "Body text", rec.Get("content"))
	assert.Equal(t, "News", rec.Get("category"))
	assert.Equal(t, "a;b", rec.Get("tags"))
	assert.Equal(t, "", rec.Get("excerpt"))
}

func TestParseSimpleCSVShortRow(t *testing.T) {
	records := ParseSimpleCSV("title,content,excerpt\nOnly title")
	require.Len(t, records, 1)
	assert.Equal(t, "Only title", records[0].Get("title"))
	assert.Equal(t, "", records[0].Get("content"))
	v, ok := records[0]["excerpt"]
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestParseSimpleCSVEmpty(t *testing.T) {
	assert.Nil(t, ParseSimpleCSV("   \n  "))
	assert.Empty(t, ParseSimpleCSV("title,content"))
}
