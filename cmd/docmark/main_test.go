package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/docmark-go"
)

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("12:3")
	require.NoError(t, err)
	assert.Equal(t, docmark.Point{Node: 12, Offset: 3}, p)

	for _, bad := range []string{"", "12", "a:1", "1:b"} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "abc", firstLine("abc", 10))
	assert.Equal(t, "abc …", firstLine("abc\ndef", 10))
	assert.Equal(t, "ab…", firstLine("abcdef", 2))
}

func TestPrintBlocks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printBlocks(&buf, docmark.Segment("# Title\n\ntext\nmore")))
	out := buf.String()
	assert.Contains(t, out, "heading")
	assert.Contains(t, out, "paragraph")
	assert.Contains(t, out, "text …")
}

func TestEncode(t *testing.T) {
	blocks := docmark.Segment("# Title")

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, "yaml", blocks))
	assert.Contains(t, buf.String(), "type: heading")
	assert.Contains(t, buf.String(), "# Title")

	buf.Reset()
	require.NoError(t, encode(&buf, "json", blocks))
	assert.Contains(t, buf.String(), `"source": "# Title"`)
}
