package matcher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}

func TestResolvePointer_Root(t *testing.T) {
	doc := decode(t, `{"a":1}`)
	v, ok := ResolvePointer(doc, "/")
	assert.True(t, ok)
	assert.Equal(t, doc, v)

	v, ok = ResolvePointer(doc, "")
	assert.True(t, ok)
	assert.Equal(t, doc, v)
}

func TestResolvePointer_ObjectPath(t *testing.T) {
	doc := decode(t, `{"decision":{"block":true,"reason":"leak"}}`)
	v, ok := ResolvePointer(doc, "/decision/block")
	assert.True(t, ok)
	assert.Equal(t, true, v)
}

func TestResolvePointer_ArrayIndex(t *testing.T) {
	doc := decode(t, `{"items":["a","b","c"]}`)
	v, ok := ResolvePointer(doc, "/items/1")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestResolvePointer_EscapedTokens(t *testing.T) {
	doc := decode(t, `{"a/b":{"c~d":1}}`)
	v, ok := ResolvePointer(doc, "/a~1b/c~0d")
	assert.True(t, ok)
	assert.Equal(t, float64(1), v)
}

func TestResolvePointer_MissingKey(t *testing.T) {
	doc := decode(t, `{"a":1}`)
	_, ok := ResolvePointer(doc, "/missing")
	assert.False(t, ok)
}

func TestResolvePointer_OutOfRangeIndex(t *testing.T) {
	doc := decode(t, `{"items":["a"]}`)
	_, ok := ResolvePointer(doc, "/items/5")
	assert.False(t, ok)
}

func TestResolvePointer_LeadingZeroIndexInvalid(t *testing.T) {
	doc := decode(t, `{"items":["a","b"]}`)
	_, ok := ResolvePointer(doc, "/items/01")
	assert.False(t, ok)
}

func TestResolvePointer_NotAnObjectOrArray(t *testing.T) {
	doc := decode(t, `{"a":1}`)
	_, ok := ResolvePointer(doc, "/a/b")
	assert.False(t, ok)
}

func TestResolvePointer_MalformedPointer(t *testing.T) {
	doc := decode(t, `{"a":1}`)
	_, ok := ResolvePointer(doc, "a")
	assert.False(t, ok)
}
