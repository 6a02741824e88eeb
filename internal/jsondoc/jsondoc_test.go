package jsondoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

func TestIsJSON(t *testing.T) {
	assert.True(t, IsJSON(`{"a":1}`))
	assert.True(t, IsJSON(` [1, 2] `))
	assert.True(t, IsJSON(`null`))
	assert.False(t, IsJSON(``))
	assert.False(t, IsJSON(`{a:1}`))
	assert.False(t, IsJSON(`{"a":1`))
}

func TestLooksLikeJSON(t *testing.T) {
	assert.True(t, LooksLikeJSON(`  {`))
	assert.True(t, LooksLikeJSON(`-1`))
	assert.True(t, LooksLikeJSON(`true`))
	assert.False(t, LooksLikeJSON(`hello`))
	assert.False(t, LooksLikeJSON(``))
}

func TestType(t *testing.T) {
	tests := map[string]string{
		`{}`:     "object",
		`[1]`:    "array",
		`"x"`:    "string",
		`1.5`:    "number",
		`false`:  "boolean",
		`null`:   "null",
		`{oops}`: "unknown",
	}
	for input, want := range tests {
		assert.Equal(t, want, Type(input), input)
	}
}

func TestFormat(t *testing.T) {
	got := Format(`{"b":[1,2],"a":1.50}`, 2)
	assert.Equal(t, "{\n  \"b\": [\n    1,\n    2\n  ],\n  \"a\": 1.50\n}", got)
}

func TestFormat_InvalidReturnsOriginal(t *testing.T) {
	in := `{"a": 1,,}`
	assert.Equal(t, in, Format(in, 2))
	assert.Equal(t, in, Minify(in))
}

func TestMinify(t *testing.T) {
	assert.Equal(t, `{"a":[1,2],"b":"x y"}`, Minify("{\n  \"a\": [1, 2],\n  \"b\": \"x y\"\n}"))
}

func TestSortAndFormat(t *testing.T) {
	got, err := SortAndFormat(`{"b":1,"a":{"d":1.50,"c":"<x>"}}`, 2)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": {\n    \"c\": \"<x>\",\n    \"d\": 1.50\n  },\n  \"b\": 1\n}", got)

	_, err = SortAndFormat(`{`, 2)
	assert.Error(t, err)
}

func TestSortAndFormat_RejectsTrailingData(t *testing.T) {
	_, err := SortAndFormat(`{"b":1,"a":2} {"lost":true}`, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after top-level value")

	got, err := SortAndFormat("{\"b\":1,\"a\":2}\n\n", 2)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}", got)
}

func TestDocument_SortInvalidKeepsText(t *testing.T) {
	text := `{"b":1,"a":2} {"lost":true}`
	doc := New(text)
	require.False(t, doc.Valid())

	err := doc.Sort(2)
	var perr *jsontree.ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, text, doc.Text)

	assert.ErrorIs(t, New("  ").Sort(2), ErrEmptyDocument)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Truncate(`{"a":1}`, 20))

	got := Truncate(`{"name": "a very long value that goes on"}`, 20)
	assert.LessOrEqual(t, len(got), 20)
	assert.Contains(t, got, "...")
}

func TestDocument_SetText(t *testing.T) {
	doc := New("")
	assert.True(t, doc.IsEmpty())
	assert.False(t, doc.Valid())
	assert.NoError(t, doc.Err)

	doc.SetText(`{"a":1}`)
	require.True(t, doc.Valid())
	assert.Equal(t, jsontree.KindObject, doc.Value.Kind())

	doc.SetText(`{"a":`)
	assert.False(t, doc.Valid())
	var perr *jsontree.ParseError
	assert.ErrorAs(t, doc.Err, &perr)
	assert.Equal(t, jsontree.KindNull, doc.Value.Kind())
	assert.Equal(t, 3, doc.Version)
}

func TestDocument_Transforms(t *testing.T) {
	doc := New(`{"b":1,"a":2}`)

	require.True(t, doc.Format(2))
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}", doc.Text)

	require.True(t, doc.Minify())
	assert.Equal(t, `{"b":1,"a":2}`, doc.Text)

	require.NoError(t, doc.Sort(2))
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}", doc.Text)

	doc.Clear()
	assert.True(t, doc.IsEmpty())

	doc.SetText(`nope`)
	assert.False(t, doc.Format(2))
	assert.Equal(t, `nope`, doc.Text)
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("YML")
	require.NoError(t, err)
	assert.Equal(t, TargetYAML, target)

	_, err = ParseTarget("xml")
	assert.Error(t, err)
}

func TestConvert_JSONKeepsOrderAndDuplicates(t *testing.T) {
	v, err := jsontree.Parse(`{"z":1,"a":[true,null],"z":"two","e":{}}`)
	require.NoError(t, err)

	got, err := Convert(v, TargetJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"z\": 1,\n  \"a\": [\n    true,\n    null\n  ],\n  \"z\": \"two\",\n  \"e\": {}\n}", got)
}

func TestConvert_YAMLKeepsOrder(t *testing.T) {
	v, err := jsontree.Parse(`{"name":"Bob","id":1,"ok":true,"x":null,"code":"1"}`)
	require.NoError(t, err)

	got, err := Convert(v, TargetYAML)
	require.NoError(t, err)
	assert.Equal(t, "name: Bob\nid: 1\nok: true\nx: null\ncode: \"1\"\n", got)
}

func TestConvert_TOML(t *testing.T) {
	v, err := jsontree.Parse(`{"title":"x","n":1}`)
	require.NoError(t, err)

	got, err := Convert(v, TargetTOML)
	require.NoError(t, err)
	assert.Contains(t, got, `title = "x"`)
	assert.Contains(t, got, `n = 1`)

	arr, err := jsontree.Parse(`[1,2]`)
	require.NoError(t, err)
	_, err = Convert(arr, TargetTOML)
	assert.Error(t, err)
}

func TestConvert_HJSON(t *testing.T) {
	v, err := jsontree.Parse(`{"a":1}`)
	require.NoError(t, err)

	got, err := Convert(v, TargetHJSON)
	require.NoError(t, err)
	assert.Contains(t, got, "a: 1")
}

func TestFromHJSON(t *testing.T) {
	got, err := FromHJSON("{\n  # comment\n  b: hello\n  a: 1\n}")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": \"hello\"\n}", got)
	assert.True(t, IsJSON(got))
}

func TestFromYAML(t *testing.T) {
	got, err := FromYAML("name: Bob\nage: 3\ntags: [a, b]\nnone: ~\n")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Bob\",\n  \"age\": 3,\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ],\n  \"none\": null\n}", got)
}

func TestFromTOML(t *testing.T) {
	got, err := FromTOML("b = 1\na = \"x\"\n")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"x\",\n  \"b\": 1\n}", got)

	_, err = FromTOML("= broken")
	assert.Error(t, err)
}

func TestImport_ByExtension(t *testing.T) {
	got, err := Import("data.yml", []byte("a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", got)

	got, err = Import("data.json", []byte("{not json"))
	require.NoError(t, err)
	assert.Equal(t, "{not json", got, "unknown extensions are loaded verbatim")

	_, err = Import("data.toml", []byte("= broken"))
	assert.Error(t, err)
}
