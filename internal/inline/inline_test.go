package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selection-codec/internal/selection"
)

func sel(a, b int) selection.Selection { return selection.Selection{Start: a, End: b} }

func TestExtractSelection(t *testing.T) {
	got := Extract("for <|selection_start|>item<|user_cursor|> in collection")
	assert.Equal(t, "for item in collection", got.Text)
	assert.Equal(t, []selection.Selection{sel(4, 8)}, got.Selections)
	_, ok := got.Cursor()
	assert.False(t, ok)
}

func TestExtractCases(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		text    string
		sels    []selection.Selection
		cursors []int
		all     []selection.Selection
	}{
		{
			name: "no markers",
			in:   "hello world",
			text: "hello world",
		},
		{
			name:    "cursor only",
			in:      "hello <|user_cursor|>world",
			text:    "hello world",
			cursors: []int{6},
			all:     []selection.Selection{sel(6, 6)},
		},
		{
			name: "backward pair",
			in:   "let x = <|user_cursor|>42<|selection_start|>;",
			text: "let x = 42;",
			sels: []selection.Selection{sel(8, 10)},
			all:  []selection.Selection{sel(8, 10)},
		},
		{
			name:    "orphan selection start is dropped",
			in:      "a<|selection_start|>b<|selection_start|>c<|user_cursor|>d",
			text:    "abcd",
			sels:    []selection.Selection{sel(2, 3)},
			all:     []selection.Selection{sel(2, 3)},
			cursors: nil,
		},
		{
			name:    "multiple selections and a cursor",
			in:      "for <|selection_start|>item<|user_cursor|> in <|selection_start|>data.items()<|user_cursor|> {\n    <|user_cursor|>\n}",
			text:    "for item in data.items() {\n    \n}",
			sels:    []selection.Selection{sel(4, 8), sel(12, 24)},
			cursors: []int{31},
			all:     []selection.Selection{sel(4, 8), sel(12, 24), sel(31, 31)},
		},
		{
			name:    "cursor at end of text",
			in:      "fn main() {}<|user_cursor|>",
			text:    "fn main() {}",
			cursors: []int{12},
			all:     []selection.Selection{sel(12, 12)},
		},
		{
			name:    "multibyte text",
			in:      "héllo <|user_cursor|>wörld",
			text:    "héllo wörld",
			cursors: []int{7},
			all:     []selection.Selection{sel(7, 7)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.in)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.sels, got.Selections)
			assert.Equal(t, tt.cursors, got.Cursors)
			assert.Equal(t, tt.all, got.All())
		})
	}
}

func TestExtractFirstCursorWins(t *testing.T) {
	got := Extract("<|user_cursor|>ab<|user_cursor|>")
	c, ok := got.Cursor()
	require.True(t, ok)
	assert.Equal(t, 0, c)
	assert.Equal(t, []int{0, 2}, got.Cursors)
}

func TestEmbed(t *testing.T) {
	assert.Equal(t, "hello", Embed("hello", nil))
	assert.Equal(t, "for <|selection_start|>item<|user_cursor|> in x", Embed("for item in x", []selection.Selection{sel(4, 8)}))
	assert.Equal(t, "ab<|user_cursor|>", Embed("ab", []selection.Selection{selection.Cursor(99)}))

	// Later insertions at a shared offset land first.
	got := Embed("abc", []selection.Selection{sel(1, 1), selection.Cursor(1)})
	assert.Equal(t, "a<|user_cursor|><|user_cursor|>bc", got)
	got = Embed("abcdef", []selection.Selection{sel(0, 2), sel(2, 4)})
	assert.Equal(t, "<|selection_start|>ab<|selection_start|><|user_cursor|>cd<|user_cursor|>ef", got)
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	text := "fn main() {\n    let x = 42;\n    let y = 99;\n}"
	sels := []selection.Selection{sel(16, 28), selection.Cursor(40)}
	got := Extract(Embed(text, sels))
	assert.Equal(t, text, got.Text)
	assert.Equal(t, sels, got.All())

	empty := Extract(Embed(text, nil))
	assert.Equal(t, text, empty.Text)
	assert.Empty(t, empty.All())
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "let x = 42;", Strip("let x = <|selection_start|>42<|user_cursor|>;"))
	assert.Equal(t, "a <| b", Strip("a <| b"))
	assert.True(t, Contains("x<|user_cursor|>"))
	assert.False(t, Contains("x"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, SelectionStartToken, SelectionStart.Token())
	assert.Equal(t, UserCursorToken, UserCursor.Token())
	assert.Equal(t, "selection_start", SelectionStart.String())
	assert.Equal(t, "user_cursor", UserCursor.String())
}
