package posmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selection-codec/internal/diff"
	"selection-codec/internal/selection"
)

func TestMapReplacement(t *testing.T) {
	m := Between("import module_name\n", "import module\n")
	require.Equal(t, []diff.Edit{{OldStart: 7, OldEnd: 18, New: "module"}}, m.Edits())

	tests := []struct {
		name string
		pos  int
		want int
	}{
		{name: "before edit", pos: 3, want: 3},
		{name: "edit start", pos: 7, want: 7},
		{name: "inside edit", pos: 12, want: 9},
		{name: "edit end", pos: 18, want: 13},
		{name: "after edit", pos: 19, want: 14},
		{name: "negative clamps", pos: -4, want: 0},
		{name: "past end clamps", pos: 99, want: 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ToNew(tt.pos))
		})
	}

	assert.Equal(t, 7, m.ToOld(7))
	assert.Equal(t, 12, m.ToOld(10))
	assert.Equal(t, 18, m.ToOld(13))
	assert.Equal(t, 19, m.ToOld(14))
}

func TestMapPureInsertion(t *testing.T) {
	m := New([]diff.Edit{{OldStart: 3, OldEnd: 3, New: "XY"}}, len("abcdef"))

	assert.Equal(t, 3, m.ToNew(3))
	assert.Equal(t, 6, m.ToNew(4))
	assert.Equal(t, 8, m.ToNew(6))

	assert.Equal(t, 3, m.ToOld(3))
	assert.Equal(t, 3, m.ToOld(4))
	assert.Equal(t, 3, m.ToOld(5))
	assert.Equal(t, 4, m.ToOld(6))
}

func TestMapDeletion(t *testing.T) {
	m := New([]diff.Edit{{OldStart: 1, OldEnd: 4, New: ""}}, len("abcdef"))
	assert.Equal(t, 1, m.ToNew(2))
	assert.Equal(t, 1, m.ToNew(4))
	assert.Equal(t, 2, m.ToNew(5))
	assert.Equal(t, 1, m.ToOld(1))
	assert.Equal(t, 5, m.ToOld(2))
}

func TestMapIdentity(t *testing.T) {
	m := Between("same text", "same text")
	assert.Empty(t, m.Edits())
	for p := 0; p <= len("same text"); p++ {
		assert.Equal(t, p, m.ToNew(p))
		assert.Equal(t, p, m.ToOld(p))
	}
}

func TestMapIsMonotonic(t *testing.T) {
	pairs := [][2]string{
		{"let x = 1;\nlet y = 2;\n", "let x = 100;\nlet renamed = 2;\n// tail\n"},
		{"fn a() {}\nfn b() {}\n", "fn b() {}\n"},
		{"", "inserted"},
		{"héllo wörld", "hello world, again"},
	}
	for _, p := range pairs {
		m := Between(p[0], p[1])
		for _, dir := range []bool{true, false} {
			src := p[0]
			if !dir {
				src = p[1]
			}
			prev := -1
			for pos := 0; pos <= len(src); pos++ {
				got := m.Map(pos, dir)
				require.GreaterOrEqual(t, got, prev, "%q -> %q pos %d toNew=%v", p[0], p[1], pos, dir)
				prev = got
			}
		}
	}
}

func TestMapSelection(t *testing.T) {
	m := Between("import old_module\n", "import module\n")
	got := m.MapSelection(selection.Selection{Start: 7, End: 17}, true)
	assert.Equal(t, selection.Selection{Start: 7, End: 13}, got)
	assert.Equal(t, []selection.Selection{got, selection.Cursor(14)}, m.MapSelections([]selection.Selection{{Start: 7, End: 17}, selection.Cursor(18)}))
}
