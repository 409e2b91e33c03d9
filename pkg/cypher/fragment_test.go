package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	testCases := []struct {
		name      string
		fragments []Fragment
		want      string
	}{
		{name: "empty", fragments: nil, want: ""},
		{name: "single drops its separator", fragments: []Fragment{{Text: "MATCH", Separator: space}}, want: "MATCH"},
		{
			name: "separators between fragments",
			fragments: []Fragment{
				{Text: "MATCH", Separator: space},
				{Text: "(n)", Separator: lineBreak},
				{Text: "RETURN *", Separator: space},
			},
			want: "MATCH (n)\nRETURN *",
		},
		{
			name: "empty separator",
			fragments: []Fragment{
				{Text: "(a)", Separator: lineBreak},
				{Text: "--", Separator: noSeparator},
				{Text: "(b)", Separator: lineBreak},
			},
			want: "(a)\n--(b)",
		},
		{
			name: "empty text keeps its separator",
			fragments: []Fragment{
				{Text: "(a)", Separator: lineBreak},
				{Text: "", Separator: space},
				{Text: "RETURN *", Separator: space},
			},
			want: "(a)\n RETURN *",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Join(tc.fragments))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := newRegistry()
	r.add("a")
	r.add("b")
	r.add("a")

	assert.Equal(t, []string{"a", "b"}, r.list())
	assert.True(t, r.has("a"))
	assert.False(t, r.has("c"))

	r.replace([]string{"c"})
	assert.Equal(t, []string{"c"}, r.list())
	assert.False(t, r.has("a"))
}
