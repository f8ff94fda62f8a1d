package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetPath_Golden(t *testing.T) {
	tests := []struct {
		in       string
		segments []string
		setter   bool
		canon    string
	}{
		{in: "Foo", segments: []string{"Foo"}, canon: "Foo"},
		{in: "Foo.bar", segments: []string{"Foo", "bar"}, canon: "Foo.bar"},
		{in: "Foo.prototype._contextMenu", segments: []string{"Foo", "prototype", "_contextMenu"}, canon: "Foo.prototype._contextMenu"},
		{in: `Foo["odd key"].x`, segments: []string{"Foo", "odd key", "x"}, canon: `Foo["odd key"].x`},
		{in: `Foo['a.b']`, segments: []string{"Foo", "a.b"}, canon: `Foo["a.b"]`},
		{in: `Foo["say \"hi\""]`, segments: []string{"Foo", `say "hi"`}, canon: `Foo["say \"hi\""]`},
		{in: `Foo.a\.b`, segments: []string{"Foo", "a.b"}, canon: `Foo["a.b"]`},
		{in: `Foo["bar"]`, segments: []string{"Foo", "bar"}, canon: "Foo.bar"},
		{in: "Foo.value#set", segments: []string{"Foo", "value"}, setter: true, canon: "Foo.value#set"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			path, err := ParseTargetPath(tt.in)
			require.NoError(t, err)

			assert.Equal(t, tt.segments, path.Segments)
			assert.Equal(t, tt.setter, path.Setter)
			assert.Equal(t, tt.canon, path.String())
		})
	}
}

func TestParseTargetPath_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"#set",
		".Foo",
		"Foo.",
		"Foo..bar",
		"Foo[bar]",
		`Foo["bar"`,
		`Foo["bar"x`,
		`Foo[""]`,
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTargetPath(in)
			require.ErrorIs(t, err, ErrTargetNotFound)
			assert.Contains(t, err.Error(), "malformed path")
		})
	}
}
