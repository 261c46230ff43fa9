package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	tests := map[string]struct {
		value     Value
		wantKind  ValueKind
		wantStr   string
		wantItems []string
	}{
		"string": {value: String("gcc"), wantKind: StringKind, wantStr: "gcc"},
		"true":   {value: Bool(true), wantKind: BoolKind, wantStr: "true"},
		"false":  {value: Bool(false), wantKind: BoolKind, wantStr: "false"},
		"list": {
			value:     List("-Wall", "-Werror"),
			wantKind:  ListKind,
			wantStr:   "-Wall, -Werror",
			wantItems: []string{"-Wall", "-Werror"},
		},
		"empty list": {value: List(), wantKind: ListKind, wantStr: "", wantItems: []string{}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.value.Kind())
			assert.Equal(t, tt.wantStr, tt.value.String())
			if tt.wantKind == ListKind {
				assert.ElementsMatch(t, tt.wantItems, tt.value.Items())
			} else {
				assert.Nil(t, tt.value.Items())
			}
		})
	}
}

func TestValue_ItemsIsCopy(t *testing.T) {
	v := List("a", "b")
	items := v.Items()
	items[0] = "z"
	assert.Equal(t, []string{"a", "b"}, v.Items())
}

func TestContext_Lookup(t *testing.T) {
	var nilCtx Context
	_, ok := nilCtx.Lookup("x")
	assert.False(t, ok)

	ctx := Context{"x": String("1")}
	v, ok := ctx.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "1", v.String())
}

func TestSubstitute(t *testing.T) {
	ctx := Context{
		"compiler": String("gcc"),
		"empty":    String(""),
		"coverage": Bool(true),
		"flags":    List("-O2"),
		"none":     List(),
	}

	tests := map[string]struct {
		text string
		want Token
	}{
		"string":            {text: "matrix.compiler", want: quoted("gcc")},
		"bool":              {text: "matrix.coverage", want: boolLiteral(true)},
		"missing":           {text: "matrix.missing", want: quoted("")},
		"sequence":          {text: "matrix.flags", want: Token{Kind: Bareword, Text: "matrix.flags"}},
		"other bareword":    {text: "github.ref", want: Token{Kind: Bareword, Text: "github.ref"}},
		"negated string":    {text: "!matrix.compiler", want: boolLiteral(false)},
		"negated empty":     {text: "!matrix.empty", want: boolLiteral(true)},
		"negated bool":      {text: "!matrix.coverage", want: boolLiteral(false)},
		"negated sequence":  {text: "!matrix.flags", want: boolLiteral(false)},
		"negated empty seq": {text: "!matrix.none", want: boolLiteral(true)},
		"negated missing":   {text: "!matrix.missing", want: boolLiteral(true)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tokens := []Token{{Kind: Bareword, Text: tt.text}}
			substitute(tokens, ctx)
			assert.Equal(t, tt.want, tokens[0])
		})
	}
}
