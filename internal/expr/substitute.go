package expr

import "strings"

const varPrefix = "matrix."

// substitute replaces matrix variable references with literals in place.
// Sequence values are left as barewords; only join can consume them.
func substitute(tokens []Token, ctx Context) {
	for i, tok := range tokens {
		if tok.Kind != Bareword {
			continue
		}
		if name, ok := strings.CutPrefix(tok.Text, "!"+varPrefix); ok {
			tokens[i] = negated(ctx, name)
			continue
		}
		name, ok := strings.CutPrefix(tok.Text, varPrefix)
		if !ok {
			continue
		}
		v, found := ctx.Lookup(name)
		switch {
		case !found:
			tokens[i] = quoted("")
		case v.Kind() == BoolKind:
			tokens[i] = boolLiteral(v.b)
		case v.Kind() == ListKind:
			// stays a bareword
		default:
			tokens[i] = quoted(v.String())
		}
	}
}

// negated resolves !matrix.<name>. Strings negate to "is empty", sequences
// to "has no elements", and a missing variable is treated as false.
func negated(ctx Context, name string) Token {
	v, found := ctx.Lookup(name)
	if !found {
		return boolLiteral(true)
	}
	switch v.Kind() {
	case BoolKind:
		return boolLiteral(!v.b)
	case ListKind:
		return boolLiteral(len(v.list) == 0)
	default:
		return boolLiteral(v.str == "")
	}
}
