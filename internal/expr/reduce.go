package expr

import (
	"strconv"
	"strings"
)

// rule tries one rewrite on tokens. It returns the rewritten list and true
// when it matched, or the input and false otherwise.
type rule func(tokens []Token, ctx Context) ([]Token, bool)

// rules are tried in order; the first one that matches wins and the scan
// starts over from the top.
var rules = []rule{
	reduceGroup,
	binary("&&", func(l, r Token) Token {
		if falsy(l) {
			return quoted("")
		}
		return r
	}),
	binary("||", func(l, r Token) Token {
		if falsy(l) {
			return r
		}
		return l
	}),
	binary("==", func(l, r Token) Token { return boolLiteral(l.Value() == r.Value()) }),
	binary("!=", func(l, r Token) Token { return boolLiteral(l.Value() != r.Value()) }),
	reduceStartsWith,
	reduceJoin,
	reduceFormat,
}

// reduce rewrites tokens until a single token remains or no rule matches.
// Every rule removes at least one token, so the loop terminates.
func reduce(tokens []Token, ctx Context) []Token {
	for len(tokens) > 1 {
		applied := false
		for _, r := range rules {
			var ok bool
			if tokens, ok = r(tokens, ctx); ok {
				applied = true
				break
			}
		}
		if !applied {
			break
		}
	}
	return tokens
}

// splice replaces tokens[from:to] with tok.
func splice(tokens []Token, from, to int, tok Token) []Token {
	out := make([]Token, 0, len(tokens)-(to-from)+1)
	out = append(out, tokens[:from]...)
	out = append(out, tok)
	return append(out, tokens[to:]...)
}

func falsy(t Token) bool {
	return !Truthy(t.Value())
}

// Truthy reports whether a resolved value counts as true: anything except
// the empty string and "false".
func Truthy(s string) bool {
	return s != "" && s != "false"
}

// reduceGroup collapses a parenthesized literal. Parentheses that open a
// function call's argument list are left to the function rules.
func reduceGroup(tokens []Token, _ Context) ([]Token, bool) {
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Kind != LParen || !tokens[i+1].IsLiteral() || tokens[i+2].Kind != RParen {
			continue
		}
		if i > 0 && tokens[i-1].Kind == Bareword {
			continue
		}
		return splice(tokens, i, i+3, tokens[i+1]), true
	}
	return tokens, false
}

// binary builds a rule for the infix operator op. Operators have no
// precedence of their own: the order of rules decides, so "a == b && c"
// reduces b && c first.
func binary(op string, eval func(l, r Token) Token) rule {
	return func(tokens []Token, _ Context) ([]Token, bool) {
		for i := 1; i+1 < len(tokens); i++ {
			if tokens[i].Kind != Operator || tokens[i].Text != op {
				continue
			}
			if !tokens[i-1].IsLiteral() || !tokens[i+1].IsLiteral() {
				continue
			}
			return splice(tokens, i-1, i+2, eval(tokens[i-1], tokens[i+1])), true
		}
		return tokens, false
	}
}

// call matches name ( arg , arg ... ) starting at i and returns the argument
// tokens and the index just past the closing parenthesis. Every argument
// must be a single token.
func call(tokens []Token, i int, name string) (args []Token, end int, ok bool) {
	if tokens[i].Kind != Bareword || !strings.EqualFold(tokens[i].Text, name) {
		return nil, 0, false
	}
	j := i + 1
	if j >= len(tokens) || tokens[j].Kind != LParen {
		return nil, 0, false
	}
	j++
	for j < len(tokens) {
		switch tokens[j].Kind {
		case LParen, RParen, Comma, Operator:
			return nil, 0, false
		}
		args = append(args, tokens[j])
		j++
		if j >= len(tokens) {
			return nil, 0, false
		}
		switch tokens[j].Kind {
		case RParen:
			return args, j + 1, true
		case Comma:
			j++
		default:
			return nil, 0, false
		}
	}
	return nil, 0, false
}

func allLiteral(tokens []Token) bool {
	for _, t := range tokens {
		if !t.IsLiteral() {
			return false
		}
	}
	return true
}

func reduceStartsWith(tokens []Token, _ Context) ([]Token, bool) {
	for i := range tokens {
		for _, name := range []string{"startsWith", "!startsWith"} {
			args, end, ok := call(tokens, i, name)
			if !ok || len(args) != 2 || !allLiteral(args) {
				continue
			}
			match := strings.HasPrefix(args[0].Value(), args[1].Value())
			if name[0] == '!' {
				match = !match
			}
			return splice(tokens, i, end, boolLiteral(match)), true
		}
	}
	return tokens, false
}

// reduceJoin handles join(matrix.<name>[, sep]). The sequence is read from
// the context directly since substitution leaves sequence references as
// barewords. A scalar argument joins to itself.
func reduceJoin(tokens []Token, ctx Context) ([]Token, bool) {
	for i := range tokens {
		args, end, ok := call(tokens, i, "join")
		if !ok || len(args) < 1 || len(args) > 2 {
			continue
		}
		sep := ","
		if len(args) == 2 {
			if !args[1].IsLiteral() {
				continue
			}
			sep = args[1].Value()
		}
		src := args[0]
		if src.IsLiteral() {
			return splice(tokens, i, end, src), true
		}
		name, isVar := strings.CutPrefix(src.Text, varPrefix)
		if !isVar {
			continue
		}
		v, found := ctx.Lookup(name)
		if !found {
			return splice(tokens, i, end, quoted("")), true
		}
		if v.Kind() != ListKind {
			return splice(tokens, i, end, quoted(v.String())), true
		}
		return splice(tokens, i, end, quoted(strings.Join(v.list, sep))), true
	}
	return tokens, false
}

func reduceFormat(tokens []Token, _ Context) ([]Token, bool) {
	for i := range tokens {
		args, end, ok := call(tokens, i, "format")
		if !ok || len(args) == 0 || !allLiteral(args) {
			continue
		}
		values := make([]string, len(args)-1)
		for j, a := range args[1:] {
			values[j] = a.Value()
		}
		return splice(tokens, i, end, quoted(formatString(args[0].Value(), values))), true
	}
	return tokens, false
}

// formatString replaces {N} with values[N]. "{{" and "}}" produce literal
// braces; placeholders without a matching value are kept as written.
func formatString(format string, values []string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			closeAt := strings.IndexByte(format[i:], '}')
			if closeAt < 0 {
				b.WriteByte(c)
				continue
			}
			n, err := strconv.Atoi(format[i+1 : i+closeAt])
			if err != nil || n < 0 || n >= len(values) {
				b.WriteByte(c)
				continue
			}
			b.WriteString(values[n])
			i += closeAt
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
