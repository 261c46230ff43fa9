package expr

import "strings"

const (
	openDelim  = "${{"
	closeDelim = "}}"
)

// Evaluate tokenizes and reduces a single expression (the text between
// `${{` and `}}`). When the expression reduces to one literal, Evaluate
// returns its unquoted value and true. Otherwise it returns the remaining
// tokens wrapped in `${{ }}` and false.
func Evaluate(expression string, ctx Context) (string, bool) {
	tokens := Tokenize(expression)
	substitute(tokens, ctx)
	tokens = reduce(tokens, ctx)
	if len(tokens) == 1 && tokens[0].IsLiteral() {
		return tokens[0].Value(), true
	}
	return openDelim + " " + joinTokens(tokens) + " " + closeDelim, false
}

// Resolve replaces every `${{ ... }}` span in template with its value under
// ctx. Spans that cannot be fully resolved are written back in delimiters.
// The result is trimmed, and if it is a single quoted literal its quotes are
// removed.
func Resolve(template string, ctx Context) string {
	var b strings.Builder
	rest := template
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := closingDelim(rest, start+len(openDelim))
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		inner := strings.TrimSpace(rest[start+len(openDelim) : end])
		out, _ := Evaluate(inner, ctx)
		b.WriteString(out)
		rest = rest[end+len(closeDelim):]
	}

	out := strings.TrimSpace(b.String())
	if tokens := Tokenize(out); len(tokens) == 1 && tokens[0].closed() && tokens[0].Text == out {
		return strings.TrimSpace(tokens[0].Value())
	}
	return out
}

// IsResolved reports whether s still contains an expression span.
func IsResolved(s string) bool {
	return !strings.Contains(s, openDelim)
}

// Condition evaluates a step `if:` field. The field may omit the `${{ }}`
// delimiters, as workflow conditions are always expressions. The second
// result is false when the condition could not be fully resolved.
func Condition(cond string, ctx Context) (value, resolved bool) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true, true
	}
	if !strings.Contains(cond, openDelim) {
		cond = openDelim + " " + cond + " " + closeDelim
	}
	out := Resolve(cond, ctx)
	if !IsResolved(out) {
		return false, false
	}
	return Truthy(out), true
}

// closingDelim returns the index of the `}}` that ends the span whose body
// starts at from, skipping over quoted literals. It returns -1 when the span
// is never closed.
func closingDelim(s string, from int) int {
	for i := from; i < len(s); {
		switch s[i] {
		case '\'', '"':
			i = literalEnd(s, i)
		case '}':
			if strings.HasPrefix(s[i:], closeDelim) {
				return i
			}
			i++
		default:
			i++
		}
	}
	return -1
}
