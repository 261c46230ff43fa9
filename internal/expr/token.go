package expr

import "strings"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	LParen Kind = iota
	RParen
	Comma
	Literal
	Operator
	Bareword
)

// String returns a short name for the kind, used in test failure output.
func (k Kind) String() string {
	switch k {
	case LParen:
		return "lparen"
	case RParen:
		return "rparen"
	case Comma:
		return "comma"
	case Literal:
		return "literal"
	case Operator:
		return "operator"
	case Bareword:
		return "bareword"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of an expression.
// Text holds the token exactly as written; literals keep their quotes.
type Token struct {
	Kind Kind
	Text string
}

// quoted builds a single-quoted literal token holding value.
func quoted(value string) Token {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(value); i++ {
		if value[i] == '\'' || value[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(value[i])
	}
	b.WriteByte('\'')
	return Token{Kind: Literal, Text: b.String()}
}

// boolLiteral returns the 'true' or 'false' literal.
func boolLiteral(v bool) Token {
	if v {
		return Token{Kind: Literal, Text: "'true'"}
	}
	return Token{Kind: Literal, Text: "'false'"}
}

// IsLiteral reports whether the token is a quoted string literal.
func (t Token) IsLiteral() bool {
	return t.Kind == Literal
}

// Value returns the contents of a literal without its quotes.
// A backslash before the quote character or another backslash is removed;
// any other backslash is kept so Windows paths survive unchanged.
// For non-literal tokens Value returns Text.
func (t Token) Value() string {
	if t.Kind != Literal || t.Text == "" {
		return t.Text
	}
	quote := t.Text[0]
	var b strings.Builder
	for i := 1; i < len(t.Text); i++ {
		c := t.Text[i]
		if c == '\\' && i+1 < len(t.Text) {
			next := t.Text[i+1]
			if next == quote || next == '\\' {
				b.WriteByte(next)
				i++
				continue
			}
		}
		if c == quote {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closed reports whether a literal ends with its own unescaped closing quote.
func (t Token) closed() bool {
	if t.Kind != Literal || len(t.Text) < 2 {
		return false
	}
	return literalEnd(t.Text, 0) == len(t.Text)
}

// Tokenize splits an expression into tokens. It never fails: an unterminated
// string literal runs to the end of the input.
func Tokenize(s string) []Token {
	var tokens []Token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '(':
			tokens = append(tokens, Token{Kind: LParen, Text: "("})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: RParen, Text: ")"})
			i++
		case c == ',':
			tokens = append(tokens, Token{Kind: Comma, Text: ","})
			i++
		case c == '\'' || c == '"':
			end := literalEnd(s, i)
			tokens = append(tokens, Token{Kind: Literal, Text: s[i:end]})
			i = end
		case strings.HasPrefix(s[i:], "&&") || strings.HasPrefix(s[i:], "||"):
			tokens = append(tokens, Token{Kind: Operator, Text: s[i : i+2]})
			i += 2
		case isSpace(c):
			i++
		default:
			start := i
			for i < len(s) && !isSpace(s[i]) && !isStructural(s[i]) {
				i++
			}
			tokens = append(tokens, word(s[start:i]))
		}
	}
	return tokens
}

// literalEnd returns the index just past the literal starting at s[start],
// or len(s) when the literal is never closed.
func literalEnd(s string, start int) int {
	quote := s[start]
	i := start + 1
	for i < len(s) && s[i] != quote {
		if s[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(s) {
		return len(s)
	}
	return i + 1
}

func word(text string) Token {
	switch text {
	case "==", "!=", "&&", "||":
		return Token{Kind: Operator, Text: text}
	}
	return Token{Kind: Bareword, Text: text}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isStructural(c byte) bool {
	return c == '(' || c == ')' || c == ','
}

// joinTokens renders tokens back to source form separated by single spaces.
func joinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
