package cliq

import (
	"regexp"
	"strings"
)

// TokenKind discriminates the lexical parts produced by Tokenize.
type TokenKind int

const (
	// TokenTerm is a bare alphanumeric word. It stays ambiguous between
	// "sub-command name" and "positional value" until resolved against the
	// command tree.
	TokenTerm TokenKind = iota
	// TokenArg is a value that can never be a command name.
	TokenArg
	// TokenOption is a long flag (--key, --key=value, --no-key).
	TokenOption
	// TokenAlias is a short flag (-k, -k=value). The key meaning is resolved
	// later against the command's alias map.
	TokenAlias
)

// String returns the kind name for debugging and test output.
func (k TokenKind) String() string {
	switch k {
	case TokenTerm:
		return "term"
	case TokenArg:
		return "arg"
	case TokenOption:
		return "option"
	case TokenAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Token is a single lexical part of a command line. Tokens are created fresh
// per Tokenize call and consumed immediately by the resolver and binder.
type Token struct {
	Kind     TokenKind
	Raw      string
	Key      string   // option/alias key, without dashes
	Value    string   // scalar value (terms and args carry their text here)
	List     []string // value parsed from a [a,b,c] bracket literal
	HasValue bool
	IsList   bool
	Negated  bool // true for --no-key
}

var (
	termPattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	negativeNumber  = regexp.MustCompile(`^-\d+(\.\d+)?$`)
	quoteCharacters = "\"'`"
)

// Tokenize converts a raw command line into an ordered token sequence.
// Splitting is whitespace based but quote-aware (", ', and backtick, tracked
// one deep) and bracket-aware (spaces inside a top-level [...] span are kept
// verbatim for later list parsing). An empty input yields no tokens.
//
// A bare word is a Term only while no Arg has been seen: once a definite
// value appears, every later bare word is a positional value. This is a
// deliberate property of the grammar, not an accident; see the resolver
// tests for the consequences.
func Tokenize(input string) []Token {
	fields := splitFields(input)
	tokens := make([]Token, 0, len(fields))

	allowTerm := true
	pending := -1 // index of an option/alias token still waiting for a value

	for _, field := range fields {
		wasPending := pending
		pending = -1 // cleared unconditionally; only the very next field may fill it

		switch {
		case strings.HasPrefix(field, "--no-") && len(field) > len("--no-"):
			tokens = append(tokens, Token{
				Kind:    TokenOption,
				Raw:     field,
				Key:     strings.TrimPrefix(field, "--no-"),
				Negated: true,
			})

		case strings.HasPrefix(field, "--"):
			key, value, bound := strings.Cut(field[2:], "=")
			tok := Token{Kind: TokenOption, Raw: field, Key: key}
			if bound {
				setTokenValue(&tok, value)
			} else {
				pending = len(tokens)
			}
			tokens = append(tokens, tok)

		case len(field) > 1 && field[0] == '-' && !negativeNumber.MatchString(field):
			key, value, bound := strings.Cut(field[1:], "=")
			tok := Token{Kind: TokenAlias, Raw: field, Key: key}
			if bound {
				setTokenValue(&tok, value)
			} else {
				pending = len(tokens)
			}
			tokens = append(tokens, tok)

		case wasPending >= 0:
			// The previous flag had no = value; this field becomes its value.
			setTokenValue(&tokens[wasPending], field)

		case negativeNumber.MatchString(field):
			// A bare -5 shares its shape with an alias and with a term; it is
			// always a value.
			tokens = append(tokens, Token{Kind: TokenArg, Raw: field, Value: field})
			allowTerm = false

		case allowTerm && termPattern.MatchString(field):
			tokens = append(tokens, Token{Kind: TokenTerm, Raw: field, Value: field})

		default:
			tokens = append(tokens, Token{Kind: TokenArg, Raw: field, Value: stripQuotes(field)})
			allowTerm = false
		}
	}

	return tokens
}

// setTokenValue shapes a raw value onto a token: bracket literals become
// string lists, everything else is a scalar with any trailing quoted literal
// stripped.
func setTokenValue(tok *Token, raw string) {
	tok.HasValue = true
	if len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']' {
		tok.IsList = true
		tok.List = splitBracketList(raw[1 : len(raw)-1])
		return
	}
	tok.Value = stripQuotes(raw)
}

// splitFields splits on whitespace except inside quotes or a [...] span.
// Quote and bracket characters are kept verbatim; stripQuotes removes them
// later so classification can still see the original shape of the field.
func splitFields(input string) []string {
	var fields []string
	var buf strings.Builder
	var quote byte
	depth := 0

	flush := func() {
		if buf.Len() > 0 {
			fields = append(fields, buf.String())
			buf.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(input) && (input[i+1] == quote || input[i+1] == '\\') {
				// Escaped quote or backslash: copy both, quote stays open.
				buf.WriteByte(c)
				i++
				buf.WriteByte(input[i])
				continue
			}
			buf.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case strings.IndexByte(quoteCharacters, c) >= 0:
			quote = c
			buf.WriteByte(c)
		case c == '[':
			depth++
			buf.WriteByte(c)
		case c == ']':
			// No semantic nesting: just track depth so interior spaces survive.
			if depth > 0 {
				depth--
			}
			buf.WriteByte(c)
		case depth == 0 && isSpace(c):
			flush()
		default:
			buf.WriteByte(c)
		}
	}
	flush()
	return fields
}

// splitBracketList splits the interior of a bracket literal on commas,
// quote-aware, trimming each item. An empty interior yields an empty,
// non-nil slice so [] stays distinguishable from an absent value.
func splitBracketList(inner string) []string {
	items := []string{}
	if strings.TrimSpace(inner) == "" {
		return items
	}

	var buf strings.Builder
	var quote byte
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(inner) && (inner[i+1] == quote || inner[i+1] == '\\') {
				buf.WriteByte(c)
				i++
				buf.WriteByte(inner[i])
				continue
			}
			buf.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case strings.IndexByte(quoteCharacters, c) >= 0:
			quote = c
			buf.WriteByte(c)
		case c == ',':
			items = append(items, stripQuotes(strings.TrimSpace(buf.String())))
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}
	items = append(items, stripQuotes(strings.TrimSpace(buf.String())))
	return items
}

// stripQuotes removes a trailing quoted literal from a value: if the value
// ends with a quote character and an earlier matching quote exists, both are
// dropped and escapes inside are unescaped. Values without a trailing quote
// are returned unchanged.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[len(s)-1]
	if strings.IndexByte(quoteCharacters, q) < 0 {
		return s
	}
	open := strings.IndexByte(s[:len(s)-1], q)
	if open < 0 {
		return s
	}

	inner := s[open+1 : len(s)-1]
	var buf strings.Builder
	buf.WriteString(s[:open])
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) && (inner[i+1] == q || inner[i+1] == '\\') {
			i++
		}
		buf.WriteByte(inner[i])
	}
	return buf.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// terms extracts every Term token in order; the resolver walks these. Terms
// left unconsumed by resolution are pushed back onto the positional list,
// ahead of the Arg values.
func terms(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == TokenTerm {
			out = append(out, tok.Value)
		}
	}
	return out
}

// argValues extracts every Arg token value in order.
func argValues(tokens []Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Kind == TokenArg {
			out = append(out, tok.Value)
		}
	}
	return out
}
