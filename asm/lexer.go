package asm

import (
	"strings"
)

// tokenKind is the lexical class of a token.
type tokenKind int

const (
	TOKEN_IDENT  = tokenKind(0) // identifier
	TOKEN_NUMBER = tokenKind(1) // numeric literal
	TOKEN_EXPR   = tokenKind(2) // $( ... ) constant expression
	TOKEN_PUNCT  = tokenKind(3) // operator or separator
)

// token is a lexeme of a single source line.
type token struct {
	Kind tokenKind
	Text string
	Pos  Pos
}

func (tok token) is(kind tokenKind, text string) bool {
	return tok.Kind == kind && tok.Text == text
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentRune(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// lexLine splits one source line into tokens. Columns are 1-based byte
// offsets into line.
func lexLine(line string, lineno int) (tokens []token, err error) {
	pos := func(start, end int) Pos {
		return Pos{LineNo: lineno, ColStart: start + 1, ColEnd: end + 1}
	}

	n := 0
	for n < len(line) {
		ch := line[n]
		start := n

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			n++
			continue
		case strings.HasPrefix(line[n:], "//"):
			return
		case isIdentStart(ch):
			for n < len(line) && isIdentRune(line[n]) {
				n++
			}
			tokens = append(tokens, token{TOKEN_IDENT, line[start:n], pos(start, n)})
		case isDigit(ch):
			// Swallow trailing letters so '0x1F' and '12ab' are one token.
			for n < len(line) && isIdentRune(line[n]) {
				n++
			}
			tokens = append(tokens, token{TOKEN_NUMBER, line[start:n], pos(start, n)})
		case strings.HasPrefix(line[n:], "$("):
			n++
			depth := 0
			for n < len(line) {
				switch line[n] {
				case '(':
					depth++
				case ')':
					depth--
				}
				n++
				if depth == 0 {
					break
				}
			}
			if depth != 0 {
				err = &ErrParse{Pos: pos(start, len(line)), Line: line, Err: ErrExpressionUnclosed}
				return
			}
			tokens = append(tokens, token{TOKEN_EXPR, line[start+2 : n-1], pos(start, n)})
		case strings.HasPrefix(line[n:], ":="):
			n += 2
			tokens = append(tokens, token{TOKEN_PUNCT, ":=", pos(start, n)})
		case strings.ContainsRune(":=,;+-&|!@*", rune(ch)):
			n++
			tokens = append(tokens, token{TOKEN_PUNCT, line[start:n], pos(start, n)})
		default:
			err = &ErrParse{Pos: pos(start, start+1), Line: line, Err: ErrCharacterInvalid}
			return
		}
	}

	return
}
