package theme

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	// tokString is a double-quoted string with escapes resolved.
	tokString
	// tokVector is a <...> group with the brackets stripped.
	tokVector
)

type token struct {
	kind tokenKind
	text string
	col  int // 1-based
}

// lexLine splits one config line into tokens. Words end at whitespace;
// quoted strings and <...> vectors are single tokens. A '#' starting a
// token begins a comment only at the start of the line, since colours use
// '#' too.
func lexLine(line string) ([]token, *Diagnostic) {
	var toks []token
	rs := []rune(line)
	i := 0
	for i < len(rs) {
		if unicode.IsSpace(rs[i]) {
			i++
			continue
		}
		start := i
		switch rs[i] {
		case '"':
			var sb strings.Builder
			i++
			closed := false
			for i < len(rs) {
				c := rs[i]
				if c == '\\' && i+1 < len(rs) {
					i++
					switch rs[i] {
					case 'n':
						sb.WriteRune('\n')
					case 't':
						sb.WriteRune('\t')
					default:
						sb.WriteRune(rs[i])
					}
					i++
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				sb.WriteRune(c)
				i++
			}
			if !closed {
				return nil, &Diagnostic{Col: start + 1, Expected: `closing '"'`, Msg: "unterminated string"}
			}
			toks = append(toks, token{kind: tokString, text: sb.String(), col: start + 1})
		case '<':
			end := i + 1
			for end < len(rs) && rs[end] != '>' {
				end++
			}
			if end == len(rs) {
				return nil, &Diagnostic{Col: start + 1, Expected: "'>'", Found: string(rs[i:]), Msg: "unterminated vector"}
			}
			toks = append(toks, token{kind: tokVector, text: strings.TrimSpace(string(rs[i+1 : end])), col: start + 1})
			i = end + 1
		default:
			for i < len(rs) && !unicode.IsSpace(rs[i]) {
				i++
			}
			toks = append(toks, token{kind: tokWord, text: string(rs[start:i]), col: start + 1})
		}
	}
	return toks, nil
}

// isComment reports whether the line is blank or a comment.
func isComment(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || s[0] == '#'
}
