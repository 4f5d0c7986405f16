package listing

import "strings"

type tokenKind uint8

const (
	tokLiteral tokenKind = iota
	tokAnyOne
	tokAnyRun
)

type token struct {
	kind tokenKind
	r    rune
}

// Match reports whether s matches the case-insensitive LIKE pattern.
// '%' matches any run of runes, '_' matches exactly one, and a backslash
// makes the following rune literal.
func Match(pattern, s string) bool {
	return matchTokens(compile(strings.ToLower(pattern)), []rune(strings.ToLower(s)))
}

// Contains reports whether s contains term under ILIKE '%term%' semantics.
// Wildcards inside term are not escaped.
func Contains(s, term string) bool {
	return Match("%"+term+"%", s)
}

func compile(pattern string) []token {
	rs := []rune(pattern)
	toks := make([]token, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '%':
			// consecutive runs collapse
			if n := len(toks); n > 0 && toks[n-1].kind == tokAnyRun {
				continue
			}
			toks = append(toks, token{kind: tokAnyRun})
		case '_':
			toks = append(toks, token{kind: tokAnyOne})
		case '\\':
			if i+1 < len(rs) {
				i++
			}
			toks = append(toks, token{kind: tokLiteral, r: rs[i]})
		default:
			toks = append(toks, token{kind: tokLiteral, r: rs[i]})
		}
	}
	return toks
}

func matchTokens(toks []token, s []rune) bool {
	ti, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case ti < len(toks) && toks[ti].kind == tokAnyRun:
			star, mark = ti, si
			ti++
		case ti < len(toks) && (toks[ti].kind == tokAnyOne || toks[ti].r == s[si]):
			ti++
			si++
		case star >= 0:
			ti = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for ti < len(toks) && toks[ti].kind == tokAnyRun {
		ti++
	}
	return ti == len(toks)
}
