package parser

import (
	"strings"
)

// normalize drops comments and preprocessor directives and flattens
// namespace and extern "C" scopes, keeping their contents in place.
func normalize(toks []token, diags *Diagnostics) []token {
	out := make([]token, 0, len(toks))
	// One entry per open brace; true marks a flattened scope whose closing
	// brace must be dropped too.
	var scopes []bool
	var opened []token

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.kind == tokBlockComment:
			out = append(out, token{kind: tokSpace, text: " ", pos: t.pos})
		case t.kind == tokOpenComment:
			diags.add(t.pos, "unterminated block comment")
		case t.kind == tokLineComment:
		case t.kind == tokDirective && atLineStart(toks, i):
		case t.ident("namespace") || t.ident("extern"):
			open, ok := scopeOpening(toks, i)
			if !ok {
				out = append(out, t)
				continue
			}
			scopes = append(scopes, true)
			opened = append(opened, t)
			i = open
		case t.punct("{"):
			scopes = append(scopes, false)
			opened = append(opened, t)
			out = append(out, t)
		case t.punct("}"):
			if n := len(scopes); n > 0 {
				flattened := scopes[n-1]
				scopes, opened = scopes[:n-1], opened[:n-1]
				if flattened {
					continue
				}
			}
			out = append(out, t)
		default:
			out = append(out, t)
		}
	}

	for k, flattened := range scopes {
		if flattened {
			diags.add(opened[k].pos, "%s scope is not closed before end of input", opened[k].text)
		}
	}
	return out
}

// atLineStart reports whether toks[i] is the first code on its line.
func atLineStart(toks []token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch toks[j].kind {
		case tokSpace:
			if strings.Contains(toks[j].text, "\n") {
				return true
			}
		case tokBlockComment:
		default:
			return false
		}
	}
	return true
}

// scopeOpening matches `namespace [a[::b]] {` or `extern "C" {` starting at
// toks[i] and returns the index of the opening brace.
func scopeOpening(toks []token, i int) (int, bool) {
	j := nextSignificant(toks, i+1)
	if toks[i].ident("extern") {
		if j >= len(toks) || toks[j].kind != tokString {
			return 0, false
		}
		j = nextSignificant(toks, j+1)
	} else {
		for j < len(toks) && (toks[j].kind == tokIdent || toks[j].kind == tokScope) {
			j = nextSignificant(toks, j+1)
		}
	}
	if j < len(toks) && toks[j].punct("{") {
		return j, true
	}
	return 0, false
}
