package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

type tokenKind int

const (
	tokOther tokenKind = iota
	tokBlockComment
	tokOpenComment
	tokLineComment
	tokDirective
	tokString
	tokChar
	tokNumber
	tokIdent
	tokScope
	tokSpace
	tokPunct
)

// headerLexer splits header text into literal-aware tokens. Rule order
// matters: comments and literals are matched before punctuation so that
// "//" inside a string never starts a comment.
var headerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "BlockComment", Pattern: `/\*(?s:.*?)\*/`},
	{Name: "OpenComment", Pattern: `/\*(?s:.*)`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Directive", Pattern: `#(?:\\\r?\n|[^\n])*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"`},
	{Name: "Char", Pattern: `'(?:\\.|[^'\\\n])*'`},
	{Name: "Number", Pattern: `[0-9](?:[0-9A-Za-z_.]|'[0-9A-Za-z])*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Punct", Pattern: `[^\sA-Za-z0-9_]`},
})

var kindBySymbol = func() map[lexer.TokenType]tokenKind {
	names := map[string]tokenKind{
		"BlockComment": tokBlockComment,
		"OpenComment":  tokOpenComment,
		"LineComment":  tokLineComment,
		"Directive":    tokDirective,
		"String":       tokString,
		"Char":         tokChar,
		"Number":       tokNumber,
		"Ident":        tokIdent,
		"Scope":        tokScope,
		"Whitespace":   tokSpace,
		"Punct":        tokPunct,
	}
	out := make(map[lexer.TokenType]tokenKind, len(names))
	for name, tt := range headerLexer.Symbols() {
		if k, ok := names[name]; ok {
			out[tt] = k
		}
	}
	return out
}()

// token is one lexeme of header text.
type token struct {
	kind tokenKind
	text string
	pos  lexer.Position
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) punct(text string) bool {
	return t.is(tokPunct, text)
}

func (t token) ident(text string) bool {
	return t.is(tokIdent, text)
}

// significant reports whether the token carries code, not layout.
func (t token) significant() bool {
	switch t.kind {
	case tokSpace, tokBlockComment, tokOpenComment, tokLineComment:
		return false
	}
	return true
}

// tokenize lexes src. Every byte of src ends up in exactly one token, so
// joining the token texts reproduces src.
func tokenize(filename, src string) ([]token, error) {
	lex, err := headerLexer.LexString(filename, src)
	if err != nil {
		return nil, err
	}
	var toks []token
	for {
		t, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if t.EOF() {
			return toks, nil
		}
		toks = append(toks, token{kind: kindBySymbol[t.Type], text: t.Value, pos: t.Pos})
	}
}

// join concatenates token texts.
func join(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return b.String()
}

// nextSignificant returns the index of the first significant token at or
// after i, or len(toks).
func nextSignificant(toks []token, i int) int {
	for i < len(toks) && !toks[i].significant() {
		i++
	}
	return i
}

// prevSignificant returns the index of the last significant token before i,
// or -1.
func prevSignificant(toks []token, i int) int {
	i--
	for i >= 0 && !toks[i].significant() {
		i--
	}
	return i
}

// matchBrace returns the index of the '}' closing the '{' at open, or
// len(toks) when the input ends first.
func matchBrace(toks []token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case toks[i].punct("{"):
			depth++
		case toks[i].punct("}"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}
