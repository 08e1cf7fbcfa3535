package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// RawRecord is a record declaration located in header text, before its
// body is split into fields.
type RawRecord struct {
	Name    string         // Record name
	Keyword string         // struct, class or union
	Parent  string         // Enclosing record, empty at top level
	Body    string         // Body text; nested record bodies are replaced by their names
	Closed  bool           // False when the input ended before the closing brace
	Pos     lexer.Position // Position of the declaring keyword

	body []token
}

// extractRecords finds record declarations by counting brace depth.
// Records are returned in the order of their opening braces, so an
// enclosing record precedes the records nested in it.
func extractRecords(toks []token, keywords map[string]bool, diags *Diagnostics) []*RawRecord {
	var records []*RawRecord
	// One frame per open brace; rec is nil for braces that do not open a record.
	var stack []*RawRecord

	enclosing := func() *RawRecord {
		for k := len(stack) - 1; k >= 0; k-- {
			if stack[k] != nil {
				return stack[k]
			}
		}
		return nil
	}
	emit := func(t token) {
		if rec := enclosing(); rec != nil {
			rec.body = append(rec.body, t)
		}
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]

		if t.kind == tokIdent && keywords[t.text] {
			if name, open, ok := recordOpening(toks, i); ok {
				rec := &RawRecord{Name: toks[name].text, Keyword: t.text, Pos: t.pos}
				if parent := enclosing(); parent != nil {
					rec.Parent = parent.Name
					// The enclosing body keeps only the nested record's name,
					// so `struct In {...} in;` reads as the field `In in;`.
					parent.body = append(parent.body, token{kind: tokIdent, text: rec.Name, pos: toks[name].pos})
				}
				records = append(records, rec)
				stack = append(stack, rec)
				i = open
				continue
			}
			if j := nextSignificant(toks, i+1); j < len(toks) && toks[j].punct("{") {
				diags.add(t.pos, "anonymous %s: members are not extracted", t.text)
			}
		}

		switch {
		case t.punct("{"):
			emit(t)
			stack = append(stack, nil)
		case t.punct("}"):
			if len(stack) == 0 {
				diags.add(t.pos, "unmatched '}'")
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top != nil {
				top.Closed = true
				continue
			}
			emit(t)
		default:
			emit(t)
		}
	}

	for _, rec := range stack {
		if rec != nil {
			diags.add(rec.Pos, "%s %s: body is not closed before end of input", rec.Keyword, rec.Name)
		}
	}
	for _, rec := range records {
		rec.Body = strings.TrimSpace(join(rec.body))
	}
	return records
}

// recordOpening matches `<keyword> Name [final] [: bases] {` starting at
// toks[i] and returns the indexes of the name and the opening brace.
func recordOpening(toks []token, i int) (name, open int, ok bool) {
	j := nextSignificant(toks, i+1)
	if j >= len(toks) || toks[j].kind != tokIdent {
		return 0, 0, false
	}
	name = j
	j = nextSignificant(toks, j+1)
	if j < len(toks) && toks[j].ident("final") {
		j = nextSignificant(toks, j+1)
	}
	if j < len(toks) && toks[j].punct(":") {
		for j < len(toks) && !toks[j].punct("{") && !toks[j].punct(";") && !toks[j].punct("}") {
			j++
		}
	}
	if j < len(toks) && toks[j].punct("{") {
		return name, j, true
	}
	return 0, 0, false
}
