package parser

import (
	"strings"

	"structscan/internal/model"
)

// FieldDecl is one field declaration split into name and raw type text.
type FieldDecl struct {
	Name string
	Type string
}

var accessLabels = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
}

// Statements led by these never declare instance fields.
var skippedLeaders = map[string]bool{
	"static":        true,
	"friend":        true,
	"template":      true,
	"typedef":       true,
	"using":         true,
	"static_assert": true,
}

var nonNames = map[string]bool{
	"const":    true,
	"volatile": true,
	"struct":   true,
	"class":    true,
	"union":    true,
	"enum":     true,
	"mutable":  true,
	"final":    true,
	"override": true,
}

// Type text that is only a keyword comes from forward declarations.
var bareKeywords = map[string]bool{
	"struct": true,
	"class":  true,
	"union":  true,
	"enum":   true,
}

// item is a significant token plus whether layout preceded it.
type item struct {
	tok   token
	space bool
}

// parseFields splits a record body into field declarations in source order.
// Statements that do not resolve to a type and a name are skipped.
func parseFields(body []token) []FieldDecl {
	var fields []FieldDecl
	for _, stmt := range splitStatements(body) {
		fields = append(fields, parseStatement(compact(stmt))...)
	}
	return fields
}

// splitStatements splits a body at top-level semicolons. An inline function
// body also ends its statement unless an initializer list continues it.
// Parentheses and braces inside template arguments belong to the type, as in
// std::function<void(int)> cb{}. A semicolon never appears inside template
// arguments, so it always resets a stray '<'.
func splitStatements(toks []token) [][]token {
	var stmts [][]token
	var cur []token
	braces, parens, angles := 0, 0, 0
	assigned, function, operator := false, false, false

	flush := func() {
		if len(cur) > 0 {
			stmts = append(stmts, cur)
		}
		cur = nil
		braces, parens, angles = 0, 0, 0
		assigned, function, operator = false, false, false
	}

	for i, t := range toks {
		cur = append(cur, t)
		if t.ident("operator") {
			operator = true
		}
		if t.kind != tokPunct {
			continue
		}
		top := braces == 0 && parens == 0
		switch t.text {
		case "<":
			if top && !assigned && !operator {
				angles++
			}
		case ">":
			if top && !assigned && !operator && angles > 0 {
				angles--
			}
		case "{":
			if angles == 0 {
				braces++
			}
		case "}":
			if angles > 0 {
				continue
			}
			if braces > 0 {
				braces--
			}
			if braces == 0 && function {
				k := nextSignificant(toks, i+1)
				if k == len(toks) || !(toks[k].punct(",") || toks[k].punct("{")) {
					flush()
				}
			}
		case "(":
			if angles > 0 {
				continue
			}
			if top && !assigned {
				function = true
			}
			if braces == 0 {
				parens++
			}
		case ")":
			if angles == 0 && braces == 0 && parens > 0 {
				parens--
			}
		case "=":
			if top && angles == 0 {
				assigned = true
			}
		case ";":
			if braces == 0 && parens == 0 {
				flush()
			}
		}
	}
	flush()
	return stmts
}

// compact drops layout tokens, remembering where whitespace separated code.
func compact(toks []token) []item {
	var out []item
	space := false
	for _, t := range toks {
		if !t.significant() || t.kind == tokDirective {
			space = true
			continue
		}
		out = append(out, item{tok: t, space: space})
		space = false
	}
	return out
}

// parseStatement resolves one statement into zero or more fields;
// `int *a, b;` declares two.
func parseStatement(items []item) []FieldDecl {
	if n := len(items); n > 0 && items[n-1].tok.punct(";") {
		items = items[:n-1]
	}
	items = stripPrefixes(items)
	if len(items) == 0 {
		return nil
	}
	if first := items[0].tok; first.kind == tokIdent && skippedLeaders[first.text] {
		return nil
	}

	var fields []FieldDecl
	var base []item
	for n, decl := range splitDeclarators(items) {
		decl = cutInitializer(decl)
		if hasTopLevelParen(decl) {
			if n == 0 {
				return nil
			}
			continue
		}
		var suffix []item
		suffix, decl = splitArraySuffix(decl)
		if len(decl) == 0 {
			continue
		}
		name := decl[len(decl)-1].tok
		if name.kind != tokIdent || nonNames[name.text] || model.IsPrimitiveKeyword(name.text) {
			if n == 0 {
				return nil
			}
			continue
		}
		if len(decl) > 1 && decl[len(decl)-2].tok.kind == tokScope {
			continue
		}

		var typ []item
		if n == 0 {
			typ = decl[:len(decl)-1]
			if len(typ) > 0 && typ[0].tok.ident("mutable") {
				typ = typ[1:]
			}
			if !hasIdent(typ) {
				return nil
			}
			base = baseType(typ)
		} else {
			typ = append(append([]item{}, base...), decl[:len(decl)-1]...)
		}

		text := render(typ) + render(suffix)
		if bareKeywords[text] {
			continue
		}
		fields = append(fields, FieldDecl{Name: name.text, Type: text})
	}
	return fields
}

// stripPrefixes removes leading access labels and [[attributes]].
func stripPrefixes(items []item) []item {
	for len(items) >= 2 {
		switch {
		case items[0].tok.kind == tokIdent && accessLabels[items[0].tok.text] && items[1].tok.punct(":"):
			items = items[2:]
		case items[0].tok.punct("[") && items[1].tok.punct("["):
			depth, k := 0, 0
			for ; k < len(items); k++ {
				switch {
				case items[k].tok.punct("["):
					depth++
				case items[k].tok.punct("]"):
					depth--
				}
				if depth == 0 {
					break
				}
			}
			if k == len(items) {
				return nil
			}
			items = items[k+1:]
		default:
			return items
		}
	}
	return items
}

// walkTopLevel calls visit with the index of every token outside parens,
// brackets, braces and template argument lists, stopping when visit returns
// false. Opening brackets are visited before they nest. Angle brackets are
// not counted after a top-level '=' or in operator declarations, where
// they may be comparisons.
func walkTopLevel(items []item, visit func(k int) bool) {
	depth, angles := 0, 0
	assigned, operator := false, false
	for k, it := range items {
		t := it.tok
		top := depth == 0 && angles == 0
		if t.ident("operator") {
			operator = true
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				if top && !visit(k) {
					return
				}
				depth++
				continue
			case ")", "]", "}":
				if depth > 0 {
					depth--
				}
				continue
			case "<":
				if depth == 0 && !assigned && !operator {
					angles++
					continue
				}
			case ">":
				if depth == 0 && !assigned && !operator && angles > 0 {
					angles--
					continue
				}
			case "=":
				if top {
					assigned = true
				}
			}
		}
		if top && !visit(k) {
			return
		}
	}
}

// splitDeclarators splits a statement at top-level commas.
func splitDeclarators(items []item) [][]item {
	var out [][]item
	start := 0
	walkTopLevel(items, func(k int) bool {
		if items[k].tok.punct(",") {
			out = append(out, items[start:k])
			start = k + 1
		}
		return true
	})
	return append(out, items[start:])
}

// cutInitializer drops a default value, brace initializer or bit-field width.
func cutInitializer(items []item) []item {
	end := len(items)
	walkTopLevel(items, func(k int) bool {
		t := items[k].tok
		if t.punct("=") || t.punct("{") || t.punct(":") {
			end = k
			return false
		}
		return true
	})
	return items[:end]
}

func hasTopLevelParen(items []item) bool {
	found := false
	walkTopLevel(items, func(k int) bool {
		found = items[k].tok.punct("(")
		return !found
	})
	return found
}

// splitArraySuffix separates trailing [N] groups from a declarator.
func splitArraySuffix(items []item) (suffix, rest []item) {
	end := len(items)
	for end > 0 && items[end-1].tok.punct("]") {
		depth, k := 0, end-1
		for ; k >= 0; k-- {
			switch {
			case items[k].tok.punct("]"):
				depth++
			case items[k].tok.punct("["):
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if k < 0 {
			break
		}
		end = k
	}
	return items[end:], items[:end]
}

// baseType returns the type shared by later declarators: everything before
// the first top-level pointer or reference.
func baseType(typ []item) []item {
	end := len(typ)
	walkTopLevel(typ, func(k int) bool {
		if typ[k].tok.punct("*") || typ[k].tok.punct("&") {
			end = k
			return false
		}
		return true
	})
	return typ[:end]
}

func hasIdent(items []item) bool {
	for _, it := range items {
		if it.tok.kind == tokIdent {
			return true
		}
	}
	return false
}

// render joins type tokens with normalized spacing: "const char*",
// "std::array<float, 3>", "unsigned long long".
func render(items []item) string {
	var b strings.Builder
	for k, it := range items {
		if k > 0 && needsSpace(items[k-1], it) {
			b.WriteByte(' ')
		}
		b.WriteString(it.tok.text)
	}
	return b.String()
}

func needsSpace(prev, cur item) bool {
	p, c := prev.tok, cur.tok
	switch {
	case p.punct(","):
		return true
	case p.punct("<"), p.punct("("), p.punct("["), p.kind == tokScope, c.kind == tokScope:
		return false
	case c.kind == tokPunct && strings.Contains("<>()[],*&", c.text):
		return false
	case (p.punct("*") || p.punct("&")) && c.kind == tokIdent:
		return true
	}
	return cur.space
}
