package parser

// stripDeclarations removes enumerations and alias statements. A typedef of
// a record body is rewritten into a plain record declaration instead.
func stripDeclarations(toks []token, keywords map[string]bool, diags *Diagnostics) []token {
	out := make([]token, 0, len(toks))

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokIdent || !atStatementStart(out) {
			out = append(out, t)
			continue
		}

		switch t.text {
		case "enum":
			var keep []token
			keep, i = stripEnum(toks, i, diags)
			out = append(out, keep...)
		case "typedef":
			var keep []token
			keep, i = rewriteTypedef(toks, i, keywords)
			out = append(out, keep...)
		case "using":
			out = dropTemplatePrefix(out)
			i = statementEnd(toks, i) - 1
		default:
			out = append(out, t)
		}
	}
	return out
}

// stripEnum handles the enum starting at toks[i]. It returns the tokens to
// keep in its place and the index of the last consumed token.
func stripEnum(toks []token, i int, diags *Diagnostics) ([]token, int) {
	j := nextSignificant(toks, i+1)
	if j < len(toks) && (toks[j].ident("class") || toks[j].ident("struct")) {
		j = nextSignificant(toks, j+1)
	}
	name := -1
	if j < len(toks) && toks[j].kind == tokIdent {
		name = j
		j = nextSignificant(toks, j+1)
	}
	if j < len(toks) && toks[j].punct(":") {
		for j < len(toks) && !toks[j].punct("{") && !toks[j].punct(";") {
			j++
		}
	}

	switch {
	case j < len(toks) && toks[j].punct("{"):
		end := matchBrace(toks, j)
		if end == len(toks) {
			diags.add(toks[i].pos, "enum body is not closed before end of input")
			return nil, end
		}
		k := nextSignificant(toks, end+1)
		if k < len(toks) && toks[k].punct(";") {
			return nil, k
		}
		// `enum E {...} e;` declares a variable of the enum type.
		if name >= 0 {
			return []token{toks[name]}, end
		}
		return []token{toks[i]}, end
	case j < len(toks) && toks[j].punct(";"):
		return nil, j
	default:
		// Elaborated type specifier such as `enum Color c;`.
		return nil, i
	}
}

// rewriteTypedef handles the typedef starting at toks[i]. `typedef struct
// Tag {...} Alias;` becomes `struct Tag {...};`, using Alias when there is
// no tag. Every other typedef is dropped.
func rewriteTypedef(toks []token, i int, keywords map[string]bool) ([]token, int) {
	kw := nextSignificant(toks, i+1)
	if kw >= len(toks) || toks[kw].kind != tokIdent || !keywords[toks[kw].text] {
		return nil, statementEnd(toks, i) - 1
	}
	j := nextSignificant(toks, kw+1)
	tag := -1
	if j < len(toks) && toks[j].kind == tokIdent {
		tag = j
		j = nextSignificant(toks, j+1)
	}
	if j >= len(toks) || !toks[j].punct("{") {
		return nil, statementEnd(toks, i) - 1
	}

	end := matchBrace(toks, j)
	if end == len(toks) {
		// Leave the unterminated body to the record extractor.
		return toks[kw:], end
	}

	alias := -1
	k := end + 1
	for ; k < len(toks) && !toks[k].punct(";") && !toks[k].punct("}"); k++ {
		if alias < 0 && toks[k].kind == tokIdent {
			alias = k
		}
	}
	last := k
	if k == len(toks) || toks[k].punct("}") {
		last = k - 1
	}

	name := tag
	if name < 0 {
		name = alias
	}
	if name < 0 {
		return nil, last
	}

	keep := []token{
		toks[kw],
		{kind: tokSpace, text: " ", pos: toks[kw].pos},
		{kind: tokIdent, text: toks[name].text, pos: toks[name].pos},
		{kind: tokSpace, text: " ", pos: toks[j].pos},
	}
	keep = append(keep, stripDeclarations(toks[j:end+1], keywords, nil)...)
	keep = append(keep, token{kind: tokPunct, text: ";", pos: toks[end].pos})
	return keep, last
}

// atStatementStart reports whether the next token begins a statement.
func atStatementStart(out []token) bool {
	j := prevSignificant(out, len(out))
	if j < 0 {
		return true
	}
	switch out[j].text {
	case ";", "{", "}", ":", ">":
		return out[j].kind == tokPunct
	}
	return false
}

// dropTemplatePrefix removes a trailing `template <...>` from out.
func dropTemplatePrefix(out []token) []token {
	j := prevSignificant(out, len(out))
	if j < 0 || !out[j].punct(">") {
		return out
	}
	depth := 0
	for ; j >= 0; j-- {
		switch {
		case out[j].punct(">"):
			depth++
		case out[j].punct("<"):
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if j < 0 {
		return out
	}
	k := prevSignificant(out, j)
	if k >= 0 && out[k].ident("template") {
		return out[:k]
	}
	return out
}

// statementEnd returns the exclusive end of the statement starting at
// toks[i]: just past its ';', at an enclosing '}', or at end of input.
// Brace groups inside the statement are skipped.
func statementEnd(toks []token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		switch {
		case toks[i].punct("{"):
			depth++
		case toks[i].punct("}"):
			if depth == 0 {
				return i
			}
			depth--
		case toks[i].punct(";") && depth == 0:
			return i + 1
		}
	}
	return len(toks)
}
