// Package parser extracts record declarations from C-family header text.
//
// Parsing runs a fixed pipeline over one literal-aware token stream:
// normalize (comments, directives, namespace scopes), strip non-record
// declarations (enums, aliases), extract records by brace depth, then split
// each body into fields. Each stage is also exposed as a text function.
package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2/lexer"

	"structscan/internal/model"
)

// DefaultRecordKeywords are the keywords that open a record declaration.
var DefaultRecordKeywords = []string{"struct", "class", "union"}

// Parser extracts records from header text. A Parser holds no parse state
// and is safe for concurrent use.
type Parser struct {
	keywords map[string]bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithRecordKeywords replaces the keywords that open a record.
func WithRecordKeywords(words ...string) Option {
	return func(p *Parser) {
		p.keywords = keywordSet(words)
	}
}

// New creates a new Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		keywords: keywordSet(DefaultRecordKeywords),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads a header file and parses it. Diagnostics carry the path.
func (p *Parser) ParseFile(path string) (*model.Registry, Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	reg, diags := p.parse(path, string(data))
	return reg, diags, nil
}

// ParseString parses header text into a fresh registry. Recoverable
// problems such as unbalanced braces are reported as diagnostics; the
// registry then holds whatever could be recovered.
func (p *Parser) ParseString(src string) (*model.Registry, Diagnostics) {
	return p.parse("", src)
}

func (p *Parser) parse(filename, src string) (*model.Registry, Diagnostics) {
	var diags Diagnostics
	reg := model.NewRegistry()

	toks, err := tokenize(filename, src)
	if err != nil {
		diags.add(lexer.Position{Filename: filename}, "lexing: %v", err)
		return reg, diags
	}
	toks = normalize(toks, &diags)
	toks = stripDeclarations(toks, p.keywords, &diags)

	for _, raw := range extractRecords(toks, p.keywords, &diags) {
		rec := model.NewRecord(raw.Name, raw.Keyword)
		rec.Parent = raw.Parent
		for _, f := range parseFields(raw.body) {
			rec.AddField(model.Field{Name: f.Name, Type: model.Classify(f.Type)})
		}
		reg.Add(rec)
	}

	diags.sort()
	return reg, diags
}

// Parse parses header text with the default keywords.
func Parse(src string) (*model.Registry, Diagnostics) {
	return New().ParseString(src)
}

// Normalize strips comments and preprocessor directives and flattens
// namespace scopes. Comment markers inside literals are left alone.
func Normalize(src string) string {
	toks, err := tokenize("", src)
	if err != nil {
		return src
	}
	return join(normalize(toks, nil))
}

// StripDeclarations removes enumerations, typedefs and using-declarations.
func StripDeclarations(src string) string {
	toks, err := tokenize("", src)
	if err != nil {
		return src
	}
	return join(stripDeclarations(toks, keywordSet(DefaultRecordKeywords), nil))
}

// ExtractRecords locates record declarations, nested ones included, in
// order of their opening braces.
func ExtractRecords(src string) []RawRecord {
	toks, err := tokenize("", src)
	if err != nil {
		return nil
	}
	var out []RawRecord
	for _, rec := range extractRecords(toks, keywordSet(DefaultRecordKeywords), nil) {
		out = append(out, *rec)
	}
	return out
}

// ParseFields splits record body text into field declarations.
func ParseFields(body string) []FieldDecl {
	toks, err := tokenize("", body)
	if err != nil {
		return nil
	}
	return parseFields(toks)
}

func keywordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
