// Package config provides configuration handling for structscan.
package config

// DefaultTypeMappings returns default C/C++ to TypeScript type mappings.
// Container templates are mapped by the generator from their parameters.
func DefaultTypeMappings() map[string]string {
	return map[string]string{
		// Basic types
		"bool":               "boolean",
		"char":               "string",
		"short":              "number",
		"int":                "number",
		"long":               "number",
		"long long":          "number",
		"unsigned":           "number",
		"unsigned int":       "number",
		"unsigned short":     "number",
		"unsigned long":      "number",
		"unsigned long long": "number",
		"float":              "number",
		"double":             "number",
		"long double":        "number",
		"void":               "void",

		// Fixed-width and size types
		"size_t":   "number",
		"int8_t":   "number",
		"int16_t":  "number",
		"int32_t":  "number",
		"int64_t":  "number",
		"uint8_t":  "number",
		"uint16_t": "number",
		"uint32_t": "number",
		"uint64_t": "number",

		// Strings
		"char*":            "string",
		"const char*":      "string",
		"std::string":      "string",
		"std::string_view": "string",
		"std::wstring":     "string",
	}
}

// DefaultOptions returns default parsing and generation options.
func DefaultOptions() Options {
	return Options{
		Format:         FormatText,
		PerType:        false,
		RecordKeywords: []string{"struct", "class", "union"},
		IncludeNested:  true,
		CacheSize:      64,
	}
}
