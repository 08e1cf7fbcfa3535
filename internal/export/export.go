// Package export renders a registry as text, JSON, YAML or a SQLite database.
// Every rendering keeps records and fields in declaration order.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"structscan/internal/config"
	"structscan/internal/model"
)

// Write renders reg to w in the given format.
func Write(w io.Writer, format string, reg *model.Registry) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case config.FormatText:
		data = []byte(reg.String())
	case config.FormatJSON:
		data, err = JSON(reg)
	case config.FormatYAML:
		data, err = YAML(reg)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownFormat, format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// JSON renders reg as an indented object of record name to an object of
// field name to type.
func JSON(reg *model.Registry) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, rec := range reg.Records() {
		if i > 0 {
			compact.WriteByte(',')
		}
		if err := writeJSONString(&compact, rec.Name); err != nil {
			return nil, err
		}
		compact.WriteString(":{")
		for j, f := range rec.Fields() {
			if j > 0 {
				compact.WriteByte(',')
			}
			if err := writeJSONString(&compact, f.Name); err != nil {
				return nil, err
			}
			compact.WriteByte(':')
			if err := writeJSONString(&compact, f.Type.Raw); err != nil {
				return nil, err
			}
		}
		compact.WriteByte('}')
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indenting json: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// writeJSONString appends s as a JSON string without HTML escaping, so
// template brackets stay readable.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding %q: %w", s, err)
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// YAML renders reg as a mapping of record name to a mapping of field name
// to type.
func YAML(reg *model.Registry) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, rec := range reg.Records() {
		fields := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range rec.Fields() {
			fields.Content = append(fields.Content, scalar(f.Name), scalar(f.Type.Raw))
		}
		root.Content = append(root.Content, scalar(rec.Name), fields)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
