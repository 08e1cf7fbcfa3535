package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"structscan/internal/config"
	"structscan/internal/export"
	"structscan/internal/generator"
	"structscan/internal/model"
	"structscan/internal/parser"
)

// stdinPath reads the header from standard input.
const stdinPath = "-"

type globalParams struct {
	ConfigFile string
}

type parseParams struct {
	Format     string
	OutputFile string
	Strict     bool
	Keywords   string
}

type generateParams struct {
	parseParams
	TemplateFile string
	Builtin      string
	PerType      bool
	Types        string
	Exclude      string
	NoNested     bool
}

func newParseCmd(global *globalParams) *cobra.Command {
	params := &parseParams{}
	cmd := &cobra.Command{
		Use:   "parse <header>",
		Short: "Print the records declared in a header",
		Example: `  structscan parse shapes.hpp
  structscan parse --format json -o shapes.json shapes.hpp
  cat shapes.hpp | structscan parse --format yaml -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, params)
			if err != nil {
				return err
			}
			reg, err := parseHeader(cfg, args[0])
			if err != nil {
				return err
			}
			return writeOutput(params.OutputFile, func(w io.Writer) error {
				return export.Write(w, cfg.Options.Format, reg)
			})
		},
	}
	initParseFlags(cmd, params)
	cmd.Flags().StringVarP(&params.Format, "format", "f", "", "Output format: text, json or yaml")
	cmd.Flags().StringVarP(&params.OutputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newGenerateCmd(global *globalParams) *cobra.Command {
	params := &generateParams{}
	cmd := &cobra.Command{
		Use:   "generate <header>",
		Short: "Generate code from the records in a header using a template",
		Example: `  # Generate TypeScript interfaces with the built-in template
  structscan generate shapes.hpp -o shapes.ts

  # Generate for specific records only
  structscan generate shapes.hpp -t zod.tmpl -T Point,Shape

  # Exclude records and nested declarations
  structscan generate shapes.hpp -X 'Internal*' --no-nested

  # Execute the template once per record
  structscan generate shapes.hpp -t row.tmpl --per-type`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, &params.parseParams)
			if err != nil {
				return err
			}

			// Apply CLI overrides
			if params.PerType {
				cfg.Options.PerType = true
			}
			if params.NoNested {
				cfg.Options.IncludeNested = false
			}
			if params.Types != "" {
				cfg.Options.IncludeTypes = parseCommaSeparated(params.Types)
			}
			if params.Exclude != "" {
				cfg.Options.ExcludeTypes = parseCommaSeparated(params.Exclude)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			reg, err := parseHeader(cfg, args[0])
			if err != nil {
				return err
			}

			gen := generator.New(cfg)
			if params.TemplateFile != "" {
				err = gen.LoadTemplate(params.TemplateFile)
			} else {
				err = gen.LoadBuiltin(params.Builtin)
			}
			if err != nil {
				return err
			}

			return writeOutput(params.OutputFile, func(w io.Writer) error {
				return gen.Generate(reg, w)
			})
		},
	}
	initParseFlags(cmd, &params.parseParams)
	cmd.Flags().StringVarP(&params.OutputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&params.TemplateFile, "template", "t", "", "Template file")
	cmd.Flags().StringVarP(&params.Builtin, "builtin", "b", "typescript",
		"Built-in template used when --template is not set: "+strings.Join(generator.Builtins(), ", "))
	cmd.Flags().BoolVar(&params.PerType, "per-type", false, "Execute template once per record")
	cmd.Flags().StringVarP(&params.Types, "types", "T", "", "Only generate for these records (comma-separated globs)")
	cmd.Flags().StringVarP(&params.Exclude, "exclude", "X", "", "Exclude these records (comma-separated globs)")
	cmd.Flags().BoolVar(&params.NoNested, "no-nested", false, "Skip records declared inside other records")
	return cmd
}

func newExportCmd(global *globalParams) *cobra.Command {
	params := &parseParams{}
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export <header>",
		Short: "Write the records in a header to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, params)
			if err != nil {
				return err
			}
			reg, err := parseHeader(cfg, args[0])
			if err != nil {
				return err
			}
			if err := export.SQLite(cmd.Context(), dbPath, reg); err != nil {
				return fmt.Errorf("exporting to %s: %w", dbPath, err)
			}
			logger.Info(fmt.Sprintf("exported %d records to %s", reg.Len(), dbPath))
			return nil
		},
	}
	initParseFlags(cmd, params)
	cmd.Flags().StringVar(&dbPath, "db", "structscan.db", "SQLite database file")
	return cmd
}

func initParseFlags(cmd *cobra.Command, params *parseParams) {
	cmd.Flags().BoolVar(&params.Strict, "strict", false, "Fail when the header has diagnostics")
	cmd.Flags().StringVarP(&params.Keywords, "keywords", "k", "", "Record keywords (comma-separated, default: struct,class,union)")
}

// loadConfig loads the config file and applies the flags shared by all
// commands.
func loadConfig(global *globalParams, params *parseParams) (*config.Config, error) {
	cfg, err := config.Load(global.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if params.Format != "" {
		cfg.Options.Format = params.Format
	}
	if params.Strict {
		cfg.Options.Strict = true
	}
	if params.Keywords != "" {
		cfg.Options.RecordKeywords = parseCommaSeparated(params.Keywords)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Verbose("using options", fmt.Sprintf("%+v", cfg.Options))
	return cfg, nil
}

// parseHeader parses the header at path, or stdin for "-", and reports
// diagnostics. Diagnostics fail the command in strict mode.
func parseHeader(cfg *config.Config, path string) (*model.Registry, error) {
	p := parser.New(parser.WithRecordKeywords(cfg.Options.RecordKeywords...))

	var (
		reg   *model.Registry
		diags parser.Diagnostics
	)
	if path == stdinPath {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		reg, diags = p.ParseString(string(src))
	} else {
		var err error
		reg, diags, err = p.ParseFile(path)
		if err != nil {
			return nil, err
		}
	}

	if err := reportDiagnostics(cfg, path, diags); err != nil {
		return nil, err
	}

	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("parsed %d records from %s", reg.Len(), path))
		for _, rec := range reg.Records() {
			logger.Verbose(fmt.Sprintf("  - %s %s (%d fields)", rec.Keyword, rec.Name, len(rec.Fields())))
		}
	}
	return reg, nil
}

func reportDiagnostics(cfg *config.Config, path string, diags parser.Diagnostics) error {
	for _, d := range diags {
		logger.Warning(d.Error())
	}
	if cfg.Options.Strict && len(diags) > 0 {
		return fmt.Errorf("%s: %d diagnostics: %w", path, len(diags), diags.Err())
	}
	return nil
}

// writeOutput calls write with the output file, or stdout when path is empty.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	output, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(output); err != nil {
		output.Close()
		return err
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	logger.Verbose("wrote output to", path)
	return nil
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
