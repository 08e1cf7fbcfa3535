package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"structscan/internal/cache"
	"structscan/internal/config"
	"structscan/internal/export"
	"structscan/internal/parser"
	"structscan/internal/watch"
)

func newWatchCmd(global *globalParams) *cobra.Command {
	params := &parseParams{}
	cmd := &cobra.Command{
		Use:   "watch <header>",
		Short: "Re-parse a header whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, params)
			if err != nil {
				return err
			}
			path := args[0]

			c, err := cache.New(parser.New(parser.WithRecordKeywords(cfg.Options.RecordKeywords...)), cfg.Options.CacheSize)
			if err != nil {
				return err
			}
			render := func() {
				if err := renderHeader(cfg, c, path, params.OutputFile); err != nil {
					logger.Error(err)
				}
			}

			w, err := watch.New([]string{path})
			if err != nil {
				return err
			}
			render()

			logger.Info("watching", path)
			return w.Run(cmd.Context(), func([]string) { render() })
		},
	}
	initParseFlags(cmd, params)
	cmd.Flags().StringVarP(&params.Format, "format", "f", "", "Output format: text, json or yaml")
	cmd.Flags().StringVarP(&params.OutputFile, "output", "o", "", "Output file rewritten on every change (default: stdout)")
	return cmd
}

// renderHeader parses path through the cache and writes the result. In
// strict mode a header with diagnostics leaves the previous output alone.
func renderHeader(cfg *config.Config, c *cache.Cache, path, outputFile string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	reg, diags := c.Parse(string(src))
	if err := reportDiagnostics(cfg, path, diags); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("%s: %d records", path, reg.Len()))

	return writeOutput(outputFile, func(w io.Writer) error {
		return export.Write(w, cfg.Options.Format, reg)
	})
}
