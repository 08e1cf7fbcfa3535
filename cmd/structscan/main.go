// structscan extracts struct, class and union declarations from C-family
// headers and renders them as text, JSON, YAML, SQLite or generated code.
package main

import (
	"os"

	"github.com/untillpro/goutils/cobrau"
	"github.com/untillpro/goutils/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	params := &globalParams{}
	rootCmd := cobrau.PrepareRootCmd(
		"structscan",
		"Extract record declarations from C/C++ headers",
		args,
		ver,
		newParseCmd(params),
		newGenerateCmd(params),
		newExportCmd(params),
		newWatchCmd(params),
	)
	rootCmd.PersistentFlags().StringVarP(&params.ConfigFile, "config", "c", "", "Config file (YAML/JSON)")

	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}
