// Command stardump parses a STAR-family file and prints its SAS event
// stream to stdout, one event per line. It exists to give the CLI-facing
// dependencies (cobra, yaml.v3) a concrete home outside the core
// library; it is a thin collaborator over the public ustar API, not a
// second implementation of parsing or walking.
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ustar-rs/ustar-go"
)

var (
	configPath    string
	encodingFlag  string
	bomFlag       bool
	decomposeFlag bool
	commentsFlag  bool
	logLevelFlag  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stardump <file>",
		Short: "Parse a STAR/CIF/mmCIF/NMR-STAR/NEF file and print its event stream",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}

	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.Flags().StringVar(&encodingFlag, "encoding", "", "ascii|extended-ascii|unicode (overrides config file)")
	root.Flags().BoolVar(&bomFlag, "bom-detection", false, "strip a leading BOM before parsing")
	root.Flags().BoolVar(&decomposeFlag, "decompose-strings", false, "run the string decomposer before walking")
	root.Flags().BoolVar(&commentsFlag, "preserve-comments", false, "keep comments in the tree and emit comment events")
	root.Flags().StringVar(&logLevelFlag, "log-level", "info", "debug|info|warn|error")

	return root
}

func runDump(cmd *cobra.Command, args []string) error {
	log := newLogger(logLevelFlag)

	fc, err := loadFileConfig(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	cfg := mergeConfig(fc,
		encodingFlag, flags.Changed("encoding"),
		bomFlag, flags.Changed("bom-detection"),
		decomposeFlag, flags.Changed("decompose-strings"),
		commentsFlag, flags.Changed("preserve-comments"),
	)

	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "stardump: reading %q", path)
	}

	log.Debug().Str("path", path).Str("encoding", cfg.EncodingMode.String()).
		Bool("decompose_strings", cfg.DecomposeStrings).Msg("parsing")
	tree, err := ustar.ParseWith(text, cfg)
	if err != nil {
		return errors.Wrapf(err, "stardump: parsing %q", path)
	}

	h := newDumpHandler(cmd.OutOrStdout())
	halted := ustar.Walk(tree, h)
	log.Debug().Int("events", h.count).Bool("halted_early", halted).Msg("walk complete")
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
