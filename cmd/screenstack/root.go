package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/locale"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Language string
	LogLevel string
}

var validFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the screenstack CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "screenstack",
		Short: "Inspect screen manifests",
		Long:  "Validate and describe the TOML manifests that configure screenstack managers.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			if opts.Language != "" {
				locale.SetLanguage(opts.Language)
			}
			if opts.LogLevel != "" {
				screenstack.SetRawLogLevel(opts.LogLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Language, "lang", "", "language for error messages (e.g. es, de)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func verbose(opts *RootOptions, cmd *cobra.Command, format string, args ...any) {
	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
