package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/loader"
	"github.com/spf13/cobra"
)

// ValidationResult is the JSON form of a validate run.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Managers int      `json:"managers"`
	Screens  int      `json:"screens"`
	Loaded   int      `json:"loaded,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

var errInvalidManifest = errors.New("manifest is invalid")

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var assets string

	cmd := &cobra.Command{
		Use:   "validate <manifest.toml>",
		Short: "Validate a screen manifest",
		Long: `Validate a screen manifest without running an application.

Checks that every manager has layers, every screen names a layer that exists,
and every source is complete. With --assets, every resource screen is also
loaded from the given directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), rootOpts, cmd, args[0], assets)
		},
	}

	cmd.Flags().StringVar(&assets, "assets", "", "directory to load resource screens from")

	return cmd
}

func runValidate(ctx context.Context, opts *RootOptions, cmd *cobra.Command, path, assets string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m, err := screenstack.LoadManifest(path)
	if err != nil {
		return report(opts, cmd, ValidationResult{Errors: []string{err.Error()}})
	}

	result := ValidationResult{Managers: len(m.Managers)}
	for _, mgr := range m.Managers {
		result.Screens += len(mgr.Screens)
	}
	verbose(opts, cmd, "Read %d manager(s) and %d screen(s) from %s", result.Managers, result.Screens, path)

	if err := m.Validate(); err != nil {
		result.Errors = messages(opts, err)
		return report(opts, cmd, result)
	}

	if assets != "" {
		loaded, errs := loadResources(ctx, opts, cmd, m, assets)
		result.Loaded = loaded
		result.Errors = errs
	}

	result.Valid = len(result.Errors) == 0
	return report(opts, cmd, result)
}

// loadResources applies the manifest to a headless navigator and preloads
// every resource screen from dir.
func loadResources(ctx context.Context, opts *RootOptions, cmd *cobra.Command, m *screenstack.Manifest, dir string) (int, []string) {
	nav := screenstack.New(screenstack.Options{
		Loader:   loader.NewMux(loader.NewResource(os.DirFS(dir), image.Point{}), nil),
		Language: opts.Language,
	})
	defer nav.Close(ctx)

	err := m.Apply(nav, screenstack.ManifestBindings{
		Instantiate: func(screenstack.ScreenType) func() (screenstack.Visual, error) {
			return func() (screenstack.Visual, error) { return struct{}{}, nil }
		},
	})
	if err != nil {
		return 0, messages(opts, err)
	}

	var (
		loaded int
		errs   []string
	)
	for _, mgr := range m.Managers {
		for _, s := range mgr.Screens {
			if s.Kind != constants.LoadResource {
				continue
			}
			verbose(opts, cmd, "Loading %s from %s", s.Type, s.Path)
			if err := nav.Preload(ctx, mgr.ID, screenstack.ScreenType(s.Type)); err != nil {
				errs = append(errs, messages(opts, err)...)
				continue
			}
			loaded++
		}
	}
	return loaded, errs
}

// messages flattens joined errors, localizing navigation errors.
func messages(opts *RootOptions, err error) []string {
	var errs []error
	_, single := err.(*screenstack.NavigationError)
	if joined, ok := err.(interface{ Unwrap() []error }); ok && !single {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	out := make([]string, 0, len(errs))
	for _, e := range errs {
		var navErr *screenstack.NavigationError
		if errors.As(e, &navErr) {
			msg := navErr.Message(opts.Language)
			if navErr.Err != nil {
				msg = fmt.Sprintf("%s: %v", msg, navErr.Err)
			}
			out = append(out, msg)
			continue
		}
		out = append(out, e.Error())
	}
	return out
}

func report(opts *RootOptions, cmd *cobra.Command, result ValidationResult) error {
	w := cmd.OutOrStdout()

	if opts.Format == "json" {
		if err := writeJSON(w, result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(w, "✓ Manifest valid: %d manager(s), %d screen(s)", result.Managers, result.Screens)
		if result.Loaded > 0 {
			fmt.Fprintf(w, ", %d resource(s) loaded", result.Loaded)
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "✗ Manifest invalid:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	if !result.Valid {
		return errInvalidManifest
	}
	return nil
}
