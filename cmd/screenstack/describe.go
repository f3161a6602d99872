package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/spf13/cobra"
)

// ScreenSummary is one row of a describe run.
type ScreenSummary struct {
	Type      string `json:"type"`
	Kind      string `json:"kind"`
	Source    string `json:"source,omitempty"`
	Layer     string `json:"layer"`
	Tag       string `json:"tag"`
	Animation string `json:"animation,omitempty"`
	History   bool   `json:"history"`
}

// ManagerSummary lists one manager's layers and screens.
type ManagerSummary struct {
	ID      int             `json:"id"`
	Layers  []string        `json:"layers"`
	Screens []ScreenSummary `json:"screens"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "describe <manifest.toml>",
		Short:         "List the managers, layers and screens of a manifest",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := screenstack.LoadManifest(args[0])
			if err != nil {
				return err
			}
			summaries := summarize(m)

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			return writeTable(cmd, summaries)
		},
	}
}

func summarize(m *screenstack.Manifest) []ManagerSummary {
	out := make([]ManagerSummary, 0, len(m.Managers))
	for _, mgr := range m.Managers {
		s := ManagerSummary{ID: mgr.ID, Layers: mgr.Layers, Screens: make([]ScreenSummary, 0, len(mgr.Screens))}
		if s.Layers == nil {
			s.Layers = []string{}
		}
		for _, sc := range mgr.Screens {
			layer := fmt.Sprintf("%d", sc.Layer)
			if sc.Layer >= 0 && sc.Layer < len(mgr.Layers) {
				layer = mgr.Layers[sc.Layer]
			}
			source := sc.Path
			if source == "" {
				source = sc.Key
			}
			s.Screens = append(s.Screens, ScreenSummary{
				Type:      sc.Type,
				Kind:      sc.Kind.String(),
				Source:    source,
				Layer:     layer,
				Tag:       sc.Tag.String(),
				Animation: animation(sc.ShowAnimation, sc.HideAnimation),
				History:   sc.History,
			})
		}
		out = append(out, s)
	}
	return out
}

func animation(show, hide bool) string {
	switch {
	case show && hide:
		return "show+hide"
	case show:
		return "show"
	case hide:
		return "hide"
	}
	return ""
}

func writeTable(cmd *cobra.Command, managers []ManagerSummary) error {
	w := cmd.OutOrStdout()
	for i, mgr := range managers {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Manager %d (layers: %v)\n", mgr.ID, mgr.Layers)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  TYPE\tKIND\tSOURCE\tLAYER\tTAG\tANIMATION\tHISTORY")
		for _, s := range mgr.Screens {
			source, anim := s.Source, s.Animation
			if source == "" {
				source = "-"
			}
			if anim == "" {
				anim = "-"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%t\n", s.Type, s.Kind, source, s.Layer, s.Tag, anim, s.History)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
