package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen"
	"github.com/yacobolo/gradgen/internal/clipboard"
	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/store"
	"github.com/yacobolo/gradgen/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a gradient interactively",
	Long: `Open the full-screen gradient editor. The editor starts from the
stops given with --stop or --from, or from the default gradient. Every change
is saved to the store so "gradgen restore" can print it later.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: runEdit,
}

func init() {
	f := editCmd.Flags()
	f.String("type", string(gradient.Linear), "Initial gradient type")
	f.Float64("angle", 90, "Initial angle in degrees (0-360)")
	f.Int("smoothness", 0, "Initial smoothing level (0-100)")
	f.StringArray("stop", nil, "Initial color stop as COLOR[@POSITION], repeatable")
	f.String("from", "", "Start from a gradient in a definition file")
	f.String("name", "", "Gradient to use from --from (default: first)")
}

func runEdit(cmd *cobra.Command, _ []string) error {
	stops, params, err := gradientInput(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	editor, err := gradient.NewEditor(gradient.WithStops(stops), gradient.WithParams(params))
	if err != nil {
		return err
	}

	// Persistence is best effort: the editor still runs without a store
	if s, err := openStore(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; changes will not be saved\n", err)
	} else {
		defer s.Close()
		unsubscribe := editor.Subscribe(store.Mirror(s, gradgen.Logger()))
		defer unsubscribe()
	}

	return tui.Run(editor, clipboard.New(os.Stdout))
}
