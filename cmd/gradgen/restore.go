package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/store"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Print the last saved gradient style",
	Long: `Print the style saved by "gradgen edit" or "gradgen compile --save".
When nothing usable is stored the default gradient is printed instead.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		style := gradient.Default().Style

		s, err := openStore()
		if err == nil {
			defer s.Close()
			style, err = store.RestoreStyle(s)
		}
		if err != nil && !getBoolWithFallback("quiet", "quiet", false) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Using default gradient: %v\n", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), style.Declarations())
		return nil
	},
}
