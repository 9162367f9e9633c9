package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "gradgen",
	Short: "CSS gradient compiler, editor and checker",
	Long: `Compile color stops into CSS gradient declarations, edit them
interactively, and build or check gradient definition files.
Without a subcommand gradgen behaves like "gradgen compile".`,
	// Default behavior: compile when no subcommand is given.
	// PreRunE of compileCmd is not triggered when delegating via
	// rootCmd.RunE, so setup runs here.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd); err != nil {
			return err
		}
		return runCompile(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", defaultConfigPath, "Config file path")
	pf.String("store-driver", store.DriverFile, "Storage driver: file|sqlite")
	pf.String("store-path", "", "Storage location (default: user config dir)")

	addCompileFlags(rootCmd)

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
