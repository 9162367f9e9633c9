package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen"
	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Recompile a definition file whenever it changes",
	Long: `Watch a gradient definition file and print the compiled declaration
of each gradient every time the file is saved. With --rebuild the stylesheet is
rebuilt as well. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: runWatch,
}

func init() {
	addSourceFlags(watchCmd)
	f := watchCmd.Flags()
	f.Duration("debounce", watch.DefaultDebounce, "Quiet period before recompiling")
	f.Bool("rebuild", false, "Rebuild the stylesheet on every change")
	f.String("output", "web/styles/gradients.css", "Output file for --rebuild")
	f.String("format", gradgen.FormatCSS, "Output format for --rebuild: css|json")
	f.String("class-prefix", gradgen.DefaultClassPrefix, "Prefix of generated class names")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	rebuild := getBoolWithFallback("rebuild", "watch.rebuild", false)

	onChange := func() error {
		if err := compileFile(out, errOut, path); err != nil {
			return err
		}
		if !rebuild {
			return nil
		}
		config := buildBuildConfig()
		result, err := gradgen.Build(cmd.Context(), config)
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		printBuildResult(cmd, config, result)
		return nil
	}
	onError := func(err error) {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}

	w, err := watch.New(path, debounce(), onChange, onError)
	if err != nil {
		return err
	}

	// Compile once up front so the first output does not wait for a save
	if err := onChange(); err != nil {
		onError(err)
	}
	fmt.Fprintf(errOut, "Watching %s\n", w.Path())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

// compileFile prints the declaration of every gradient in path. Findings go
// to errOut.
func compileFile(out, errOut io.Writer, path string) error {
	f, err := gradgen.LoadDefinitions(path)
	if err != nil {
		return err
	}

	for _, def := range f.Gradients {
		stops, params, findings := def.Resolve()
		for _, finding := range findings {
			fmt.Fprintf(errOut, "%s: %s: %s: %s\n", path, def.Name, finding.Severity, finding.Text)
		}
		if !gradgen.Buildable(findings) {
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", def.Name, gradient.Compile(stops, params).Declaration)
	}
	return nil
}
