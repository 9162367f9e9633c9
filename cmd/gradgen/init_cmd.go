package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .gradgen.yaml config file",
	Long:  `Create a .gradgen.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# gradgen configuration
# Docs: https://github.com/yacobolo/gradgen

# Shared settings
verbose: false
color: false

# Where edit and compile --save keep the last style
store:
  driver: file             # file | sqlite
  path: ""                 # empty = user config dir

# Defaults for compile, edit and preview without --from
compile:
  type: linear             # linear | radial | conic | repeating-linear | repeating-radial | repeating-conic
  angle: 90
  smoothness: 0
  stops:
    - "#ff5f6d@0"
    - "#ffc371@100"
  format: declaration      # declaration | inline | pretty | style | json

# Stylesheet generation
build:
  source: design/gradients
  include:
    - "**/*.yaml"
    - "**/*.yml"
  output: web/styles/gradients.css
  format: css              # css | json
  class-prefix: gradient
  concurrency: 0           # 0 = default

# Definition checks
check:
  strict: false
  output-format: issues    # issues | summary | full | json | markdown
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true

preview:
  width: 800
  height: 400

watch:
  debounce: 500ms
  rebuild: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
