// Package gradgen compiles CSS gradients from color stop definitions.
//
// A gradient is an ordered list of two to five color stops plus a type
// (linear, radial, conic or one of their repeating variants), an angle and a
// smoothness level. Compiling it yields the background-image declaration a
// browser would render.
//
// # Definition files
//
// Gradients can be kept in YAML files:
//
//	gradients:
//	  - name: sunset
//	    type: linear
//	    angle: 90
//	    stops:
//	      - color: "#ff5f6d"
//	        position: 0
//	      - color: "#ffc371"
//	        position: 100
//
// # Building
//
// Build compiles every definition under a directory into one stylesheet:
//
//	result, err := gradgen.Build(ctx, gradgen.BuildConfig{
//		SourceDir: "design/gradients",
//		Includes:  []string{"**/*.yaml"},
//		Output:    "web/styles/gradients.css",
//	})
//
// # Checking
//
// Check validates definitions and reports issues in golangci-lint format:
//
//	result, err := gradgen.Check(ctx, gradgen.CheckConfig{
//		SourceDir: "design/gradients",
//		Includes:  []string{"**/*.yaml"},
//	})
//
// # CLI Tool
//
// gradgen also provides a CLI tool with an interactive terminal editor:
//
//	go install github.com/yacobolo/gradgen/cmd/gradgen@latest
package gradgen

import (
	"log/slog"

	"github.com/yacobolo/gradgen/internal/logging"
)

// SetLogger routes the library's diagnostic logging to l. Passing nil
// silences it again, which is also the default.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the logger currently used by the library.
func Logger() *slog.Logger {
	return logging.Logger()
}
