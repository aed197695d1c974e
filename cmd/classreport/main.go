// classreport builds confusion-matrix reports from classification records.
//
// Usage:
//
//	classreport report  --data <path> [filters] [--format ascii|markdown|csv|json]
//	classreport export  --data <path> [filters] [-o report.xlsx] [--details-only]
//	classreport options --data <path> [--dimension useCase]
//	classreport serve   [--addr :8080] [--data <path>]
//	classreport mcp     [--data <path>]
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
