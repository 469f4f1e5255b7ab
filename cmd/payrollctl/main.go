// Command payrollctl is the operator-facing front door for the payroll
// engine: it wires internal/config, internal/params, internal/engine,
// internal/payroll, and internal/store into one process, for local
// development, scripted runs, and the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "payrollctl",
		Short: "Canadian payroll compliance engine command line interface",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (optional; defaults apply)")

	root.AddCommand(
		newServeCmd(&configPath),
		newParamsCmd(&configPath),
		newRunCmd(&configPath),
		newCalculateCmd(&configPath),
		newPaystubCmd(&configPath),
	)
	return root
}
