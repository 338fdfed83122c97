// File: main.go
// Role: routingctl, a thin CLI harness that exercises one snap plus one
// edge-based route end to end against a small synthetic grid network,
// using the cobra/pflag stack for its command tree.

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
	root := &cobra.Command{
		Use:   "routingctl",
		Short: "Exercise a snap and an edge-based route against a small demo network",
	}
	root.AddCommand(newRouteCmd())

	return root
}
