// Package poolctl implements the poolctl command line.
package poolctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Run executes poolctl with args. It returns an error instead of exiting,
// enabling reuse from tests.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := buildRootCmdWith(defaultConfig(), out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// Main is the poolctl entry point.
func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
