package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"sarpublish.run/cmd/sarpublish/deps"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	container, err := deps.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := container.Invoke(func(cmd *cobra.Command) error {
		return cmd.ExecuteContext(ctx)
	}); err != nil {
		os.Exit(1)
	}
}
