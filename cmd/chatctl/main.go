package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Operator tools for the HR desk chat gateway",
	Long: `chatctl mints development tokens and runs messages through the
configured chat backend without starting the HTTP server.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(tokenCmd, askCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
