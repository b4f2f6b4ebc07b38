// Command wd-copier is the privileged half of writedisk. It unmounts
// anything still mounted from the target device, copies the image onto it,
// and blocks until the kernel has flushed the written data to the medium.
//
// It is normally invoked by writedisk through sudo, never directly.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"writedisk/internal/copier"
	"writedisk/internal/mounts"
	"writedisk/internal/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "wd-copier <src> <dst>",
		Short:         "Privileged copier for writedisk",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			src, dst := args[0], args[1]

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))
			slog.SetDefault(logger)

			mounts.NewGuard().UnmountAll(dst)

			bar := ui.NewBar(os.Stdout, "copying... (1/2)")
			return copier.New(bar, os.Stdout).Run(src, dst)
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
