// Command writedisk is the unprivileged orchestrator: it discovers
// removable USB block devices, resolves the operator's choice of target,
// and hands the actual write to the privileged copier.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"writedisk/internal/config"
	"writedisk/internal/elevate"
	"writedisk/internal/usb"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		deviceName  string
		sudoCommand string
		verbose     bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "writedisk [flags] <image>",
		Short: "Write a disk image to a removable USB disk",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "writedisk %s\n", version)
				return nil
			}
			image := args[0]

			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			}))
			slog.SetDefault(logger)

			// Check the input file before touching any device state.
			if _, err := os.Stat(image); err != nil {
				fmt.Fprintf(os.Stderr, "file not found: %s\n", image)
				return &exitError{code: 1}
			}

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults, &deviceName, &sudoCommand)

			devices, err := usb.NewScanner().Scan()
			if err != nil {
				return fmt.Errorf("device discovery: %w", err)
			}

			device, err := usb.Select(devices, deviceName, os.Stdin, os.Stdout)
			if err != nil {
				fmt.Println(err)
				return &exitError{code: 1}
			}

			copier, err := elevate.CopierPath()
			if err != nil {
				return err
			}
			if err := elevate.Run(sudoCommand, copier, image, device.Path); err != nil {
				slog.Debug("copier failed", "error", err)
				fmt.Println("copy failed")
				return &exitError{code: 1}
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().
		StringVar(&deviceName, "device-name", "", "full name of the target USB disk, e.g. \"Samsung PSSD T7 S1SLVX2T1210\"; skips the interactive list")
	rootCmd.Flags().
		StringVar(&sudoCommand, "sudo-command", "sudo", "privilege elevation command used to run the copier")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly
// set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	deviceName *string,
	sudoCommand *string,
) {
	if !cmd.Flags().Changed("device-name") && defaults.DeviceName != nil {
		*deviceName = *defaults.DeviceName
	}
	if !cmd.Flags().Changed("sudo-command") && defaults.SudoCommand != nil {
		*sudoCommand = *defaults.SudoCommand
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
