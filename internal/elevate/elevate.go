// Package elevate locates the privileged copier binary and runs it through
// an external privilege-elevation front-end.
package elevate

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CopierName is the privileged copier binary, installed as a sibling of the
// orchestrator.
const CopierName = "wd-copier"

// CopierPath returns the expected path of the copier binary next to the
// currently running executable.
func CopierPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate current executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), CopierName), nil
}

// Run invokes the copier through the elevation front-end (e.g. "sudo"),
// echoing the command line first, and blocks until it exits. Stdio is passed
// through so the copier's progress output reaches the operator directly.
func Run(frontend, copier, src, dst string) error {
	fmt.Printf("%s %s %s %s\n", frontend, copier, src, dst)

	cmd := exec.Command(frontend, copier, src, dst)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", copier, err)
	}
	return nil
}
