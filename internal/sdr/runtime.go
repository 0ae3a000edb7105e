//go:build !windows

package sdr

import (
	"fmt"
	"os/exec"
)

// FindRuntime locates a sweep tool in PATH.
func FindRuntime(runtime string) (string, error) {
	binPath, err := exec.LookPath(runtime)
	if err != nil {
		return "", NewRuntimeError(fmt.Sprintf("`%s` not found in PATH", runtime), err)
	}

	return binPath, nil
}
