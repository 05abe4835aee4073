package git

import (
	"fmt"
	"os/exec"
)

// CheckBinary verifies that the configured git binary can be found.
func CheckBinary(bin string) error {
	if bin == "" {
		bin = "git"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("git not found at %q: please install git (https://git-scm.com) or set tools.git in the configuration", bin)
	}
	return nil
}
