package sink

import (
	"os"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

// keyringBackends returns the backends OpenKeyring may use. WSL and headless
// Linux have no usable secret service, so only the passphrase-protected file
// backend is allowed there. nil lets keyring pick.
func keyringBackends() []keyring.BackendType {
	if IsWSL() || IsHeadless() {
		return []keyring.BackendType{keyring.FileBackend}
	}
	return nil
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return wslKernel(string(data))
}

func wslKernel(procVersion string) bool {
	v := strings.ToLower(procVersion)
	return strings.Contains(v, "microsoft") || strings.Contains(v, "wsl")
}

// IsHeadless returns true on Linux without an X11 or Wayland display.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
