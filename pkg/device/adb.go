// Package device discovers Android devices through ADB. The automation
// server owns the device once a session starts; this package only answers
// "which device" and basic preflight questions before that.
package device

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ADB is a handle to one connected device.
type ADB struct {
	path   string
	serial string
}

// Detect locates the adb binary and binds to the given serial. An empty
// serial binds to the first connected device, which is the common
// single-emulator case.
func Detect(serial string) (*ADB, error) {
	path, err := exec.LookPath("adb")
	if err != nil {
		return nil, fmt.Errorf("adb not found in PATH; ensure the Android SDK platform-tools are installed")
	}

	if serial == "" {
		out, err := run(path, "devices")
		if err != nil {
			return nil, err
		}
		serials := parseSerials(out)
		if len(serials) == 0 {
			return nil, fmt.Errorf("no connected devices found")
		}
		serial = serials[0]
	}

	a := &ADB{path: path, serial: serial}
	if state, err := a.shell("echo ok"); err != nil || !strings.Contains(state, "ok") {
		return nil, fmt.Errorf("device %s is not responding: %v", serial, err)
	}
	return a, nil
}

// Serial returns the bound device serial.
func (a *ADB) Serial() string {
	return a.serial
}

// Model reads the device's product model, used to label recordings when no
// device name was configured.
func (a *ADB) Model() string {
	out, err := a.shell("getprop ro.product.model")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// IsInstalled reports whether the app under test is present on the device.
func (a *ADB) IsInstalled(pkg string) bool {
	out, err := a.shell("pm list packages " + pkg)
	if err != nil {
		return false
	}
	return strings.Contains(out, "package:"+pkg)
}

func (a *ADB) shell(cmd string) (string, error) {
	return run(a.path, "-s", a.serial, "shell", cmd)
}

func run(path string, args ...string) (string, error) {
	cmd := exec.Command(path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if msg == "" {
			msg = stdout.String()
		}
		return "", fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, msg)
	}
	return stdout.String(), nil
}

// parseSerials extracts serials in "device" state from `adb devices` output.
// Offline and unauthorized entries are skipped.
func parseSerials(out string) []string {
	var serials []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "device" {
			serials = append(serials, fields[0])
		}
	}
	return serials
}
