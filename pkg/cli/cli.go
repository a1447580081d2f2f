// Package cli provides the command-line interface for interaction-recorder.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/interaction-recorder/pkg/config"
	"github.com/devicelab-dev/interaction-recorder/pkg/device"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Appium server URL",
		Value:   "http://127.0.0.1:4723",
		EnvVars: []string{"RECORDER_SERVER"},
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Usage:   "Device name or serial (e.g. emulator-5554)",
		EnvVars: []string{"RECORDER_DEVICE"},
	},
	&cli.StringFlag{
		Name:    "app",
		Aliases: []string{"a"},
		Usage:   "App package under test (e.g. com.example.app)",
		EnvVars: []string{"RECORDER_APP"},
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Directory containing config.yaml",
		Value:   ".",
		EnvVars: []string{"RECORDER_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"RECORDER_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write the full session log to a file",
		EnvVars: []string{"RECORDER_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "interaction-recorder",
		Usage:   "Record and replay user interactions on Android apps",
		Version: Version,
		Description: `interaction-recorder captures a user's interactions with an Android
app by polling an Appium UiAutomator2 session, and replays the
resulting recording against a live app instance.

Examples:
  interaction-recorder record --app com.example.app --device emulator-5554
  interaction-recorder replay interaction_log_20260823_101500.json
  interaction-recorder inspect interaction_log_20260823_101500.json`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			recordCommand,
			replayCommand,
			inspectCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the workspace config and initializes logging; flags win over
// config values.
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFromDir(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile := c.String("log-file")
	if logFile == "" {
		logFile = cfg.LogFile
	}
	if err := logger.Init(logger.Options{
		Verbose: c.Bool("verbose"),
		NoColor: c.Bool("no-ansi"),
		LogFile: logFile,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// The server flag carries a default, so it only overrides the config
	// file when explicitly set.
	if c.IsSet("server") || cfg.ServerURL == "" {
		cfg.ServerURL = c.String("server")
	}
	if c.String("device") != "" {
		cfg.DeviceName = c.String("device")
	}
	if c.String("app") != "" {
		cfg.AppPackage = c.String("app")
	}

	return cfg, nil
}

// resolveDevice fills in the device serial via ADB when none was configured
// and runs a best-effort preflight for the app package. A missing adb is
// only an error when we had no serial to fall back on.
func resolveDevice(name, appPackage string) (string, error) {
	adb, err := device.Detect(name)
	if err != nil {
		if name != "" {
			logger.Debug("adb preflight skipped", "error", err)
			return name, nil
		}
		return "", fmt.Errorf("no device specified and auto-detect failed: %w", err)
	}

	logger.Debug("device resolved", "serial", adb.Serial(), "model", adb.Model())
	if appPackage != "" && !adb.IsInstalled(appPackage) {
		logger.Warn("app package not found on device",
			"app", appPackage, "device", adb.Serial())
	}
	return adb.Serial(), nil
}
