package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/interaction-recorder/pkg/driver/appium"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
	"github.com/devicelab-dev/interaction-recorder/pkg/recorder"
)

var recordCommand = &cli.Command{
	Name:  "record",
	Usage: "Capture user interactions into a JSON recording",
	Description: `Polls the app's UI tree and records every detected user interaction.
Stop with Ctrl+C; the recording is saved on exit.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file (default: interaction_log_<timestamp>.json)",
		},
		&cli.DurationFlag{
			Name:  "poll-interval",
			Usage: "Gap between UI polls",
			Value: recorder.DefaultPollInterval,
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Reset app state when the session starts",
		},
	},
	Action: runRecord,
}

func runRecord(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Close()

	if cfg.AppPackage == "" {
		return fmt.Errorf("app package is required (--app or appPackage in config.yaml)")
	}

	deviceName, err := resolveDevice(cfg.DeviceName, cfg.AppPackage)
	if err != nil {
		return err
	}

	noReset := !c.Bool("reset")
	if !c.IsSet("reset") && cfg.NoReset != nil {
		noReset = *cfg.NoReset
	}

	device, err := appium.NewDriver(cfg.ServerURL, appium.Options{
		DeviceName: deviceName,
		AppPackage: cfg.AppPackage,
		NoReset:    noReset,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to automation server: %w", err)
	}
	defer device.Close()

	output := c.String("output")
	if output == "" {
		name := fmt.Sprintf("interaction_log_%s.json", time.Now().Format("20060102_150405"))
		output = filepath.Join(cfg.OutputDir, name)
	}

	pollInterval := c.Duration("poll-interval")
	if !c.IsSet("poll-interval") && cfg.PollIntervalMs > 0 {
		pollInterval = time.Duration(cfg.PollIntervalMs) * time.Millisecond
	}

	// Interrupts surface between poll cycles; the session saves on exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("press Ctrl+C to stop and save")
	session := recorder.NewSession(device, recorder.SessionConfig{
		AppPackage:   cfg.AppPackage,
		DeviceName:   deviceName,
		OutputPath:   output,
		PollInterval: pollInterval,
	})
	return session.Run(ctx)
}
