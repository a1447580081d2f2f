package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/interaction-recorder/pkg/driver/appium"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
	"github.com/devicelab-dev/interaction-recorder/pkg/replayer"
)

var replayCommand = &cli.Command{
	Name:      "replay",
	Usage:     "Replay a recording against a live app instance",
	ArgsUsage: "<recording.json>",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "Settle time after each replayed event",
			Value: 500 * time.Millisecond,
		},
		&cli.DurationFlag{
			Name:  "resolve-timeout",
			Usage: "Bounded wait per element-resolution strategy",
			Value: 5 * time.Second,
		},
		&cli.StringFlag{
			Name:  "input-text",
			Usage: "Text typed for text_input events without a recorded value",
			Value: replayer.DefaultInputText,
		},
	},
	Action: runReplay,
}

func runReplay(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one recording file argument")
	}

	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Close()

	rec, err := recording.Load(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}

	appPackage := cfg.AppPackage
	if appPackage == "" {
		appPackage = rec.AppPackage
	}
	deviceName := cfg.DeviceName
	if deviceName == "" {
		deviceName = rec.DeviceName
	}
	deviceName, err = resolveDevice(deviceName, appPackage)
	if err != nil {
		return err
	}

	device, err := appium.NewDriver(cfg.ServerURL, appium.Options{
		DeviceName:  deviceName,
		AppPackage:  appPackage,
		AppActivity: rec.LaunchActivity(),
		NoReset:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to automation server: %w", err)
	}
	defer device.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputText := c.String("input-text")
	if !c.IsSet("input-text") && cfg.InputText != "" {
		inputText = cfg.InputText
	}
	eventDelay := c.Duration("delay")
	if !c.IsSet("delay") && cfg.EventDelayMs > 0 {
		eventDelay = time.Duration(cfg.EventDelayMs) * time.Millisecond
	}
	resolveTimeout := c.Duration("resolve-timeout")
	if !c.IsSet("resolve-timeout") && cfg.ResolveTimeoutMs > 0 {
		resolveTimeout = time.Duration(cfg.ResolveTimeoutMs) * time.Millisecond
	}

	engine := replayer.New(device, replayer.Config{
		EventDelay:     eventDelay,
		ResolveTimeout: resolveTimeout,
		InputText:      inputText,
	})

	summary, err := engine.Replay(ctx, rec)
	if err != nil {
		return err
	}

	fmt.Printf("Replayed %d/%d events (%d skipped)\n",
		summary.Executed, summary.Total, summary.Skipped)
	return nil
}
