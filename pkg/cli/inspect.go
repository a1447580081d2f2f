package cli

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
)

var inspectCommand = &cli.Command{
	Name:      "inspect",
	Usage:     "Print a summary of a recording without replaying it",
	ArgsUsage: "<recording.json>",
	Action:    runInspect,
}

func runInspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one recording file argument")
	}

	rec, err := recording.Load(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}

	fmt.Printf("App package:   %s\n", rec.AppPackage)
	fmt.Printf("Device:        %s\n", rec.DeviceName)
	if !rec.RecordedAt.Time().IsZero() {
		fmt.Printf("Recorded at:   %s\n", rec.RecordedAt.Time().Format("2006-01-02 15:04:05"))
	}
	if activity := rec.LaunchActivity(); activity != "" {
		fmt.Printf("First activity: %s\n", activity)
	}
	fmt.Printf("Events:        %d\n", len(rec.Events))
	fmt.Printf("Activities:    %d\n", recording.DistinctActivities(rec.Events))

	counts := make(map[recording.ActionType]int)
	for _, ev := range rec.Events {
		counts[ev.Type]++
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	fmt.Println("\nEvent types:")
	for _, t := range types {
		fmt.Printf("  %-16s %d\n", t, counts[recording.ActionType(t)])
	}
	return nil
}
