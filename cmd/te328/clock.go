package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thinety/te328/pkg/clock"
)

func init() {
	clockCmd.Flags().StringVarP(&clockOpts.Board, "board", "b", "mock", "board backend: mock, serial or gpio")
	clockCmd.Flags().StringVar(&clockOpts.Variant, "variant", "", "clock variant: seconds or milliseconds (overrides config)")
	rootCmd.AddCommand(clockCmd)
}

var (
	clockCmd = &cobra.Command{
		Use:   "clock",
		Short: "Run the reversible seven segment clock",
		Long: `Run the reversible clock: three buttons (start/stop, swap direction,
reset) drive a wrapping time counter rendered on two seven segment digits.`,
		RunE: runClock,
	}
	clockOpts = struct {
		Board   string
		Variant string
	}{}
)

func runClock(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name := cfg.Clock.Variant
	if clockOpts.Variant != "" {
		name = clockOpts.Variant
	}
	variant, err := clock.Parse(name)
	if err != nil {
		return err
	}

	brd, err := newBoard(cfg, clockOpts.Board)
	if err != nil {
		return err
	}
	if err := brd.Connect(); err != nil {
		return err
	}
	defer brd.Close()

	clk := clock.New(variant)
	drv := clock.NewDriver(clk, brd, cfg.Clock.RefreshRate)

	drv.OnUpdate(func(snap clock.Snapshot) {
		state := "run "
		if !snap.Running {
			state = "stop"
		}
		dir := "up"
		if !snap.Ascending {
			dir = "down"
		}
		fmt.Printf("\r%02d  [%s %-4s]  ", snap.DisplayValue(variant), state, dir)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = drv.Run(ctx)
	fmt.Println()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
