package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thinety/te328/pkg/adc"
)

func init() {
	sampleCmd.Flags().BoolVarP(&sampleOpts.Enable, "enable", "e", false, "start transmitting immediately instead of waiting for a '1' command")
	rootCmd.AddCommand(sampleCmd)
}

var (
	sampleCmd = &cobra.Command{
		Use:   "sample",
		Short: "Run the auto-triggered ADC sampler",
		Long: `Sample the (simulated) analog input at the configured rate and
transmit the readings as four-digit decimal lines. Transmission is
gated by '0'/'1' command bytes on standard input.`,
		RunE: runSample,
	}
	sampleOpts = struct {
		Enable bool
	}{}
)

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src := adc.NewSineSource(&cfg.Mock, &cfg.ADC)
	sampler := adc.NewSampler(src, &cfg.ADC)

	tx := adc.NewTransmitter(os.Stdout)
	if sampleOpts.Enable {
		tx.HandleCommand('1')
	}
	go tx.ReadCommands(os.Stdin)

	if err := sampler.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sampler.Stop()
	}()

	// Returns when the sampler is stopped and its channel drained.
	tx.Run(sampler.Samples())

	return nil
}
