package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thinety/te328/pkg/board"
	"github.com/thinety/te328/pkg/config"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "te328",
	Short: "te328 runs the lab board exercises against a real or emulated board",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	Version: version,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "te328.yaml", "path to the configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newBoard(cfg *config.Config, kind string) (board.Board, error) {
	switch kind {
	case "mock":
		m, err := board.NewMock(&cfg.Mock)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "serial":
		return board.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, 0), nil
	case "gpio":
		return board.NewGPIO(&cfg.GPIO, 0), nil
	}
	return nil, fmt.Errorf("unknown board backend %q", kind)
}
