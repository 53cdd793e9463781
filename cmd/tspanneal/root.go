package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"lintang/tspanneal/pkg/config"
	"lintang/tspanneal/pkg/kv"
	"lintang/tspanneal/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	appCfg = config.Default()
	logger = logging.New(slog.LevelInfo)
)

var rootCmd = &cobra.Command{
	Use:   "tspanneal",
	Short: "tspanneal approximates traveling salesman tours with simulated annealing",
	Long: `tspanneal reads a weighted graph (edge list, full table or coordinates),
treats missing edges as maximal cost and searches tours with simulated annealing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		appCfg = cfg
		logger = logging.New(logging.ParseLevel(cfg.LogLevel))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file with annealing and run parameters")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
}

// seedOrNow keeps an explicit seed, otherwise draws one from the clock.
func seedOrNow(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

// fatalClosing closes the run store, if one is open, before log.Fatal exits
// past every deferred Close.
func fatalClosing(db *kv.KVDB, v ...interface{}) {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("closing run store", "err", err)
		}
	}
	log.Fatal(v...)
}
