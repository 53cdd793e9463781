package main

import (
	"fmt"
	"log"
	"time"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/graphio"
	"lintang/tspanneal/pkg/harness"
	"lintang/tspanneal/pkg/kv"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Anneal a graph file number-of-tests times and write per-run artifacts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		inputType, _ := flags.GetString("type-of-input")
		input, _ := flags.GetString("input")
		printGraph, _ := flags.GetBool("print-graph")
		noArtifacts, _ := flags.GetBool("no-artifacts")
		noSpinner, _ := flags.GetBool("no-spinner")

		cfg := appCfg
		overrideInt(cmd, "number-of-tests", &cfg.Run.Tests)
		overrideInt(cmd, "workers", &cfg.Run.Workers)
		overrideUint64(cmd, "seed", &cfg.Run.Seed)
		overrideDuration(cmd, "budget", &cfg.Run.Budget)
		overrideString(cmd, "store", &cfg.Run.StoreDir)
		overrideFloat(cmd, "temperature", &cfg.Annealing.InitialTemperature)
		overrideInt(cmd, "era-len", &cfg.Annealing.EraLength)
		overrideFloat(cmd, "floor", &cfg.Annealing.TemperatureFloor)
		overrideFloat(cmd, "coolant", &cfg.Annealing.CoolingMultiplier)
		overrideBool(cmd, "track-best", &cfg.Annealing.TrackBest)
		overrideBool(cmd, "normalize-initial-cost", &cfg.Annealing.NormalizeInitialCost)
		overrideBool(cmd, "two-opt", &cfg.Annealing.PolishTwoOpt)
		overrideInt(cmd, "max-trace-points", &cfg.Annealing.MaxTracePoints)

		t := graphio.InputType(inputType)
		if !t.Valid() {
			log.Fatalf("unknown input type %q (want %s, %s or %s)", inputType, graphio.EdgeList, graphio.FullTable, graphio.Coordinates)
		}
		graph, _, err := graphio.NewGraphReader(logger).Read(t, input)
		if err != nil {
			log.Fatal(err)
		}
		graph.SetZeroToMax()
		if printGraph {
			fmt.Println(graph.Format())
		}

		var (
			kvDB  *kv.KVDB
			store harness.RunStore
		)
		if cfg.Run.StoreDir != "" {
			kvDB, err = kv.Open(cfg.Run.StoreDir)
			if err != nil {
				log.Fatal(err)
			}
			defer kvDB.Close()
			store = kvDB
		}

		budget := cfg.Run.Budget
		seed := seedOrNow(cfg.Run.Seed)
		logger.Info("starting runs", "input", input, "n", graph.NumberOfVertex(), "tests", cfg.Run.Tests, "seed", seed)

		runner, err := harness.NewRunner(graph, harness.RunnerConfig{
			Input:     input,
			Tests:     cfg.Run.Tests,
			Workers:   cfg.Run.Workers,
			Seed:      seed,
			Annealing: cfg.Annealing,
			Budget:    budget,
			OnBudgetExceeded: func(elapsed time.Duration) {
				fatalClosing(kvDB, fmt.Sprintf("Exceeded time limit set to %s!", budget))
			},
			SampleInterval: cfg.Run.SampleInterval,
			Spinner:        !noSpinner,
			WriteArtifacts: !noArtifacts,
		}, store, logger)
		if err != nil {
			fatalClosing(kvDB, err)
		}

		for _, out := range runner.Run() {
			if out.Err != nil {
				fatalClosing(kvDB, out.Err)
			}
			fmt.Printf("\nTime of execution: %d ns\n", out.Duration.Nanoseconds())
			fmt.Printf("Minimum cost is %d on path %s\n", out.Result.Cost, datastructure.RenderTour(out.Result.Tour))
			if out.Result.Best != nil {
				fmt.Printf("Best cost seen is %d on path %s\n", out.Result.Best.Cost, datastructure.RenderTour(out.Result.Best.Tour))
			}
			if out.Result.Polished != nil {
				fmt.Printf("After 2-opt cost is %d on path %s\n", out.Result.Polished.Cost, datastructure.RenderTour(out.Result.Polished.Tour))
			}
			if out.RunID != "" {
				fmt.Printf("Stored as run %s\n", out.RunID)
			}
		}
	},
}

func init() {
	f := runCmd.Flags()
	f.StringP("type-of-input", "t", string(graphio.FullTable), "input format: edge_list, full_table or coordinates")
	f.StringP("input", "i", "in.csv", "graph file")
	f.IntP("number-of-tests", "n", 10, "independent runs")
	f.Int("workers", 1, "runs executed in parallel")
	f.Uint64("seed", 0, "base seed, 0 draws one from the clock")
	f.Duration("budget", 1800*time.Second, "wall-clock limit per run, 0 disables it")
	f.String("store", "", "pebble directory to persist runs in")
	f.Float64("temperature", 1000.0, "initial temperature")
	f.Int("era-len", 100000, "iterations per temperature step")
	f.Float64("floor", 0.1, "temperature at which annealing stops")
	f.Float64("coolant", 0.9, "cooling multiplier in (0,1)")
	f.Bool("track-best", false, "also report the best tour ever accepted")
	f.Bool("normalize-initial-cost", false, "start from the identity tour's cycle cost instead of its path cost")
	f.Bool("two-opt", false, "also report the final tour polished with 2-opt")
	f.Int("max-trace-points", 0, "cap on recorded accepted states, 0 keeps all")
	f.Bool("print-graph", true, "print the weight matrix before running")
	f.Bool("no-artifacts", false, "skip the .out.csv, .plot.csv and .out.mem files")
	f.Bool("no-spinner", false, "disable the progress spinner")
	rootCmd.AddCommand(runCmd)
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func overrideUint64(cmd *cobra.Command, name string, dst *uint64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetUint64(name)
	}
}

func overrideFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetFloat64(name)
	}
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func overrideDuration(cmd *cobra.Command, name string, dst *time.Duration) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetDuration(name)
	}
}
