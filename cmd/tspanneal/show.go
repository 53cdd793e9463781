package main

import (
	"fmt"
	"log"
	"time"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/kv"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "List stored runs or print one of them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := appCfg.Run.StoreDir
		overrideString(cmd, "store", &dir)
		if dir == "" {
			log.Fatal("no run store configured, pass --store")
		}
		withTrace, _ := cmd.Flags().GetBool("trace")

		kvDB, err := kv.Open(dir)
		if err != nil {
			log.Fatal(err)
		}
		defer kvDB.Close()

		if len(args) == 0 {
			ids, err := kvDB.ListRunIDs()
			if err != nil {
				fatalClosing(kvDB, err)
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return
		}

		rec, err := kvDB.GetRun(args[0])
		if err != nil {
			fatalClosing(kvDB, err)
		}
		fmt.Printf("run:        %s\n", rec.ID)
		fmt.Printf("input:      %s\n", rec.Input)
		fmt.Printf("seed:       %d\n", rec.Seed)
		fmt.Printf("created:    %s\n", time.Unix(0, rec.CreatedAtNs).Format(time.RFC3339))
		fmt.Printf("duration:   %s\n", time.Duration(rec.DurationNs))
		fmt.Printf("cost:       %d\n", rec.Cost)
		fmt.Printf("tour:       %s\n", renderTour32(rec.Tour))
		fmt.Printf("eras:       %d, iterations %d, accepted %d\n", rec.Eras, rec.Iterations, rec.Accepted)
		if rec.HasBest {
			fmt.Printf("best cost:  %d\n", rec.BestCost)
			fmt.Printf("best tour:  %s\n", renderTour32(rec.BestTour))
		}
		if withTrace {
			for _, p := range rec.Trace {
				fmt.Printf("%d, %d\n", p.ElapsedNs, p.Cost)
			}
		}
	},
}

func renderTour32(tour []int32) string {
	t := make([]int, len(tour))
	for i, v := range tour {
		t[i] = int(v)
	}
	return datastructure.RenderTour(t)
}

func init() {
	showCmd.Flags().String("store", "", "pebble directory holding the runs")
	showCmd.Flags().Bool("trace", false, "also print the accepted-state trace")
	rootCmd.AddCommand(showCmd)
}
