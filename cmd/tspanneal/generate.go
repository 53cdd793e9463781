package main

import (
	"fmt"
	"log"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/graphgen"
	"lintang/tspanneal/pkg/graphio"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random connected graph and save it as an edge list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		n, _ := flags.GetInt("vertices")
		minW, _ := flags.GetUint32("min-weight")
		maxW, _ := flags.GetUint32("max-weight")
		extra, _ := flags.GetInt("additional-edges")
		seed, _ := flags.GetUint64("seed")
		out, _ := flags.GetString("output")
		show, _ := flags.GetBool("print-graph")

		seed = seedOrNow(seed)
		graph, err := graphgen.GenerateRandomCompleteGraph(rand.New(rand.NewSource(seed)), n,
			graphgen.WeightRange{Min: datastructure.Weight(minW), Max: datastructure.Weight(maxW)}, extra)
		if err != nil {
			log.Fatal(err)
		}
		if show {
			fmt.Println(graph.Format())
		}
		if err := graphio.SaveToFile(out, graph); err != nil {
			log.Fatal(err)
		}
		logger.Info("graph written", "output", out, "n", n, "edges", len(graph.Edges()), "seed", seed)
	},
}

func init() {
	f := generateCmd.Flags()
	f.IntP("vertices", "n", 10, "number of vertices")
	f.Uint32("min-weight", 1, "smallest edge weight (inclusive)")
	f.Uint32("max-weight", 100, "largest edge weight (exclusive)")
	f.IntP("additional-edges", "e", 0, "edges added on top of the spanning tree")
	f.Uint64("seed", 0, "generator seed, 0 draws one from the clock")
	f.StringP("output", "o", "graph.csv", "edge list file to write")
	f.Bool("print-graph", false, "print the weight matrix")
	rootCmd.AddCommand(generateCmd)
}
