package harness

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/server"
)

func ResultPath(input string, i int) string {
	return fmt.Sprintf("%s_%d.out.csv", input, i)
}

func TracePath(input string, i int) string {
	return fmt.Sprintf("%s_%d.plot.csv", input, i)
}

func MemPath(input string) string {
	return input + ".out.mem"
}

// ResultLine is "duration_ns, final_cost, [v1 - v2 - ...]".
func ResultLine(d time.Duration, cost datastructure.Cost, tour []int) string {
	return fmt.Sprintf("%d, %d, %s\n", d.Nanoseconds(), cost, datastructure.RenderTour(tour))
}

func WriteResult(path string, d time.Duration, cost datastructure.Cost, tour []int) error {
	if err := os.WriteFile(path, []byte(ResultLine(d, cost, tour)), 0o644); err != nil {
		return server.WrapErrorf(err, server.ErrIO, "expected to write output file %s", path)
	}
	return nil
}

// WriteTraceTo writes one "elapsed_ns, cost" line per accepted state.
func WriteTraceTo(w io.Writer, trace []heuristics.TracePoint) error {
	bw := bufio.NewWriter(w)
	for _, p := range trace {
		if _, err := fmt.Fprintf(bw, "%d, %d\n", p.Elapsed.Nanoseconds(), p.Cost); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func WriteTrace(path string, trace []heuristics.TracePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return server.WrapErrorf(err, server.ErrIO, "expected to write trace file %s", path)
	}
	return closeTrace(f, path, WriteTraceTo(f, trace))
}

func closeTrace(f io.Closer, path string, writeErr error) error {
	closeErr := f.Close()
	if writeErr != nil {
		return server.WrapErrorf(writeErr, server.ErrIO, "writing trace file %s", path)
	}
	if closeErr != nil {
		return server.WrapErrorf(closeErr, server.ErrIO, "closing trace file %s", path)
	}
	return nil
}
