package graphio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/server"
)

// WriteEdgeList writes the graph in the edge list format ReadGraphFromFile
// accepts, emitting only strictly lower-triangular weighted pairs.
func WriteEdgeList(w io.Writer, g *datastructure.Graph) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", g.NumberOfVertex()); err != nil {
		return err
	}
	for _, e := range g.Edges() {
		if _, err := fmt.Fprintf(bw, "%d, %d, %d\n", e.From, e.To, e.Weight); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func SaveToFile(path string, g *datastructure.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return server.WrapErrorf(err, server.ErrIO, "should be able to write file %s", path)
	}
	return closeAfter(f, path, WriteEdgeList(f, g))
}

// closeAfter closes f and reports its error unless the write already failed.
func closeAfter(f io.Closer, path string, writeErr error) error {
	closeErr := f.Close()
	if writeErr != nil {
		return server.WrapErrorf(writeErr, server.ErrIO, "writing %s", path)
	}
	if closeErr != nil {
		return server.WrapErrorf(closeErr, server.ErrIO, "closing %s", path)
	}
	return nil
}
