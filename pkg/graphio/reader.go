package graphio

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/geo"
	"lintang/tspanneal/pkg/logging"
	"lintang/tspanneal/pkg/server"
)

// InputType selects the on-disk graph format.
type InputType string

const (
	EdgeList    InputType = "edge_list"
	FullTable   InputType = "full_table"
	Coordinates InputType = "coordinates"
)

func (t InputType) Valid() bool {
	switch t {
	case EdgeList, FullTable, Coordinates:
		return true
	}
	return false
}

type GraphReader struct {
	log *slog.Logger
}

func NewGraphReader(logger *slog.Logger) *GraphReader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GraphReader{log: logger}
}

// Read dispatches on the input type. Coordinate graphs also return the
// positions; the other formats return nil coordinates.
func (r *GraphReader) Read(t InputType, path string) (*datastructure.Graph, []datastructure.Coordinate, error) {
	switch t {
	case EdgeList:
		g, err := r.ReadGraphFromFile(path)
		return g, nil, err
	case FullTable:
		g, err := r.ReadGraphFromFileFullTable(path)
		return g, nil, err
	case Coordinates:
		return r.ReadGraphFromCoordinates(path)
	default:
		return nil, nil, server.WrapErrorf(nil, server.ErrBadParamInput, "unknown input type %q", t)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrIO, "should have been able to read file %s", path)
	}
	defer f.Close()

	lines, err := scanLines(f)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrIO, "reading %s", path)
	}
	return lines, nil
}

func scanLines(rd io.Reader) ([]string, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lines := []string{}
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// MaxVertices bounds the vertex count a header may declare. The dense graph
// holds (n+1)^2 weights, so larger inputs do not fit in memory anyway.
const MaxVertices = 20_000

func parseHeader(path string, lines []string) (int, error) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return 0, server.WrapErrorf(nil, server.ErrParse, "%s: missing vertex count header", path)
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimRight(strings.TrimSpace(lines[0]), ",")))
	if err != nil {
		return 0, server.WrapErrorf(err, server.ErrParse, "%s line 1: expected vertex count, got %q", path, lines[0])
	}
	if n < 1 {
		return 0, server.WrapErrorf(nil, server.ErrParse, "%s line 1: vertex count must be positive, got %d", path, n)
	}
	if n > MaxVertices {
		return 0, server.WrapErrorf(nil, server.ErrParse, "%s line 1: vertex count %d above limit %d", path, n, MaxVertices)
	}
	return n, nil
}

func parseVertex(path string, lineNo int, field string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, server.WrapErrorf(err, server.ErrParse, "%s line %d: expected vertex number, got %q", path, lineNo, field)
	}
	if v < 1 || v > n {
		return 0, server.WrapErrorf(nil, server.ErrParse, "%s line %d: vertex %d outside 1..%d", path, lineNo, v, n)
	}
	return v, nil
}

func parseWeight(field string) (datastructure.Weight, error) {
	w, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
	if err != nil {
		return 0, err
	}
	return datastructure.Weight(w), nil
}

// ReadGraphFromFile parses the comma separated edge list format: the vertex
// count, then one "v1, v2, weight" line per edge. Lines without exactly three
// fields are skipped with a warning. Unlisted pairs stay at weight 0.
func (r *GraphReader) ReadGraphFromFile(path string) (*datastructure.Graph, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	n, err := parseHeader(path, lines)
	if err != nil {
		return nil, err
	}

	graph := datastructure.NewGraph(n)
	for i, line := range lines[1:] {
		lineNo := i + 2
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			r.log.Warn("skipping edge line", "file", path, "line", lineNo, "fields", len(fields))
			continue
		}
		v1, err := parseVertex(path, lineNo, fields[0], n)
		if err != nil {
			return nil, err
		}
		v2, err := parseVertex(path, lineNo, fields[1], n)
		if err != nil {
			return nil, err
		}
		w, err := parseWeight(fields[2])
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrParse, "%s line %d: expected weight, got %q", path, lineNo, fields[2])
		}
		if v1 == v2 {
			r.log.Warn("ignoring self loop", "file", path, "line", lineNo, "vertex", v1)
			continue
		}
		graph.SetEdge(v1, v2, w)
	}
	return graph, nil
}

// ReadGraphFromFileFullTable parses the dense format: the vertex count, then n
// rows of n whitespace separated weights. Every cell must parse and the
// matrix must be symmetric. Diagonal cells are ignored.
func (r *GraphReader) ReadGraphFromFileFullTable(path string) (*datastructure.Graph, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	n, err := parseHeader(path, lines)
	if err != nil {
		return nil, err
	}
	if len(lines)-1 < n {
		return nil, server.WrapErrorf(nil, server.ErrParse, "%s: expected %d matrix rows, got %d", path, n, len(lines)-1)
	}

	graph := datastructure.NewGraph(n)
	for i := 1; i <= n; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < n {
			return nil, server.WrapErrorf(nil, server.ErrParse, "%s row %d: expected %d weights, got %d", path, i, n, len(fields))
		}
		for j := 1; j <= n; j++ {
			w, err := parseWeight(fields[j-1])
			if err != nil {
				return nil, server.WrapErrorf(err, server.ErrParse, "%s: expected weight but got %q on index (%d, %d)", path, fields[j-1], i, j)
			}
			if i == j {
				continue
			}
			if j < i && graph.WeightAt(j, i) != w {
				return nil, server.WrapErrorf(nil, server.ErrParse, "%s: matrix is not symmetric on index (%d, %d): %d != %d",
					path, i, j, w, graph.WeightAt(j, i))
			}
			graph.SetEdge(i, j, w)
		}
	}
	return graph, nil
}

// ReadGraphFromCoordinates parses the vertex count then n "lat, lon" lines and
// builds the complete graph of great-circle distances in meters.
func (r *GraphReader) ReadGraphFromCoordinates(path string) (*datastructure.Graph, []datastructure.Coordinate, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, nil, err
	}
	n, err := parseHeader(path, lines)
	if err != nil {
		return nil, nil, err
	}

	coords := make([]datastructure.Coordinate, 0, n)
	for i, line := range lines[1:] {
		if len(coords) == n {
			break
		}
		lineNo := i + 2
		fields := strings.FieldsFunc(line, func(c rune) bool { return c == ',' || unicode.IsSpace(c) })
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, nil, server.WrapErrorf(nil, server.ErrParse, "%s line %d: expected \"lat, lon\", got %q", path, lineNo, line)
		}
		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, nil, server.WrapErrorf(err, server.ErrParse, "%s line %d: invalid latitude %q", path, lineNo, fields[0])
		}
		lon, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, nil, server.WrapErrorf(err, server.ErrParse, "%s line %d: invalid longitude %q", path, lineNo, fields[1])
		}
		coords = append(coords, datastructure.NewCoordinate(lat, lon))
	}
	if len(coords) < n {
		return nil, nil, server.WrapErrorf(nil, server.ErrParse, "%s: expected %d coordinates, got %d", path, n, len(coords))
	}
	return geo.GraphFromCoordinates(coords), coords, nil
}
