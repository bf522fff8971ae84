package graph6

import (
	"bufio"
	"io"
	"strings"

	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/graph"
)

// MaxLineBytes bounds a single graph6 record. A graph on 4096 vertices
// needs about 1.4 MB.
const MaxLineBytes = 64 << 20

// Reader decodes a stream of graph6 records. It implements stream.Source.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	return &Reader{sc: sc}
}

// Line returns the number of the last line read.
func (r *Reader) Line() int { return r.line }

// Next returns the next graph, or io.EOF at end of input. Blank lines are
// skipped. The header is recognised at the start of the first line only.
// Malformed records yield an error carrying the line number.
func (r *Reader) Next() (*graph.Graph, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimRight(r.sc.Text(), "\r")
		if r.line == 1 {
			text = strings.TrimPrefix(text, Header)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		g, err := decode(text)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph,
				&errs.LineError{Line: r.line, Text: clip(text), Err: err}, "decode graph6")
		}
		return g, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read graph6 input at line %d", r.line+1)
	}
	return nil, io.EOF
}

func clip(s string) string {
	const max = 32
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
