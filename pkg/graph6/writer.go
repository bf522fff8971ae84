package graph6

import (
	"bufio"
	"io"

	"github.com/matzehuels/trisieve/pkg/graph"
)

// Writer encodes graphs as graph6 lines. It implements stream.Sink.
// Output is buffered; call Flush when done.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Emit writes g as one graph6 line.
func (w *Writer) Emit(g *graph.Graph) error {
	if _, err := w.w.WriteString(Encode(g)); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of graphs written.
func (w *Writer) Count() int { return w.count }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
