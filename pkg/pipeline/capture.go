package pipeline

import "strings"

// capture keeps a copy of the filter output for the cache, up to limit
// bytes. Past the limit it drops what it holds and ignores further writes.
// Write never fails, so a full capture cannot stop the stream.
type capture struct {
	buf      strings.Builder
	limit    int64
	overflow bool
}

func newCapture(limit int64) *capture {
	return &capture{limit: limit}
}

func (c *capture) Write(p []byte) (int, error) {
	if c.overflow {
		return len(p), nil
	}
	if int64(c.buf.Len())+int64(len(p)) > c.limit {
		c.overflow = true
		c.buf = strings.Builder{}
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *capture) String() string { return c.buf.String() }
