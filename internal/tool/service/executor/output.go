package executor

import (
	"bytes"

	"github.com/Cyclone1070/warden/internal/tool/helper/content"
)

const binaryMarker = "[Binary Content]"

// collector captures one output stream up to a byte limit. Once the leading
// sample looks binary the rest of the stream is discarded.
type collector struct {
	buf       bytes.Buffer
	limit     int
	sample    []byte
	sampleCap int
	binary    bool
	truncated bool
}

func newCollector(limit, sampleCap int) *collector {
	return &collector{limit: limit, sampleCap: sampleCap}
}

func (c *collector) Write(p []byte) (int, error) {
	n := len(p)
	if c.binary {
		return n, nil
	}

	if len(c.sample) < c.sampleCap {
		take := min(len(p), c.sampleCap-len(c.sample))
		c.sample = append(c.sample, p[:take]...)
		if content.IsBinaryContent(c.sample) {
			c.binary = true
			c.truncated = true
			c.buf.Reset()
			return n, nil
		}
	}

	room := c.limit - c.buf.Len()
	if room <= 0 {
		c.truncated = true
		return n, nil
	}
	if len(p) > room {
		p = p[:room]
		c.truncated = true
	}
	c.buf.Write(p)
	return n, nil
}

func (c *collector) String() string {
	if c.binary {
		return binaryMarker
	}
	return c.buf.String()
}

func (c *collector) Truncated() bool {
	return c.truncated
}
