package core

// stream.go conditions the uploaded byte stream before CSV decoding.
//
// Real-world exports arrive with UTF-8 or UTF-16 BOMs (Excel on Windows) and
// the occasional invalid byte. Everything downstream assumes clean UTF-8, so
// the stream is run through an encoding transform first. The wrapping keeps
// memory at O(buffer) regardless of file size.

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf8BOM decodes UTF-16 input when a BOM announces it, strips a UTF-8 BOM,
// and replaces invalid sequences with U+FFFD.
var utf8BOM = unicode.BOMOverride(unicode.UTF8.NewDecoder())

// countingReader tracks bytes consumed from the upload for logging.
type countingReader struct {
	r         io.Reader
	bytesRead int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.bytesRead += int64(n)
	return n, err
}

// conditionedReader wraps r so the CSV decoder sees sanitized UTF-8.
// The returned counter reports raw bytes read from the upload.
func conditionedReader(r io.Reader) (io.Reader, *countingReader) {
	counter := &countingReader{r: r}
	return transform.NewReader(counter, utf8BOM), counter
}
