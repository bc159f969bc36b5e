package core

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// RowReader is a lazy, finite, single-pass sequence of decoded CSV rows.
// Next returns io.EOF after the last row; any other error is terminal and
// the sequence must not be read again.
type RowReader interface {
	Next() (UserRecord, error)
}

// csvRowReader decodes an uploaded CSV byte stream into row maps keyed by
// the header row. Ragged rows are padded or truncated to the header width
// rather than treated as errors; real-world exports are rarely rectangular.
type csvRowReader struct {
	reader  *csv.Reader
	headers []string
	counter *countingReader
	err     error
}

// NewRowReader wraps r in encoding conditioning and CSV decoding.
// The header row is consumed lazily on the first Next call so that opening
// the stream never blocks on I/O.
func NewRowReader(r io.Reader) RowReader {
	conditioned, counter := conditionedReader(r)

	cr := csv.NewReader(conditioned)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	return &csvRowReader{reader: cr, counter: counter}
}

func (c *csvRowReader) Next() (UserRecord, error) {
	if c.err != nil {
		return nil, c.err
	}

	if c.headers == nil {
		if err := c.readHeader(); err != nil {
			c.err = err
			return nil, err
		}
	}

	row, err := c.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			c.err = io.EOF
			return nil, io.EOF
		}
		c.err = &DecodeError{Err: err}
		return nil, c.err
	}

	rec := make(UserRecord, len(c.headers))
	for i, h := range c.headers {
		if i < len(row) {
			rec[h] = row[i]
		} else {
			rec[h] = ""
		}
	}
	return rec, nil
}

func (c *csvRowReader) readHeader() error {
	headers, err := c.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: no header, no rows.
			return io.EOF
		}
		return &DecodeError{Err: err}
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	c.headers = headers
	return nil
}

// BytesRead reports raw upload bytes consumed so far.
func (c *csvRowReader) BytesRead() int64 {
	if c.counter == nil {
		return 0
	}
	return c.counter.bytesRead
}
