package core

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = `"Employee Id","First Name","Last Name","Email Address"`

func readAll(t *testing.T, r RowReader) []UserRecord {
	t.Helper()
	var rows []UserRecord
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestRowReader_DecodesRows(t *testing.T) {
	input := csvHeader + "\n" +
		`HAYHAH1234,Jane,Doe,Jane.Doe@yopmail.com` + "\n" +
		`HAYHAH5678,John,Smith,John.Smith@yopmail.com` + "\n"

	rows := readAll(t, NewRowReader(strings.NewReader(input)))

	require.Len(t, rows, 2)
	assert.Equal(t, "HAYHAH1234", rows[0][ColEmployeeID])
	assert.Equal(t, "Jane", rows[0][ColFirstName])
	assert.Equal(t, "Doe", rows[0][ColLastName])
	assert.Equal(t, "Jane.Doe@yopmail.com", rows[0][ColEmail])
	assert.Equal(t, "John.Smith@yopmail.com", rows[1][ColEmail])
}

func TestRowReader_EmptyFileIsEmptySequence(t *testing.T) {
	r := NewRowReader(strings.NewReader(""))

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)

	// The terminal outcome is sticky.
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestRowReader_HeaderOnlyIsEmptySequence(t *testing.T) {
	r := NewRowReader(strings.NewReader(csvHeader + "\n"))

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestRowReader_ShortRowPadded(t *testing.T) {
	input := csvHeader + "\n" + `A1,Jane` + "\n"

	rows := readAll(t, NewRowReader(strings.NewReader(input)))

	require.Len(t, rows, 1)
	assert.Equal(t, "A1", rows[0][ColEmployeeID])
	assert.Equal(t, "Jane", rows[0][ColFirstName])
	assert.Equal(t, "", rows[0][ColLastName])
	assert.Equal(t, "", rows[0][ColEmail])
}

func TestRowReader_LongRowTruncated(t *testing.T) {
	input := csvHeader + "\n" + `A1,Jane,Doe,jane@yopmail.com,extra,columns` + "\n"

	rows := readAll(t, NewRowReader(strings.NewReader(input)))

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 4)
	assert.Equal(t, "jane@yopmail.com", rows[0][ColEmail])
}

func TestRowReader_StripsUTF8BOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + csvHeader + "\n" + `A1,Jane,Doe,jane@yopmail.com` + "\n"

	rows := readAll(t, NewRowReader(strings.NewReader(input)))

	require.Len(t, rows, 1)
	assert.Equal(t, "A1", rows[0][ColEmployeeID], "BOM must not leak into the first header")
}

func TestRowReader_DecodesUTF16LE(t *testing.T) {
	plain := "Employee Id,First Name,Last Name,Email Address\nA1,Jane,Doe,jane@yopmail.com\n"

	// UTF-16 LE with BOM
	encoded := []byte{0xFF, 0xFE}
	for _, r := range plain {
		encoded = append(encoded, byte(r), 0x00)
	}

	rows := readAll(t, NewRowReader(strings.NewReader(string(encoded))))

	require.Len(t, rows, 1)
	assert.Equal(t, "jane@yopmail.com", rows[0][ColEmail])
}

func TestRowReader_TrimsHeaderWhitespace(t *testing.T) {
	input := " Employee Id , First Name , Last Name , Email Address \n" +
		`A1,Jane,Doe,jane@yopmail.com` + "\n"

	rows := readAll(t, NewRowReader(strings.NewReader(input)))

	require.Len(t, rows, 1)
	assert.Equal(t, "jane@yopmail.com", rows[0][ColEmail])
}

func TestRowReader_CountsBytes(t *testing.T) {
	input := csvHeader + "\n" + `A1,Jane,Doe,jane@yopmail.com` + "\n"

	r := NewRowReader(strings.NewReader(input)).(*csvRowReader)
	readAll(t, r)

	assert.Equal(t, int64(len(input)), r.BytesRead())
}
