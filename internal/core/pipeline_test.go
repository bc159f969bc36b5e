package core

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceRows is a RowReader over a fixed slice, optionally ending with a
// terminal error instead of io.EOF.
type sliceRows struct {
	rows []UserRecord
	err  error
	pos  int
}

func (s *sliceRows) Next() (UserRecord, error) {
	if s.pos >= len(s.rows) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func user(id, first, last, email string) UserRecord {
	return UserRecord{
		ColEmployeeID: id,
		ColFirstName:  first,
		ColLastName:   last,
		ColEmail:      email,
	}
}

func TestValidate_EmptyBatchAccepted(t *testing.T) {
	result, err := Validate(nil, &sliceRows{})
	require.NoError(t, err)

	assert.False(t, result.Rejected())
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Conflicts)
}

func TestValidate_AllMalformedAccepted(t *testing.T) {
	rows := &sliceRows{rows: []UserRecord{
		{ColEmployeeID: "A1", ColFirstName: "No", ColLastName: "Email"},
		user("A2", "Empty", "Email", ""),
	}}

	result, err := Validate(nil, rows)
	require.NoError(t, err)

	assert.False(t, result.Rejected())
	assert.Empty(t, result.Rows)
}

func TestValidate_NewUserAcceptedWithOriginalCasing(t *testing.T) {
	rows := &sliceRows{rows: []UserRecord{
		user("HAYHAH1234", "Jane", "Doe", "Jane.Doe@yopmail.com"),
	}}

	result, err := Validate(nil, rows)
	require.NoError(t, err)

	require.False(t, result.Rejected())
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Jane.Doe@yopmail.com", result.Rows[0].Email())
}

func TestValidate_CaseInsensitiveConflict(t *testing.T) {
	existing := []UserRecord{user("E1", "Jane", "Doe", "jane.doe@yopmail.com")}
	rows := &sliceRows{rows: []UserRecord{
		user("E2", "Jane", "Doe", "JANE.DOE@yopmail.com"),
	}}

	result, err := Validate(existing, rows)
	require.NoError(t, err)

	require.True(t, result.Rejected())
	assert.Equal(t, []string{"jane.doe@yopmail.com"}, result.Conflicts)
	assert.Empty(t, result.Rows)
}

func TestValidate_WhitespaceTrimmedConflict(t *testing.T) {
	existing := []UserRecord{user("E1", "Bob", "Ray", "bob.ray@yopmail.com")}
	rows := &sliceRows{rows: []UserRecord{
		user("E2", "Bob", "Ray", "  Bob.Ray@yopmail.com "),
	}}

	result, err := Validate(existing, rows)
	require.NoError(t, err)

	require.True(t, result.Rejected())
	assert.Equal(t, []string{"bob.ray@yopmail.com"}, result.Conflicts)
}

func TestValidate_ConflictSetIsExactIntersection(t *testing.T) {
	existing := []UserRecord{
		user("E1", "A", "A", "a@yopmail.com"),
		user("E2", "B", "B", "b@yopmail.com"),
		user("E3", "C", "C", "c@yopmail.com"),
	}
	rows := &sliceRows{rows: []UserRecord{
		user("N1", "A", "A", "A@yopmail.com"),
		user("N2", "D", "D", "d@yopmail.com"),
		user("N3", "C", "C", "c@yopmail.com"),
		user("N4", "A", "A", "a@yopmail.com"), // repeat conflict, reported once
	}}

	result, err := Validate(existing, rows)
	require.NoError(t, err)

	require.True(t, result.Rejected())
	assert.ElementsMatch(t, []string{"a@yopmail.com", "c@yopmail.com"}, result.Conflicts)
	assert.Empty(t, result.Rows, "rejected batch must not carry accepted rows")
}

func TestValidate_AcceptedPreservesOrderAndFiltersMalformed(t *testing.T) {
	rows := &sliceRows{rows: []UserRecord{
		user("N1", "A", "A", "a@yopmail.com"),
		user("N2", "B", "B", ""), // skipped
		user("N3", "C", "C", "c@yopmail.com"),
		user("N4", "D", "D", "d@yopmail.com"),
	}}

	result, err := Validate(nil, rows)
	require.NoError(t, err)

	require.False(t, result.Rejected())
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "N1", result.Rows[0][ColEmployeeID])
	assert.Equal(t, "N3", result.Rows[1][ColEmployeeID])
	assert.Equal(t, "N4", result.Rows[2][ColEmployeeID])
}

// Two rows sharing an email that is not in the existing collection are both
// accepted: the membership set is never extended during a batch. Regression
// test for the documented quirk; do not "fix" without confirming intent.
func TestValidate_DuplicateWithinBatchAccepted(t *testing.T) {
	rows := &sliceRows{rows: []UserRecord{
		user("N1", "Sam", "One", "sam@yopmail.com"),
		user("N2", "Sam", "Two", "SAM@yopmail.com"),
	}}

	result, err := Validate(nil, rows)
	require.NoError(t, err)

	require.False(t, result.Rejected())
	assert.Len(t, result.Rows, 2)
}

func TestValidate_DrainsStreamPastFirstConflict(t *testing.T) {
	existing := []UserRecord{
		user("E1", "A", "A", "a@yopmail.com"),
		user("E2", "B", "B", "b@yopmail.com"),
	}
	rows := &sliceRows{rows: []UserRecord{
		user("N1", "A", "A", "a@yopmail.com"),
		user("N2", "B", "B", "b@yopmail.com"),
	}}

	result, err := Validate(existing, rows)
	require.NoError(t, err)

	assert.Equal(t, len(rows.rows), rows.pos, "stream must be fully drained")
	assert.ElementsMatch(t, []string{"a@yopmail.com", "b@yopmail.com"}, result.Conflicts)
}

func TestValidate_TerminalDecodeErrorAborts(t *testing.T) {
	decodeErr := &DecodeError{Err: errors.New("bad quoting")}
	rows := &sliceRows{
		rows: []UserRecord{user("N1", "A", "A", "a@yopmail.com")},
		err:  decodeErr,
	}

	_, err := Validate(nil, rows)
	require.Error(t, err)

	var de *DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase unchanged", "jane@yopmail.com", "jane@yopmail.com"},
		{"uppercase folded", "JANE@YOPMAIL.COM", "jane@yopmail.com"},
		{"surrounding whitespace trimmed", "  jane@yopmail.com\t", "jane@yopmail.com"},
		{"mixed", " Jane.Doe@Yopmail.Com ", "jane.doe@yopmail.com"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.input))
		})
	}
}
