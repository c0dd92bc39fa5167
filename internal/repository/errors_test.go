package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(&pq.Error{Code: uniqueViolation}), ErrDuplicate)
	assert.ErrorIs(t, mapError(fmt.Errorf("insert: %w", &pq.Error{Code: foreignKeyViolation})), ErrMissingReference)

	other := &pq.Error{Code: "23514"}
	assert.Same(t, other, mapError(other))
	assert.Nil(t, mapError(nil))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"beach", "beach"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\dir`, `c:\\dir`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in))
	}
}

func TestNullString(t *testing.T) {
	assert.False(t, nullString("").Valid)
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, nullString("x"))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestAffected(t *testing.T) {
	ok, err := affected(fakeResult{rows: 1}, nil)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = affected(fakeResult{rows: 0}, nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = affected(nil, &pq.Error{Code: uniqueViolation})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = affected(fakeResult{err: errors.New("driver")}, nil)
	assert.EqualError(t, err, "driver")
}
