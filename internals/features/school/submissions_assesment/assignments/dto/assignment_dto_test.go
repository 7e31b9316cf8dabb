package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom_backend/internals/helpers/dbtime"
)

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2024-03-02T10:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC), got)

	// tanpa jam → akhir hari menurut zona sekolah
	got, err = ParseDueDate("2024-03-02")
	require.NoError(t, err)
	local := got.In(dbtime.SchoolLocation())
	assert.Equal(t, 2, local.Day())
	assert.Equal(t, 23, local.Hour())
	assert.Equal(t, 59, local.Minute())

	_, err = ParseDueDate("next friday")
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}
