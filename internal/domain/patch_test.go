package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchOmittedKey(t *testing.T) {
	var body struct {
		DueDate Patch[time.Time] `json:"dueDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))

	assert.False(t, body.DueDate.Set)
	assert.Nil(t, body.DueDate.Value)
}

func TestPatchExplicitNull(t *testing.T) {
	var body struct {
		DueDate Patch[time.Time] `json:"dueDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate": null}`), &body))

	assert.True(t, body.DueDate.Set)
	assert.Nil(t, body.DueDate.Value)
}

func TestPatchWithValue(t *testing.T) {
	var body struct {
		DueDate Patch[time.Time] `json:"dueDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate": "2025-06-01T12:00:00Z"}`), &body))

	require.True(t, body.DueDate.Set)
	require.NotNil(t, body.DueDate.Value)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), body.DueDate.Value.UTC())
}

func TestPageableNormalize(t *testing.T) {
	p := Pageable{}.Normalize()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 20, p.Size)

	p = Pageable{Page: -3, Size: 1000}.Normalize()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 100, p.Size)

	p = Pageable{Page: 2, Size: 10}.Normalize()
	assert.Equal(t, 20, p.Offset())
}

func TestNewPageTotals(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, Pageable{Page: 0, Size: 3}, 7)
	assert.Equal(t, int64(7), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
}
