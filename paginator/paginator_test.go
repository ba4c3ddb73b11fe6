package paginator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) SliceSequence[int] {
	seq := make(SliceSequence[int], n)
	for i := range seq {
		seq[i] = i + 1
	}
	return seq
}

func TestPaginate_OneMoreThanPageSize(t *testing.T) {
	ctx := context.Background()
	seq := numbers(11)

	first, err := Paginate[int](ctx, seq, "1", 10)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 2, first.Pagination.TotalPages)
	assert.True(t, first.Pagination.HasNext)
	assert.False(t, first.Pagination.HasPrevious)

	second, err := Paginate[int](ctx, seq, "2", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{11}, second.Items)
	assert.False(t, second.Pagination.HasNext)
	assert.True(t, second.Pagination.HasPrevious)

	third, err := Paginate[int](ctx, seq, "3", 10)
	require.NoError(t, err)
	assert.Equal(t, second.Items, third.Items)
	assert.Equal(t, 2, third.Pagination.Page)
}

func TestPaginate_PageParameter(t *testing.T) {
	ctx := context.Background()
	seq := numbers(25)

	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"1.5", 1},
		{" 2 ", 2},
		{"3", 3},
		{"0", 3},
		{"-4", 3},
		{"99", 3},
	}
	for _, tc := range cases {
		page, err := Paginate[int](ctx, seq, tc.raw, 10)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, page.Pagination.Page, "raw=%q", tc.raw)
		assert.NotEmpty(t, page.Items, "raw=%q", tc.raw)
	}
}

func TestPaginate_EmptySequence(t *testing.T) {
	page, err := Paginate[int](context.Background(), Empty[int](), "7", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.EqualValues(t, 0, page.Pagination.Total)
	assert.False(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrevious)
}

type failingSeq struct{}

func (failingSeq) Count(context.Context) (int64, error) { return 0, errors.New("boom") }
func (failingSeq) Slice(context.Context, int, int) ([]int, error) {
	return nil, errors.New("boom")
}

func TestPaginate_PropagatesErrors(t *testing.T) {
	_, err := Paginate[int](context.Background(), failingSeq{}, "1", 10)
	assert.EqualError(t, err, "boom")
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}
