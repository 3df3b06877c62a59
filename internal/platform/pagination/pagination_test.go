package pagination

import (
	"math"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Clamps(t *testing.T) {
	cases := []struct {
		page, size int
		want       Params
	}{
		{0, 0, Params{1, 10}},
		{-3, 5, Params{1, 5}},
		{2, 100, Params{2, 100}},
		{2, 101, Params{2, 100}},
		{4, -1, Params{4, 10}},
		{math.MaxInt, 10, Params{MaxPage, 10}},
		{math.MaxInt, 100, Params{MaxPage, 100}},
	}
	for _, tc := range cases {
		got := Normalize(tc.page, tc.size)
		assert.Equal(t, tc.want, got)
		assert.GreaterOrEqual(t, got.Offset(), 0)
	}
}

func TestFromRequest_HugePageDoesNotOverflow(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/appointments?page="+strconv.Itoa(math.MaxInt), nil)
	p := FromRequest(r)
	assert.Equal(t, MaxPage, p.Page)
	assert.GreaterOrEqual(t, p.Offset(), 0)
	assert.Empty(t, Slice([]int{1, 2, 3}, p))
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/patients?page=3&page_size=25", nil)
	assert.Equal(t, Params{3, 25}, FromRequest(r))

	r = httptest.NewRequest("GET", "/api/patients?page=abc&pageSize=500", nil)
	assert.Equal(t, Params{1, 100}, FromRequest(r))
}

func TestSlice(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Slice(all, Params{Page: 2, PageSize: 2}))
	assert.Equal(t, []int{5}, Slice(all, Params{Page: 3, PageSize: 2}))
	assert.Empty(t, Slice(all, Params{Page: 4, PageSize: 2}))
	assert.Empty(t, Slice(all, Params{Page: -1, PageSize: 2}))
}

func TestNewPage_NeverNilItems(t *testing.T) {
	p := NewPage[int](Params{1, 10}, 0, nil)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.Total)
}
