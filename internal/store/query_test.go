package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItems(t *testing.T, c *Collection[item, *item], names ...string) {
	for i, n := range names {
		_, err := c.Create(context.Background(), &item{Name: n, Qty: i + 1})
		require.NoError(t, err)
	}
}

func names(recs []*item) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

// ==================== Filter 测试 ====================

func TestFilterCombinators(t *testing.T) {
	even := Filter[item](func(i *item) bool { return i.Qty%2 == 0 })
	big := Filter[item](func(i *item) bool { return i.Qty > 2 })

	two, three, four := &item{Qty: 2}, &item{Qty: 3}, &item{Qty: 4}

	assert.True(t, And(even, big)(four))
	assert.False(t, And(even, big)(two))
	assert.True(t, Or(even, big)(three))
	assert.False(t, Not(even)(two))
	assert.True(t, And[item]()(two), "空 And 匹配全部")
	assert.False(t, Or[item]()(two), "空 Or 不匹配")
}

func TestPattern(t *testing.T) {
	f, err := Match(Pattern{Expr: "^iph"}, func(i *item) string { return i.Name })
	require.NoError(t, err)
	assert.True(t, f(&item{Name: "iPhone 15"}), "默认忽略大小写")

	f, err = Match(Pattern{Expr: "^iph", Options: "m"}, func(i *item) string { return i.Name })
	require.NoError(t, err)
	assert.False(t, f(&item{Name: "iPhone 15"}))

	f, err = Match(Literal("c++"), func(i *item) string { return i.Name })
	require.NoError(t, err)
	assert.True(t, f(&item{Name: "Learn C++"}), "字面量转义正则元字符")

	_, err = Pattern{Expr: "a", Options: "x"}.Compile()
	assert.Error(t, err)
	_, err = Pattern{Expr: "("}.Compile()
	assert.Error(t, err)
}

func TestMatchAny(t *testing.T) {
	f, err := MatchAny(Literal("数码"), func(i *item) []string { return append([]string{i.Name}, i.Tags...) })
	require.NoError(t, err)
	assert.True(t, f(&item{Name: "耳机", Tags: []string{"音频", "数码"}}))
	assert.False(t, f(&item{Name: "T恤", Tags: []string{"服装"}}))
}

// ==================== Query 测试 ====================

func TestQuery_SortLimitPage(t *testing.T) {
	db, _ := newFileDB(t)
	ctx := context.Background()
	c := NewCollection[item](db, "items")
	seedItems(t, c, "e", "d", "c", "b", "a")

	desc := func(a, b *item) bool { return a.Qty > b.Qty }

	all, err := c.Query().SortBy(desc).All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(all))

	top, err := c.Query().SortBy(desc).Limit(2).All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(top))

	page, p, err := c.Query().SortBy(desc).Page(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, names(page))
	assert.Equal(t, Pagination{Page: 2, Limit: 2, Total: 5, TotalPages: 3, HasNext: true, HasPrev: true}, p)

	page, p, err = c.Query().Page(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, p.HasNext)

	first, err := c.Query().Where(func(i *item) bool { return strings.Contains("bd", i.Name) }).SortBy(desc).First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", first.Name)

	_, err = c.Query().Where(func(i *item) bool { return false }).First(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := c.Query().Where(func(i *item) bool { return i.Qty >= 3 }).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestQuery_StableSort(t *testing.T) {
	db, _ := newFileDB(t)
	ctx := context.Background()
	c := NewCollection[item](db, "items")
	for _, n := range []string{"x1", "x2", "x3"} {
		_, err := c.Create(ctx, &item{Name: n, Qty: 1})
		require.NoError(t, err)
	}
	recs, err := c.Query().SortBy(func(a, b *item) bool { return a.Qty > b.Qty }).All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2", "x3"}, names(recs))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, NewPagination(0, 10, 0))
	p := NewPagination(1, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestSlice(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Slice(in, 2, 2))
	assert.Equal(t, []int{5}, Slice(in, 3, 2))
	assert.Equal(t, []int{}, Slice(in, 4, 2))
	assert.Equal(t, in, Slice(in, 1, 0))
}
