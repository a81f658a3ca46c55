package sequence

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterTakeDrop(t *testing.T) {
	data := []int{1, 2, 3, 4, 5, 6}

	assert.Equal(t, []int{2, 4, 6}, From(data).Filter(func(v int) bool { return v%2 == 0 }).Collect())
	assert.Equal(t, []int{3, 4}, From(data).Drop(2).Take(2).Collect())
	assert.Equal(t, []int{}, From(data).Take(0).Collect())
	assert.Equal(t, []int{}, From(data).Drop(10).Collect())
}

func TestChainAndMap(t *testing.T) {
	joined := Chain(From([]string{"a"}), From([]string{"b", "c"}))
	assert.Equal(t, []string{"a", "b", "c"}, joined.Collect())
	assert.Equal(t, []int{1, 1, 1}, Map(joined, func(s string) int { return len(s) }))
	assert.Equal(t, []string{"a", "b"}, joined.Take(2).Collect())
}

func TestFindAndFromSeq(t *testing.T) {
	it := FromSeq(slices.Values([]string{"foo", "bar"}))

	v, ok := it.Find(func(s string) bool { return s == "bar" })
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	_, ok = it.Find(func(s string) bool { return s == "baz" })
	assert.False(t, ok)

	assert.Empty(t, FromSeq[int](nil).Collect())
}
