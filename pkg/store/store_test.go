package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/advanced-security/patterntest/pkg/types"
)

func TestStore_AddAndGetPreservesInsertionOrder(t *testing.T) {
	s := New()
	s.Add("example.token", &types.Match{StartOffset: 0, EndOffset: 5})
	s.Add("example.token", &types.Match{StartOffset: 10, EndOffset: 15})

	got := s.Get("example.token")
	assert.Len(t, got, 2)
	assert.Equal(t, 0, got[0].StartOffset)
	assert.Equal(t, 10, got[1].StartOffset)
}

func TestStore_GetUnknownPatternReturnsNil(t *testing.T) {
	s := New()
	assert.Nil(t, s.Get("nothing.here"))
}

func TestStore_GetReturnsACopyNotTheInternalSlice(t *testing.T) {
	s := New()
	s.Add("example.token", &types.Match{StartOffset: 1, EndOffset: 2})

	got := s.Get("example.token")
	got[0] = &types.Match{StartOffset: 99, EndOffset: 100}

	again := s.Get("example.token")
	assert.Equal(t, 1, again[0].StartOffset)
}

func TestStore_AddAllAppendsAllMatchesUnderOneLock(t *testing.T) {
	s := New()
	s.AddAll("example.token", []*types.Match{
		{StartOffset: 0, EndOffset: 1},
		{StartOffset: 2, EndOffset: 3},
	})
	assert.Len(t, s.Get("example.token"), 2)

	s.AddAll("example.token", nil)
	assert.Len(t, s.Get("example.token"), 2)
}

func TestStore_AllFlattensAcrossPatterns(t *testing.T) {
	s := New()
	s.Add("a", &types.Match{StartOffset: 0, EndOffset: 1})
	s.Add("b", &types.Match{StartOffset: 2, EndOffset: 3})
	assert.Len(t, s.All(), 2)
}

func TestStore_ClearEmptiesEverything(t *testing.T) {
	s := New()
	s.Add("a", &types.Match{StartOffset: 0, EndOffset: 1})
	s.Clear()
	assert.Empty(t, s.All())
	assert.Empty(t, s.PatternNames())
}

func TestStore_PatternNamesOnlyListsPatternsWithMatches(t *testing.T) {
	s := New()
	s.Add("a", &types.Match{StartOffset: 0, EndOffset: 1})
	names := s.PatternNames()
	assert.Equal(t, []string{"a"}, names)
}

func TestStore_ConcurrentAddIsSafe(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Add("example.token", &types.Match{StartOffset: n, EndOffset: n + 1})
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Get("example.token"), 50)
}
