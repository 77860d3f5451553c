package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New(10, nil, nil)
	_, ok := c.Get("fp-1")
	assert.False(t, ok)
}

func TestSetThenGetHits(t *testing.T) {
	c := New(10, nil, nil)
	c.Set("fp-1", llm.KindRoomDescription, "a hall")
	v, ok := c.Get("fp-1")
	require.True(t, ok)
	assert.Equal(t, "a hall", v)
}

func TestEvictsLeastRecentlyUsedWhenOverCapacity(t *testing.T) {
	c := New(2, nil, nil)
	c.Set("a", llm.KindRoomDescription, "A")
	c.Set("b", llm.KindRoomDescription, "B")
	c.Set("c", llm.KindRoomDescription, "C") // evicts "a"

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestGetPromotesToFrontProtectingFromEviction(t *testing.T) {
	c := New(2, nil, nil)
	c.Set("a", llm.KindRoomDescription, "A")
	c.Set("b", llm.KindRoomDescription, "B")
	c.Get("a") // a is now most-recently-used
	c.Set("c", llm.KindRoomDescription, "C") // should evict "b", not "a"

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestPinnedEntriesSurviveEviction(t *testing.T) {
	pinned := map[string]bool{"a": true}
	c := New(1, nil, func(fp string) bool { return pinned[fp] })

	c.Set("a", llm.KindRoomDescription, "A")
	c.Set("b", llm.KindRoomDescription, "B")
	c.Set("c", llm.KindRoomDescription, "C")

	_, ok := c.Get("a")
	assert.True(t, ok, "pinned entry must never be evicted")
}

func TestSoftTTLExpiresEntryAsMissWithoutRemovingIt(t *testing.T) {
	c := New(10, map[llm.RequestKind]time.Duration{llm.KindRoomDescription: time.Millisecond}, nil)
	c.Set("fp-1", llm.KindRoomDescription, "a hall")
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("fp-1")
	assert.False(t, ok, "expired entry should report as a miss")
	assert.Equal(t, 1, c.Len(), "expired entry should stay in the cache")
}

func TestTagAndInvalidateTagRemovesMatchingEntries(t *testing.T) {
	c := New(10, nil, nil)
	c.Set("fp-dialogue-1", llm.KindNPCDialogue, "hello")
	c.Set("fp-dialogue-2", llm.KindNPCDialogue, "goodbye")
	c.Set("fp-room", llm.KindRoomDescription, "a hall")

	c.Tag("fp-dialogue-1", "npc:guard-1")
	c.Tag("fp-dialogue-2", "npc:guard-1")

	c.InvalidateTag("npc:guard-1")

	_, ok := c.Get("fp-dialogue-1")
	assert.False(t, ok)
	_, ok = c.Get("fp-dialogue-2")
	assert.False(t, ok)
	_, ok = c.Get("fp-room")
	assert.True(t, ok, "untagged entries must survive an unrelated tag invalidation")
}

func TestInvalidateTagOverridesPinFloor(t *testing.T) {
	c := New(10, nil, func(string) bool { return true })
	c.Set("fp-1", llm.KindNPCDialogue, "hi")
	c.Tag("fp-1", "npc:guard-1")

	c.InvalidateTag("npc:guard-1")

	_, ok := c.Get("fp-1")
	assert.False(t, ok, "explicit invalidation must win over the pin floor")
}

func TestDoInFlightCollapsesConcurrentCallsToOneInvocation(t *testing.T) {
	c := New(10, nil, nil)
	var calls int32
	var wg sync.WaitGroup
	results := make([]string, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.DoInFlight("shared-fp", func() (string, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return "generated-once", nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent calls with the same fingerprint must collapse to one invocation")
	for _, r := range results {
		assert.Equal(t, "generated-once", r)
	}
}

func TestDoInFlightPropagatesError(t *testing.T) {
	c := New(10, nil, nil)
	_, err := c.DoInFlight("fp-err", func() (string, error) {
		return "", errors.New("boom")
	})
	assert.Error(t, err)
}

func TestLenReflectsCurrentEntryCount(t *testing.T) {
	c := New(10, nil, nil)
	assert.Equal(t, 0, c.Len())
	c.Set("a", llm.KindRoomDescription, "A")
	c.Set("b", llm.KindRoomDescription, "B")
	assert.Equal(t, 2, c.Len())
}
