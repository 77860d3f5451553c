package router

import (
	"testing"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAdmitsUpToCapacity(t *testing.T) {
	rl := NewRateLimiter(2, nil, 10*time.Millisecond)
	assert.True(t, rl.Admit(llm.KindRoomDescription))
	assert.True(t, rl.Admit(llm.KindRoomDescription))
	assert.False(t, rl.Admit(llm.KindRoomDescription), "third request within the same window should wait out the timeout and fail")
}

func TestRateLimiterPerKindCeilingDoesNotStarveOtherKinds(t *testing.T) {
	perKind := map[llm.RequestKind]int{
		llm.KindNPCDialogue:     1,
		llm.KindCombatNarration: 60,
	}
	rl := NewRateLimiter(60, perKind, 10*time.Millisecond)

	assert.True(t, rl.Admit(llm.KindNPCDialogue))
	assert.False(t, rl.Admit(llm.KindNPCDialogue), "dialogue bucket is exhausted")
	assert.True(t, rl.Admit(llm.KindCombatNarration), "combat narration has its own budget and is unaffected")
}
