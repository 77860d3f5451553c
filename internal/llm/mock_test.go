package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientReplaysRecordedResponse(t *testing.T) {
	m := NewMockClient()
	req := CompletionRequest{ModelID: "test-model", SystemPrompt: "sys", UserPrompt: "describe the room"}
	m.Record(req, `{"description":"a dusty hall"}`)

	resp, err := m.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"description":"a dusty hall"}`, resp)
	assert.Len(t, m.Calls, 1)
}

func TestMockClientReplaysRecordedError(t *testing.T) {
	m := NewMockClient()
	req := CompletionRequest{ModelID: "test-model", SystemPrompt: "sys", UserPrompt: "fail this"}
	m.RecordError(req, &CallError{Class: ErrorRateLimited, Message: "slow down"})

	_, err := m.Complete(context.Background(), req)
	require.Error(t, err)
	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ErrorRateLimited, callErr.Class)
}

func TestMockClientIsDeterministicAcrossIdenticalRequests(t *testing.T) {
	m1 := NewMockClient()
	m2 := NewMockClient()
	req := CompletionRequest{ModelID: "m", SystemPrompt: "s", UserPrompt: "u"}

	r1, _ := m1.Complete(context.Background(), req)
	r2, _ := m2.Complete(context.Background(), req)
	assert.Equal(t, r1, r2)
}
