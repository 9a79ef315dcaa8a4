package asr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockRecognizerContract(t *testing.T) {
	m := NewMock()

	status, err := m.Authorize(context.Background())
	require.NoError(t, err)
	require.Equal(t, AuthAuthorized, status)
	require.True(t, m.Available(context.Background()))
}

func TestMockStreamEmitsFinalOnCloseSend(t *testing.T) {
	m := NewMock()
	stream, err := m.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, stream.Send(make([]byte, 320)))
	require.NoError(t, stream.CloseSend())

	var last Result
	for res := range stream.Results() {
		require.NoError(t, res.Err)
		last = res
	}
	require.True(t, last.Final)
	require.Contains(t, last.Text, "320 bytes")
}

func TestMockStreamCancelClosesResults(t *testing.T) {
	m := NewMock()
	stream, err := m.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, stream.Cancel())
	_, open := <-stream.Results()
	require.False(t, open)
	// cancel is safe to repeat
	require.NoError(t, stream.Cancel())
}
