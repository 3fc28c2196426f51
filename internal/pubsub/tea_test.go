package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const progressEvent EventType = "progress"

func TestListenCmd_ReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(progressEvent, "50%")

	msg := ListenCmd(ctx, ch)()

	event, ok := msg.(Event[string])
	require.True(t, ok, "msg should be Event[string]")
	require.Equal(t, "50%", event.Payload)
	require.Equal(t, progressEvent, event.Type)
}

func TestListenCmd_ContextCancelled(t *testing.T) {
	ch := make(chan Event[string])
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Nil(t, ListenCmd(ctx, ch)())
}

func TestListenCmd_ChannelClosed(t *testing.T) {
	ch := make(chan Event[string])
	close(ch)

	require.Nil(t, ListenCmd(context.Background(), ch)())
}

func TestContinuousListener_ReceivesInOrder(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewContinuousListener(ctx, broker)
	broker.Publish(progressEvent, 1)
	broker.Publish(MessageEvent, 2)

	first, ok := listener.Listen()().(Event[int])
	require.True(t, ok)
	require.Equal(t, 1, first.Payload)
	require.Equal(t, progressEvent, first.Type)

	second, ok := listener.Listen()().(Event[int])
	require.True(t, ok)
	require.Equal(t, 2, second.Payload)
	require.Equal(t, MessageEvent, second.Type)
}
