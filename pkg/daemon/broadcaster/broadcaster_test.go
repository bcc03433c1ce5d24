package broadcaster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

func TestBroadcaster_Subscribe(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe()
	require.NotNil(t, sub)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, 1, b.SubscriberCount())
}

func TestBroadcaster_Publish(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe()

	snap := &types.Snapshot{Timestamp: time.Now(), CPUPercent: 33.0}
	b.Publish(snap)

	select {
	case got := <-sub.Snapshots:
		assert.Equal(t, 33.0, got.CPUPercent)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected snapshot not received")
	}
}

func TestBroadcaster_Publish_DropsWhenFull(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe()

	// Fill the channel beyond capacity; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(sub.Snapshots)+10; i++ {
			b.Publish(&types.Snapshot{CPUPercent: float64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber channel")
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe()
	b.Unsubscribe(sub.ID)

	// Channel should be closed
	_, ok := <-sub.Snapshots
	assert.False(t, ok, "channel should be closed after unsubscribe")
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBroadcaster_SubscribeAfterClose(t *testing.T) {
	b := New()
	b.Close()

	assert.Nil(t, b.Subscribe())
}
