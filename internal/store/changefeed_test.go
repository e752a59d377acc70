package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/grove/internal/domain"
)

// receive waits briefly for the next change on a subscription.
func receive(t *testing.T, sub *Subscription) Change {
	t.Helper()
	select {
	case c, ok := <-sub.C:
		require.True(t, ok, "subscription closed unexpectedly")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
		return Change{}
	}
}

func TestWatchAll_DeliversPutsAndDeletes(t *testing.T) {
	s := newTestStore(t)
	root := seedRoot(t, s)

	sub, err := s.WatchAll(context.Background())
	require.NoError(t, err)
	defer sub.Cancel()

	task := mustCreate(t, s, "observed", root.Path, storeTestNow)
	c := receive(t, sub)
	assert.Equal(t, ChangePut, c.Type)
	assert.Equal(t, task.ID, c.ID)
	assert.Equal(t, task.Text, c.Task.Text)

	require.NoError(t, s.Delete(context.Background(), task.ID))
	c = receive(t, sub)
	assert.Equal(t, ChangeDelete, c.Type)
	assert.Equal(t, task.ID, c.ID)
}

func TestWatchAll_SinceNow(t *testing.T) {
	s := newTestStore(t)
	root := seedRoot(t, s)
	mustCreate(t, s, "before subscribe", root.Path, storeTestNow)

	sub, err := s.WatchAll(context.Background())
	require.NoError(t, err)
	defer sub.Cancel()

	select {
	case c := <-sub.C:
		t.Fatalf("received pre-subscription change %+v", c)
	case <-time.After(50 * time.Millisecond):
		// Nothing delivered: subscriptions start now.
	}
}

func TestWatch_FiltersByID(t *testing.T) {
	s := newTestStore(t)
	root := seedRoot(t, s)
	watched := mustCreate(t, s, "watched", root.Path, storeTestNow)

	sub, err := s.Watch(context.Background(), watched.ID)
	require.NoError(t, err)
	defer sub.Cancel()

	// A change to a different task must not be delivered.
	mustCreate(t, s, "other", root.Path, storeTestNow.Add(time.Second))

	updated, err := watched.WithText("watched, edited", storeTestNow.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), updated))

	c := receive(t, sub)
	assert.Equal(t, watched.ID, c.ID)
	assert.Equal(t, "watched, edited", c.Task.Text)
}

func TestSubscription_Cancel(t *testing.T) {
	s := newTestStore(t)
	root := seedRoot(t, s)

	sub, err := s.WatchAll(context.Background())
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel() // idempotent

	_, ok := <-sub.C
	assert.False(t, ok, "canceled subscription channel must be closed")

	// Writes after cancellation do not panic or block.
	mustCreate(t, s, "after cancel", root.Path, storeTestNow)
}

func TestFeedHub_SequenceIncreases(t *testing.T) {
	s := newTestStore(t)
	root := seedRoot(t, s)

	sub, err := s.WatchAll(context.Background())
	require.NoError(t, err)
	defer sub.Cancel()

	mustCreate(t, s, "one", root.Path, storeTestNow)
	mustCreate(t, s, "two", root.Path, storeTestNow.Add(time.Second))

	first := receive(t, sub)
	second := receive(t, sub)
	assert.Greater(t, second.Seq, first.Seq)
}

func TestFeedHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := newFeedHub()
	sub := hub.subscribe(nil)
	defer sub.Cancel()

	task, err := domain.New(domain.NewTaskInput{
		Text:       "flood",
		ParentPath: domain.NewRoot(storeTestNow).Path,
	}, storeTestNow)
	require.NoError(t, err)

	// Publish more events than the buffer holds without ever reading.
	for i := 0; i < feedBufferSize*2; i++ {
		hub.publish(Change{Type: ChangePut, ID: task.ID, Task: task})
	}

	// The buffer is full, the rest were dropped, and publish never blocked.
	assert.Len(t, sub.C, feedBufferSize)
}

func TestStore_Close_CancelsSubscriptions(t *testing.T) {
	s := newTestStore(t)

	sub, err := s.WatchAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Close())

	_, ok := <-sub.C
	assert.False(t, ok, "closing the store must close open subscriptions")
}
