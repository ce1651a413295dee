package ws

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
)

type fakeSub struct {
	id     uuid.UUID
	mu     sync.Mutex
	got    [][]byte
	closed atomic.Bool
}

func newFakeSub() *fakeSub { return &fakeSub{id: uuid.New()} }

func (s *fakeSub) ID() uuid.UUID { return s.id }

func (s *fakeSub) Send(p []byte) error {
	if s.closed.Load() {
		return ErrConnClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, p)
	return nil
}

func (s *fakeSub) Close() error {
	s.closed.Store(true)
	return nil
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, "test", logger.LevelError)
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRegistry(testLogger())
	sub := newFakeSub()

	assert.True(t, r.Join(types.GlobalTopic, sub))
	assert.False(t, r.Join(types.GlobalTopic, sub))

	assert.Len(t, r.Members(types.GlobalTopic), 1)
	assert.Equal(t, Stats{Topics: 1, Subscribers: 1, Memberships: 1}, r.Stats())
}

func TestRegistryLeave(t *testing.T) {
	r := NewRegistry(testLogger())
	a, b := newFakeSub(), newFakeSub()

	r.Join(types.RouteTopic(1), a)
	r.Join(types.RouteTopic(1), b)

	r.Leave(types.RouteTopic(1), a)
	// absent member and unknown topic are no-ops
	r.Leave(types.RouteTopic(1), a)
	r.Leave(types.RouteTopic(2), newFakeSub())

	members := r.Members(types.RouteTopic(1))
	require.Len(t, members, 1)
	assert.Equal(t, b.ID(), members[0].ID())

	r.Leave(types.RouteTopic(1), b)
	assert.Empty(t, r.Members(types.RouteTopic(1)))
	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistryLeaveAllRemovesEveryMembership(t *testing.T) {
	r := NewRegistry(testLogger())
	sub, other := newFakeSub(), newFakeSub()

	r.Join(types.GlobalTopic, sub)
	r.Join(types.RouteTopic(7), sub)
	r.Join(types.GlobalTopic, other)

	left := r.LeaveAll(sub)
	assert.ElementsMatch(t, []types.Topic{types.GlobalTopic, types.RouteTopic(7)}, left)
	assert.Empty(t, r.Topics(sub))
	assert.Empty(t, r.Members(types.RouteTopic(7)))
	assert.Len(t, r.Members(types.GlobalTopic), 1)

	assert.Empty(t, r.LeaveAll(sub))
}

func TestRegistryMembersIsACopy(t *testing.T) {
	r := NewRegistry(testLogger())
	a, b := newFakeSub(), newFakeSub()
	r.Join(types.GlobalTopic, a)
	r.Join(types.GlobalTopic, b)

	snapshot := r.Members(types.GlobalTopic)
	r.LeaveAll(a)
	require.NoError(t, a.Close())

	assert.Len(t, snapshot, 2)
	var delivered, failed int
	for _, sub := range snapshot {
		if err := sub.Send([]byte("x")); err != nil {
			failed++
			assert.ErrorIs(t, err, types.ErrDelivery)
			continue
		}
		delivered++
	}
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, failed)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sub := newFakeSub()
			topic := types.RouteTopic(int64(i % 5))
			for j := 0; j < 20; j++ {
				r.Join(types.GlobalTopic, sub)
				r.Join(topic, sub)
				_ = r.Members(types.GlobalTopic)
				_ = r.Stats()
				r.LeaveAll(sub)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistryCloseClosesSubscribers(t *testing.T) {
	r := NewRegistry(testLogger())
	a, b := newFakeSub(), newFakeSub()
	r.Join(types.GlobalTopic, a)
	r.Join(types.RouteTopic(1), a)
	r.Join(types.RouteTopic(2), b)

	r.Close(context.Background())

	assert.True(t, a.closed.Load())
	assert.True(t, b.closed.Load())
	assert.Equal(t, Stats{}, r.Stats())
}
