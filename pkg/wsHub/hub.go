package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
)

// Subscriber is anything the registry can deliver to.
type Subscriber interface {
	ID() uuid.UUID
	Send(payload []byte) error
	Close() error
}

type Stats struct {
	Topics      int `json:"topics"`
	Subscribers int `json:"subscribers"`
	Memberships int `json:"memberships"`
}

// Registry maps topics to their current subscribers.
// Topics appear on first join and are dropped when the last member leaves.
type Registry struct {
	mu     sync.RWMutex
	topics map[types.Topic]map[uuid.UUID]Subscriber
	joined map[uuid.UUID]map[types.Topic]struct{}

	l logger.Logger
}

func NewRegistry(l logger.Logger) *Registry {
	return &Registry{
		topics: make(map[types.Topic]map[uuid.UUID]Subscriber),
		joined: make(map[uuid.UUID]map[types.Topic]struct{}),
		l:      l,
	}
}

// Join adds sub to topic. Joining twice is a no-op; reports whether sub was added.
func (r *Registry) Join(topic types.Topic, sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.topics[topic]
	if !ok {
		members = make(map[uuid.UUID]Subscriber)
		r.topics[topic] = members
	}
	if _, exists := members[sub.ID()]; exists {
		return false
	}
	members[sub.ID()] = sub

	set, ok := r.joined[sub.ID()]
	if !ok {
		set = make(map[types.Topic]struct{})
		r.joined[sub.ID()] = set
	}
	set[topic] = struct{}{}

	metrics.TopicsGauge.Set(float64(len(r.topics)))
	return true
}

// Leave removes sub from topic. Unknown subscriber or topic is a no-op.
func (r *Registry) Leave(topic types.Topic, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leave(topic, sub.ID())
	metrics.TopicsGauge.Set(float64(len(r.topics)))
}

// LeaveAll removes every membership of sub and returns the topics it left.
func (r *Registry) LeaveAll(sub Subscriber) []types.Topic {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.joined[sub.ID()]
	left := make([]types.Topic, 0, len(set))
	for topic := range set {
		left = append(left, topic)
		r.leave(topic, sub.ID())
	}
	metrics.TopicsGauge.Set(float64(len(r.topics)))
	return left
}

// leave expects r.mu to be held.
func (r *Registry) leave(topic types.Topic, id uuid.UUID) {
	if members, ok := r.topics[topic]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(r.topics, topic)
		}
	}
	if set, ok := r.joined[id]; ok {
		delete(set, topic)
		if len(set) == 0 {
			delete(r.joined, id)
		}
	}
}

// Members returns a copy of topic's subscribers. The copy is stable while the caller iterates it.
func (r *Registry) Members(topic types.Topic) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.topics[topic]
	out := make([]Subscriber, 0, len(members))
	for _, sub := range members {
		out = append(out, sub)
	}
	return out
}

// Topics returns the topics sub is currently a member of.
func (r *Registry) Topics(sub Subscriber) []types.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.joined[sub.ID()]
	out := make([]types.Topic, 0, len(set))
	for topic := range set {
		out = append(out, topic)
	}
	return out
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{Topics: len(r.topics), Subscribers: len(r.joined)}
	for _, members := range r.topics {
		s.Memberships += len(members)
	}
	return s
}

// Close closes every subscriber. Subscribers are expected to leave on close.
func (r *Registry) Close(ctx context.Context) {
	ctx = wrap.WithAction(ctx, "registry_close")

	// copy under lock, close outside: Close hooks call back into LeaveAll
	r.mu.RLock()
	seen := make(map[uuid.UUID]Subscriber)
	for _, members := range r.topics {
		for id, sub := range members {
			seen[id] = sub
		}
	}
	r.mu.RUnlock()

	for id, sub := range seen {
		if err := sub.Close(); err != nil {
			r.l.Debug(ctx, "failed to close subscriber", "conn_id", id.String(), "error", err.Error())
		}
		r.LeaveAll(sub)
	}

	r.l.Info(ctx, "all websocket subscribers closed", "count", len(seen))
}
