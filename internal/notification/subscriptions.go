package notification

import (
	"sort"
	"sync"

	"nurse-triage-backend/config"
)

// Subscription is a browser push endpoint that receives pages.
type Subscription struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// Subscriptions is the in-memory set of pager endpoints, keyed by endpoint.
type Subscriptions struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

// NewSubscriptions creates the set seeded with the configured subscribers.
func NewSubscriptions(seed []config.PushSubscription) *Subscriptions {
	s := &Subscriptions{subs: make(map[string]Subscription, len(seed))}
	for _, sub := range seed {
		if sub.Endpoint == "" {
			continue
		}
		s.subs[sub.Endpoint] = Subscription{Endpoint: sub.Endpoint, P256DH: sub.P256DH, Auth: sub.Auth}
	}
	return s
}

// Put creates or replaces the subscription for its endpoint.
func (s *Subscriptions) Put(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.Endpoint] = sub
}

// Get looks up a subscription by endpoint.
func (s *Subscriptions) Get(endpoint string) (Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[endpoint]
	return sub, ok
}

// Delete removes the endpoint and reports whether it existed.
func (s *Subscriptions) Delete(endpoint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[endpoint]
	delete(s.subs, endpoint)
	return ok
}

// List returns all subscriptions ordered by endpoint.
func (s *Subscriptions) List() []Subscription {
	s.mu.RLock()
	out := make([]Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

// Len returns the number of subscriptions.
func (s *Subscriptions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
