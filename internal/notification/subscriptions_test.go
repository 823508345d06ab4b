package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nurse-triage-backend/config"
)

func TestSubscriptions_SeedSkipsEmptyEndpoints(t *testing.T) {
	subs := NewSubscriptions([]config.PushSubscription{
		{Endpoint: "https://b.example/push", P256DH: "k", Auth: "a"},
		{Endpoint: ""},
		{Endpoint: "https://a.example/push", P256DH: "k", Auth: "a"},
	})

	list := subs.List()
	assert.Len(t, list, 2)
	assert.Equal(t, "https://a.example/push", list[0].Endpoint)
}

func TestSubscriptions_PutReplacesAndDelete(t *testing.T) {
	subs := NewSubscriptions(nil)

	subs.Put(Subscription{Endpoint: "e", P256DH: "old", Auth: "a"})
	subs.Put(Subscription{Endpoint: "e", P256DH: "new", Auth: "a"})

	got, ok := subs.Get("e")
	assert.True(t, ok)
	assert.Equal(t, "new", got.P256DH)
	assert.Equal(t, 1, subs.Len())

	assert.True(t, subs.Delete("e"))
	assert.False(t, subs.Delete("e"))
}
