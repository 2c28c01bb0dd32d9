package live

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisRelay_ForwardDeliversToHub(t *testing.T) {
	hub := NewHub(HubOptions{})
	relay := NewRedisRelay(nil, "jobboard:live", hub, nil)
	c := hub.Register()

	relay.forward(context.Background(), `{"type":"job_state_changed","job_id":4,"state":"inactive","reason":"low_score"}`)

	ev := recv(t, c)
	assert.Equal(t, EventJobStateChanged, ev.Type)
	assert.Equal(t, int64(4), ev.JobID)
	assert.Equal(t, "inactive", ev.State)
}

func TestRedisRelay_ForwardDropsMalformed(t *testing.T) {
	hub := NewHub(HubOptions{})
	relay := NewRedisRelay(nil, "jobboard:live", hub, nil)
	c := hub.Register()

	relay.forward(context.Background(), `not-json`)

	select {
	case ev := <-c.Events():
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}
