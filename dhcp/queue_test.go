package dhcp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestEventQueueRoundTrip(t *testing.T) {
	q, err := newEventQueue(t.TempDir(), "ep1-v4")
	assert.NilError(t, err)
	defer q.stop()

	conn, err := net.Dial("unix", q.path)
	assert.NilError(t, err)
	defer conn.Close()

	line, err := json.Marshal(wireEvent{Type: "BOUND", IP: "203.0.113.5", Mask: "255.255.255.0"})
	assert.NilError(t, err)
	_, err = conn.Write(append(line, '\n'))
	assert.NilError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ev, err := q.recv(ctx)
	assert.NilError(t, err)
	assert.Equal(t, ev.Kind, Bound)
	assert.Equal(t, ev.Lease.Address.String(), "203.0.113.5/24")
}

func TestEventQueueRecvCancelled(t *testing.T) {
	q, err := newEventQueue(t.TempDir(), "ep2-v4")
	assert.NilError(t, err)
	defer q.stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = q.recv(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEventQueueEnv(t *testing.T) {
	q, err := newEventQueue(t.TempDir(), "ep3-v4")
	assert.NilError(t, err)
	defer q.stop()

	assert.Equal(t, q.env(), eventQueueEnv+"="+q.path)
}
