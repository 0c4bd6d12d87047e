package dhcp

import (
	"context"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestBuildArgsOneShot(t *testing.T) {
	c := NewClient(Config{
		Target:     Target{Name: "eth0"},
		OneShot:    true,
		ShimPath:   "/usr/libexec/docker-net-dhcp/shim",
		ClientPath: "udhcpc",
	})
	args := c.buildArgs()
	assert.DeepEqual(t, args, []string{"-i", "eth0", "-f", "-s", "/usr/libexec/docker-net-dhcp/shim", "-q", "-n"})
}

func TestBuildArgsSupervisedWithHostname(t *testing.T) {
	c := NewClient(Config{
		Target:   Target{Name: "eth0"},
		Hostname: "web-01",
	})
	args := c.buildArgs()
	assert.Assert(t, len(args) >= 2)
	assert.Equal(t, args[len(args)-2], "-x")
	assert.Equal(t, args[len(args)-1], "hostname:web-01")
}

func TestBuildArgsV6Hostname(t *testing.T) {
	c := NewClient(Config{
		Target:   Target{Name: "eth0"},
		Family:   V6,
		Hostname: "web-01",
	})
	args := c.buildArgs()
	assert.Equal(t, args[len(args)-2], "-x")
	assert.Assert(t, len(args[len(args)-1]) > len("option39:"))
}

func TestAwaitIPReturnsLeaseOnBound(t *testing.T) {
	c := NewClient(Config{Target: Target{Name: "eth0"}})
	c.Subscribe(c.updateAttributes)
	c.dispatch(Event{Kind: Bound, Lease: Lease{Domain: "example.com"}})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	lease, err := c.AwaitIP(ctx)
	assert.NilError(t, err)
	assert.Equal(t, lease.Domain, "example.com")
}

func TestAwaitIPTimesOut(t *testing.T) {
	c := NewClient(Config{Target: Target{Name: "eth0"}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.AwaitIP(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAwaitIPProcessExited(t *testing.T) {
	c := NewClient(Config{Target: Target{Name: "eth0"}})
	close(c.exitCh)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.AwaitIP(ctx)
	assert.ErrorIs(t, err, ErrProcessExited)
}

func TestLeaseSnapshotClearedOnDeconfig(t *testing.T) {
	c := NewClient(Config{Target: Target{Name: "eth0"}})
	c.Subscribe(c.updateAttributes)
	c.dispatch(Event{Kind: Bound, Lease: Lease{Domain: "a.example.com"}})
	c.dispatch(Event{Kind: Deconfig})

	lease := c.Lease()
	assert.Assert(t, lease.Address == nil)
	assert.Equal(t, lease.Domain, "")
}
