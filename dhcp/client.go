// Package dhcp supervises udhcpc/udhcpc6 client processes on behalf of
// the endpoint coordinator: one-shot invocations used during
// CreateEndpoint to learn an address, and long-lived supervised
// invocations started after Join that keep renewing a lease for the life
// of the container. See spec.md §4.4.
package dhcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Family selects the DHCP protocol version a Client runs.
type Family int

const (
	// V4 runs udhcpc.
	V4 Family = iota
	// V6 runs udhcpc6.
	V6
)

func (f Family) String() string {
	if f == V6 {
		return "v6"
	}
	return "v4"
}

// Target describes the interface a Client leases an address for.
type Target struct {
	// Name is the interface name as it appears in the target namespace.
	Name string
	// MAC is advisory; the client does not read it.
	MAC net.HardwareAddr
	// NetNSPath names the namespace to spawn the client in. An empty
	// value spawns in the host namespace.
	NetNSPath string
}

// Config configures a single DHCP client invocation.
type Config struct {
	Target   Target
	Family   Family
	OneShot  bool
	Hostname string

	// ClientPath is the path to the udhcpc/udhcpc6 binary. Defaults to
	// "udhcpc"/"udhcpc6" on $PATH.
	ClientPath string
	// ShimPath is the path to the event shim script passed to -s. The
	// shim itself is an external collaborator this repository does not
	// implement (spec.md §1); it need only read the DHCP-exported
	// ip/mask/router/domain environment variables documented in §6 and
	// deliver a JSON line naming them to the socket named by
	// $EVENT_QUEUE.
	ShimPath string
	// QueueDir is the directory the event queue's Unix socket is
	// created in. Defaults to os.TempDir().
	QueueDir string

	// FinishTimeout bounds how long Finish waits for the client process
	// to exit cleanly after being asked to stop.
	FinishTimeout time.Duration
}

var (
	// ErrTimeout is returned by AwaitIP when no lease arrives in time.
	ErrTimeout = errors.New("dhcp: timed out waiting for lease")
	// ErrProcessExited is returned by AwaitIP when the client process
	// exited, with any exit status, before delivering a lease.
	ErrProcessExited = errors.New("dhcp: client process exited before a lease was obtained")
)

// Client supervises one udhcpc/udhcpc6 invocation.
type Client struct {
	cfg Config

	queue *eventQueue
	cmd   *exec.Cmd

	subsMu      sync.Mutex
	subscribers []func(Event)

	attrMu  sync.Mutex
	ip      *net.IPNet
	gateway net.IP
	domain  string

	boundOnce sync.Once
	boundCh   chan struct{}

	exitCh   chan struct{}
	exitErr  error

	readerDone chan struct{}
	finishOnce sync.Once
	finishErr  error
}

// NewClient constructs a Client in the not-yet-started state.
func NewClient(cfg Config) *Client {
	if cfg.QueueDir == "" {
		cfg.QueueDir = os.TempDir()
	}
	if cfg.ClientPath == "" {
		if cfg.Family == V6 {
			cfg.ClientPath = "udhcpc6"
		} else {
			cfg.ClientPath = "udhcpc"
		}
	}
	if cfg.FinishTimeout == 0 {
		cfg.FinishTimeout = 5 * time.Second
	}
	return &Client{
		cfg:        cfg,
		boundCh:    make(chan struct{}),
		exitCh:     make(chan struct{}),
		readerDone: make(chan struct{}),
	}
}

// Subscribe registers fn to be called for every event for the life of
// the client. Subscribe must be called before Start.
func (c *Client) Subscribe(fn func(Event)) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Start spawns the client process and begins dispatching its events to
// subscribers. It does not wait for a lease; call AwaitIP for that.
func (c *Client) Start(endpointID string) error {
	c.Subscribe(c.updateAttributes)

	queue, err := newEventQueue(c.cfg.QueueDir, endpointID+"-"+c.cfg.Family.String())
	if err != nil {
		return err
	}
	c.queue = queue

	args := c.buildArgs()
	var cmd *exec.Cmd
	spawnErr := withNetNS(c.cfg.Target.NetNSPath, func() error {
		cmd = exec.Command(c.cfg.ClientPath, args...)
		cmd.Env = append(os.Environ(), c.queue.env())
		cmd.Stdout = logrusWriter{fields: logrus.Fields{"dhcp": c.cfg.Family.String(), "iface": c.cfg.Target.Name}}
		cmd.Stderr = cmd.Stdout.(logrusWriter)
		return cmd.Start()
	})
	if spawnErr != nil {
		c.queue.stop()
		return fmt.Errorf("failed to start %s: %w", c.cfg.ClientPath, spawnErr)
	}
	c.cmd = cmd

	go c.waitProcess()
	go c.readEvents()
	return nil
}

func (c *Client) buildArgs() []string {
	args := []string{"-i", c.cfg.Target.Name, "-f", "-s", c.cfg.ShimPath}
	if c.cfg.OneShot {
		args = append(args, "-q", "-n")
	}
	if c.cfg.Hostname != "" {
		if c.cfg.Family == V6 {
			args = append(args, "-x", fmt.Sprintf("option39:%x", dhcpv6FQDNOption(c.cfg.Hostname)))
		} else {
			args = append(args, "-x", dhcpv4HostnameArg(c.cfg.Hostname))
		}
	}
	return args
}

func (c *Client) waitProcess() {
	c.exitErr = c.cmd.Wait()
	close(c.exitCh)
}

func (c *Client) readEvents() {
	defer close(c.readerDone)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-c.exitCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		ev, err := c.queue.recv(ctx)
		if err != nil {
			return
		}
		c.dispatch(ev)
	}
}

func (c *Client) dispatch(ev Event) {
	c.subsMu.Lock()
	subs := append([]func(Event){}, c.subscribers...)
	c.subsMu.Unlock()

	for _, sub := range subs {
		sub(ev)
	}

	if ev.Kind == Bound || ev.Kind == Renew {
		c.boundOnce.Do(func() { close(c.boundCh) })
	}
}

// updateAttributes is the built-in subscriber maintaining the cached
// ip/gateway/domain, and (for supervised clients) the container's default
// route, per spec.md §4.4.
func (c *Client) updateAttributes(ev Event) {
	c.attrMu.Lock()
	switch ev.Kind {
	case Bound, Renew:
		c.ip = ev.Lease.Address
		c.gateway = ev.Lease.Gateway
		c.domain = ev.Lease.Domain
	case Deconfig:
		c.ip = nil
		c.gateway = nil
		c.domain = ""
	}
	c.attrMu.Unlock()

	if ev.Kind == Renew && !c.cfg.OneShot && ev.Lease.Gateway != nil {
		if err := replaceDefaultRoute(c.cfg.Target.NetNSPath, c.cfg.Target.Name, ev.Lease.Gateway); err != nil {
			logrus.WithError(err).WithField("iface", c.cfg.Target.Name).Warn("dhcp: failed to replace default route on renew")
		}
	}
}

// Lease returns a snapshot of the cached lease fields. All three fields
// are read under a single lock so subscribers never see a partial view,
// per spec.md §8 invariant 5.
func (c *Client) Lease() Lease {
	c.attrMu.Lock()
	defer c.attrMu.Unlock()
	return Lease{Address: c.ip, Gateway: c.gateway, Domain: c.domain}
}

// AwaitIP blocks until a lease is obtained or ctx is done. If the client
// process has already exited without delivering a lease, it returns
// ErrProcessExited immediately rather than waiting out the context.
func (c *Client) AwaitIP(ctx context.Context) (Lease, error) {
	select {
	case <-c.boundCh:
		return c.Lease(), nil
	case <-c.exitCh:
		select {
		case <-c.boundCh:
			return c.Lease(), nil
		default:
		}
		return Lease{}, ErrProcessExited
	case <-ctx.Done():
		return Lease{}, ErrTimeout
	}
}

// Finish stops the client and releases every resource it owns. It is
// idempotent and safe to call more than once; subsequent calls return the
// result of the first call. Errors in any step are captured but
// subsequent cleanup steps still run, per spec.md §4.4.
func (c *Client) Finish(ctx context.Context) error {
	c.finishOnce.Do(func() {
		c.finishErr = c.finish(ctx)
	})
	return c.finishErr
}

func (c *Client) finish(ctx context.Context) error {
	var errs []error

	if c.cfg.OneShot {
		if _, err := c.AwaitIP(ctx); err != nil && !errors.Is(err, ErrProcessExited) {
			errs = append(errs, err)
		}
	} else if c.cmd.Process != nil {
		if err := c.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, fmt.Errorf("failed to signal client process: %w", err))
		}
	}

	timeout := c.cfg.FinishTimeout
	select {
	case <-c.exitCh:
	case <-time.After(timeout):
		errs = append(errs, fmt.Errorf("timed out after %s waiting for client process to exit", timeout))
		if c.cmd.Process != nil {
			_ = c.cmd.Process.Kill()
			<-c.exitCh
		}
	}

	if c.queue != nil {
		c.queue.stop()
	}

	select {
	case <-c.readerDone:
	case <-time.After(timeout):
		errs = append(errs, fmt.Errorf("timed out waiting for event reader to stop"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("dhcp finish: %v", errs)
	}
	return nil
}

// logrusWriter adapts logrus to io.Writer for a subprocess's combined
// output, tagging every line with the fields the caller supplied.
type logrusWriter struct {
	fields logrus.Fields
}

func (w logrusWriter) Write(p []byte) (int, error) {
	logrus.WithFields(w.fields).Debug(string(p))
	return len(p), nil
}
