package dhcp

import (
	"fmt"
	"os"
	"runtime"

	"github.com/vishvananda/netns"
)

// withNetNS runs fn with the calling goroutine's OS thread switched into
// the network namespace at nsPath, restoring the original namespace
// afterward. An empty nsPath runs fn in the current (host) namespace
// unmodified.
//
// Grounded on other_examples/yeetrun-yeet's pkg/dnet runInNetNS: locking
// the OS thread is required because network namespace membership is a
// per-thread attribute, and a forked child (as os/exec uses) inherits the
// namespace of the thread that created it. The OS thread is only unlocked
// once the original namespace has been restored; if the restore fails,
// the thread stays locked (and so out of the scheduler's pool) rather
// than being handed back to some unrelated goroutine while still parked
// in the wrong namespace.
func withNetNS(nsPath string, fn func() error) (err error) {
	if nsPath == "" {
		return fn()
	}

	runtime.LockOSThread()
	defer func() {
		if err == nil {
			runtime.UnlockOSThread()
		}
	}()

	nsFile, err := os.Open(nsPath)
	if err != nil {
		return fmt.Errorf("failed to open netns %s: %w", nsPath, err)
	}
	defer nsFile.Close()

	current, err := netns.Get()
	if err != nil {
		return fmt.Errorf("failed to get current netns: %w", err)
	}
	defer current.Close()

	if err = netns.Set(netns.NsHandle(nsFile.Fd())); err != nil {
		return fmt.Errorf("failed to enter netns %s: %w", nsPath, err)
	}

	if fnErr := fn(); fnErr != nil {
		// Do not attempt to restore the namespace here: something about
		// execution inside it already went wrong, and the OS thread
		// stays locked (and out of the scheduler's pool) rather than
		// risk handing it back while its namespace state is uncertain.
		return fmt.Errorf("failed to execute command in netns %s: %w", nsPath, fnErr)
	}

	if err = netns.Set(current); err != nil {
		return fmt.Errorf("failed to restore original netns: %w", err)
	}

	return nil
}
