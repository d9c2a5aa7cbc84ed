// Package sysd stops the log-producing service when the disk-full guard
// trips. This is the single privileged action the archiver performs.
package sysd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Stopper halts a named service unit.
type Stopper interface {
	Stop(ctx context.Context, unit string) error
}

type systemdStopper struct{}

// New returns a Stopper backed by the systemd D-Bus API.
func New() Stopper {
	return systemdStopper{}
}

func (systemdStopper) Stop(ctx context.Context, unit string) error {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("connecting to systemd: %w", err)
	}
	defer conn.Close()

	done := make(chan string, 1)
	if _, err := conn.StopUnitContext(ctx, unit, "replace", done); err != nil {
		return fmt.Errorf("stopping unit %s: %w", unit, err)
	}

	select {
	case result := <-done:
		if result != "done" {
			return fmt.Errorf("stop job for %s finished with %q", unit, result)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type disabledStopper struct{}

// Disabled returns a Stopper that does nothing, for configs with the
// protective action turned off.
func Disabled() Stopper {
	return disabledStopper{}
}

func (disabledStopper) Stop(context.Context, string) error {
	return nil
}
