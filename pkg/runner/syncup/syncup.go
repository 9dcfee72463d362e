// Package syncup provides the runner logic for forcing a remote round trip.
package syncup

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
)

// Sync pushes pending course updates immediately and, in semester mode,
// refreshes the course set from the backend.
type Sync struct {
	Session *session.Session
}

func (n *Sync) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not sync, no session")
	}

	n.Session.FlushPending()
	if err := n.Session.Refresh(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrUnsupported):
			// Course mode has nothing to refresh.
		case errors.Is(err, list.ErrSuperseded):
		default:
			return err
		}
	}

	fmt.Println("")
	tp := printers.TablePrint{}
	tp.Lists(n.Session.Selected(), n.Session.Lists()...)
	return nil
}
