// Package complete provides the runner logic for marking tasks complete.
package complete

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
	"github.com/coursedeck/todo/pkg/todo"
)

// Complete marks a task as completed. When auto-move is on it waits out the
// grace delay so the move to the Completed section lands before the process
// exits.
type Complete struct {
	ListID  string
	ID      string
	Session *session.Session
}

func (n *Complete) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not complete, no session")
	}

	if err := n.Session.CompleteTask(n.ListID, n.ID); err != nil {
		return err
	}

	if n.Session.AutoMove() {
		if err := n.waitForMove(ctx); err != nil {
			return err
		}
	}

	pp := printers.PrettyPrint{ShowID: true}
	for _, l := range n.Session.Lists() {
		if l.ID == n.ListID {
			fmt.Println("")
			pp.List(l)
			break
		}
	}
	return nil
}

func (n *Complete) waitForMove(ctx context.Context) error {
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return errors.New("complete: timed out waiting for the move")
		case <-tick.C:
			for _, l := range n.Session.Lists() {
				if l.ID != n.ListID {
					continue
				}
				for _, t := range l.Tasks {
					if t.ID == n.ID && t.SectionID == todo.CompletedSectionID {
						return nil
					}
				}
			}
		}
	}
}
