// Package restore provides the runner logic for un-completing tasks.
package restore

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
)

// Restore returns a completed task to its origin section.
type Restore struct {
	ListID  string
	ID      string
	Session *session.Session
}

func (n *Restore) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not restore, no session")
	}
	if err := n.Session.RestoreTask(n.ListID, n.ID); err != nil {
		return err
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
