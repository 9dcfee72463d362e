// Package move provides the runner logic for reordering tasks.
package move

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
)

// Move drops a task into a section, optionally ahead of another task.
type Move struct {
	ListID  string
	ID      string
	Section string
	Before  string
	Session *session.Session
}

func (n *Move) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not move, no session")
	}
	if err := n.Session.Reorder(n.ListID, n.ID, n.Section, n.Before); err != nil {
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
