// Package edit provides the runner logic for updating task fields.
package edit

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
	"github.com/coursedeck/todo/pkg/todo"
)

// Edit replaces a task's fields. Any pending auto-move for the task is
// cancelled by the session.
type Edit struct {
	ListID  string
	ID      string
	Fields  todo.TaskFields
	Session *session.Session
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not edit, no session")
	}
	if err := n.Session.EditTask(n.ListID, n.ID, n.Fields); err != nil {
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
