// Package rm provides the runner logic for deleting tasks, sections, and
// custom lists.
package rm

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
)

// Task deletes a task.
type Task struct {
	ListID  string
	ID      string
	Session *session.Session
}

func (n *Task) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not remove, no session")
	}
	if err := n.Session.DeleteTask(n.ListID, n.ID); err != nil {
		return err
	}
	return show(n.Session, n.ListID)
}

// Section deletes a section; its tasks fall back per the auto-move setting.
type Section struct {
	ListID  string
	ID      string
	Session *session.Session
}

func (n *Section) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not remove, no session")
	}
	if err := n.Session.DeleteSection(n.ListID, n.ID); err != nil {
		return err
	}
	return show(n.Session, n.ListID)
}

// List deletes a semester custom list.
type List struct {
	ID      string
	Session *session.Session
}

func (n *List) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not remove, no session")
	}
	if err := n.Session.DeleteList(n.ID); err != nil {
		return err
	}
	fmt.Println("")
	tp := printers.TablePrint{}
	tp.Lists(n.Session.Selected(), n.Session.Lists()...)
	return nil
}

func show(s *session.Session, listID string) error {
	pp := printers.PrettyPrint{ShowID: true}
	for _, l := range s.Lists() {
		if l.ID == listID {
			fmt.Println("")
			pp.List(l)
			return nil
		}
	}
	return fmt.Errorf("rm: no list %q", listID)
}
