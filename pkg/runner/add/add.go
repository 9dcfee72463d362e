// Package add provides the runner logic for adding tasks, sections, and
// custom lists.
package add

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
	"github.com/coursedeck/todo/pkg/todo"
)

// Task adds a task to a list.
type Task struct {
	ListID  string
	Fields  todo.TaskFields
	Session *session.Session
}

func (n *Task) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not add, no session")
	}
	if err := n.Session.CreateTask(n.ListID, n.Fields); err != nil {
		return err
	}
	return show(n.Session, n.ListID)
}

// Section adds a fresh section to a list.
type Section struct {
	ListID  string
	Session *session.Session
}

func (n *Section) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not add, no session")
	}
	if err := n.Session.AddSection(n.ListID); err != nil {
		return err
	}
	return show(n.Session, n.ListID)
}

// List adds a semester custom list.
type List struct {
	Name    string
	Session *session.Session
}

func (n *List) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not add, no session")
	}
	id, err := n.Session.AddList(n.Name)
	if err != nil {
		return err
	}
	return show(n.Session, id)
}

func show(s *session.Session, listID string) error {
	pp := printers.PrettyPrint{}
	for _, l := range s.Lists() {
		if l.ID == listID {
			fmt.Println("")
			pp.List(l)
			return nil
		}
	}
	return fmt.Errorf("add: no list %q", listID)
}
