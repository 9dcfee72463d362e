package get

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedeck/todo/pkg/printers"
	"github.com/coursedeck/todo/pkg/session"
)

type Get struct {
	ShowID  bool
	All     bool
	Table   bool
	Watch   bool
	ListID  string
	Session *session.Session
}

func (n *Get) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not get, no session")
	}

	if !n.Watch {
		return n.print()
	}

	changed, err := n.Session.WatchChanges(ctx)
	if err != nil {
		return err
	}
	if err := n.print(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changed:
			if !ok {
				return nil
			}
			if err := n.print(); err != nil {
				return err
			}
		}
	}
}

func (n *Get) print() error {
	lists := n.Session.Lists()
	fmt.Println("")

	if n.Table {
		tp := printers.TablePrint{ShowID: n.ShowID}
		tp.Lists(n.Session.Selected(), lists...)
		return nil
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	if n.All || n.ListID == "" {
		for _, l := range lists {
			pp.List(l)
		}
		return nil
	}
	for _, l := range lists {
		if l.ID == n.ListID {
			pp.List(l)
			return nil
		}
	}
	return fmt.Errorf("get: no list %q", n.ListID)
}
