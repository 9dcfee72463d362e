package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursedeck/todo/pkg/commands/options"
	"github.com/coursedeck/todo/pkg/remote"
	"github.com/coursedeck/todo/pkg/session"
	"github.com/coursedeck/todo/pkg/store"
	"github.com/coursedeck/todo/pkg/todo"
)

// open builds a session from the mount flags plus the resolved config. A
// configured server url turns remote sync on; without it everything stays
// local.
func open(ctx context.Context, mo *options.MountOptions) (*session.Session, error) {
	mode, err := mo.Mode()
	if err != nil {
		return nil, err
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}

	var api remote.API
	if cfg.ServerURL() != "" {
		api = remote.New(cfg.ServerURL(), cfg.Token())
	}

	return session.Open(ctx, session.Config{
		Mode:       mode,
		CourseID:   mo.CourseID,
		CourseName: mo.CourseName,
		TabID:      mo.TabID,
		SemesterID: mo.SemesterID,
		Store:      p,
		API:        api,
	})
}

// resolveList turns a --list value into a list id, matching by id first and
// then by name. An empty ref means the current selection.
func resolveList(s *session.Session, ref string) (string, error) {
	if ref == "" {
		if sel := s.Selected(); sel != "" {
			return sel, nil
		}
		return "", fmt.Errorf("no lists available")
	}
	lists := s.Lists()
	for _, l := range lists {
		if l.ID == ref {
			return l.ID, nil
		}
	}
	for _, l := range lists {
		if strings.EqualFold(l.Name, ref) {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("no list matches %q", ref)
}

func listStorage(s *session.Session, listID string) (todo.ListStorage, bool) {
	for _, l := range s.Lists() {
		if l.ID == listID {
			return l.Storage(), true
		}
	}
	return todo.ListStorage{}, false
}
