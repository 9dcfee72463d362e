// Package options defines shared flag helpers for CLI commands.
package options

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/list"
)

// MountOptions selects where the todo feature is mounted: one course's tab
// or a whole semester.
type MountOptions struct {
	SemesterID string
	CourseID   string
	CourseName string
	TabID      string
}

// AddMountArgs wires the mount selection flags on the provided command.
func AddMountArgs(cmd *cobra.Command, o *MountOptions) {
	cmd.Flags().StringVar(&o.SemesterID, "semester", "",
		"Operate on the semester-wide lists.")
	cmd.Flags().StringVar(&o.CourseID, "course", "",
		"Operate on a single course's list.")
	cmd.Flags().StringVar(&o.CourseName, "course-name", "",
		"Display name for the course list.")
	cmd.Flags().StringVar(&o.TabID, "tab", "",
		"The course tab holding the list (course mode).")
}

// Mode resolves the mount flags to a mode.
func (o *MountOptions) Mode() (list.Mode, error) {
	switch {
	case o.SemesterID != "" && o.CourseID != "":
		return list.ModeUnsupported, errors.New("set either --semester or --course, not both")
	case o.SemesterID != "":
		return list.ModeSemester, nil
	case o.CourseID != "":
		if o.TabID == "" {
			return list.ModeUnsupported, errors.New("--course requires --tab")
		}
		return list.ModeCourse, nil
	}
	return list.ModeUnsupported, errors.New("set --semester or --course")
}
