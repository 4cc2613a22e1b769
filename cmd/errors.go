package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/josephgoksu/TaskQuest/internal/util"
)

// ErrNoTasksFound is returned when a command needs a task but none qualify.
var ErrNoTasksFound = errors.New("no tasks found matching your criteria")

// userError carries a friendly message alongside the technical cause.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func wrapUser(msg string, err error) error {
	return &userError{msg: msg, err: err}
}

// PrintError prints the friendly message by default and the full error
// chain with --verbose.
func PrintError(err error) {
	var ue *userError
	switch {
	case errors.As(err, &ue) && ue.err != nil && viper.GetBool("verbose"):
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", ue.msg, ue.err)
	case errors.Is(err, util.ErrAmbiguousID):
		fmt.Fprintf(os.Stderr, "Error: %v\nUse more characters of the ID.\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
