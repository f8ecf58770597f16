package cli

import (
	"errors"
	"fmt"

	"dragsort-cli/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// invalidArgError reports a flag or argument the command cannot use.
type invalidArgError struct {
	arg    string
	reason string
}

func (e invalidArgError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.arg, e.reason)
}

func errInvalidArg(arg, reason string) error {
	return invalidArgError{arg: arg, reason: reason}
}

// itemErr turns store sentinels into the CLI's typed errors.
func itemErr(err error, id string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errNotFound("item", id)
	case errors.Is(err, store.ErrStaleOrder), errors.Is(err, store.ErrNotSingleMove):
		return fmt.Errorf("list changed while moving %s: %w", id, err)
	}
	return err
}
