package inflow

import (
	"context"
	"errors"
	"fmt"
)

// ErrCursorStalled is returned by Paginate when a full page ends on the same
// record as the previous one, which would otherwise loop forever.
var ErrCursorStalled = errors.New("inflow: pagination cursor did not advance")

// PageFunc fetches one page of T.
type PageFunc[T any] func(ctx context.Context, opts ListOptions) ([]T, error)

// Paginate walks every page of a listing. fn receives each non-empty page and
// the cursor that selects the next one. The walk ends on the first page shorter
// than pageSize.
func Paginate[T any](ctx context.Context, pageSize int, fetch PageFunc[T], id func(T) string, fn func(page []T, cursor string) error) error {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := fetch(ctx, ListOptions{After: after, Count: pageSize})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		cursor := id(page[len(page)-1])
		if err := fn(page, cursor); err != nil {
			return err
		}

		if len(page) < pageSize {
			return nil
		}
		if cursor == "" || cursor == after {
			return fmt.Errorf("%w at %q", ErrCursorStalled, after)
		}
		after = cursor
	}
}
