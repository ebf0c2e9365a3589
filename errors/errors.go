// Package errors gathers many failures from one batch operation into a single error.
package errors

import (
	"errors"
	"fmt"
)

// ItemError is a failure tied to a position in a batch of inputs.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Collection is a thread-unsafe utility for accumulating multiple errors.
// Use this when a batch operation should report every failing input at once
// instead of stopping at the first one.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// AddAt records err as the failure of the input at index. Nil errors are ignored.
func (c *Collection) AddAt(index int, err error) {
	if err != nil {
		c.errors = append(c.errors, &ItemError{Index: index, Err: err})
	}
}

// Clear removes all errors from the collection, resetting it to an empty state.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of errors collected so far.
func (c *Collection) Len() int {
	return len(c.errors)
}

// Indices returns the positions recorded with AddAt, in the order they were added.
func (c *Collection) Indices() []int {
	var out []int

	for _, err := range c.errors {
		var item *ItemError
		if errors.As(err, &item) {
			out = append(out, item.Index)
		}
	}

	return out
}

// GetError returns the collected errors as a single error.
// Returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
