package store

import (
	"sync"

	"github.com/glebk/lunch-buddy/internal/domain"
)

// Cursors holds the respondent cursor of every user in a private chat.
// A user has at most one active survey at a time.
type Cursors struct {
	mu      sync.Mutex
	cursors map[int64]domain.Cursor
}

// NewCursors creates an empty cursor table
func NewCursors() *Cursors {
	return &Cursors{cursors: make(map[int64]domain.Cursor)}
}

// Get returns the user's cursor
func (c *Cursors) Get(userID int64) (domain.Cursor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cursor, ok := c.cursors[userID]
	return cursor, ok
}

// Set replaces the user's cursor
func (c *Cursors) Set(userID int64, cursor domain.Cursor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursors[userID] = cursor
}

// Delete drops the user's cursor
func (c *Cursors) Delete(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cursors, userID)
}

// Update runs fn on a copy of the user's cursor while holding the table
// lock and reports whether the user had one. When fn succeeds the copy is
// stored, or dropped if keep is false. When fn fails the cursor is left
// as it was, or dropped if keep is false.
func (c *Cursors) Update(userID int64, fn func(cursor *domain.Cursor) (keep bool, err error)) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cursor, ok := c.cursors[userID]
	if !ok {
		return false, nil
	}
	keep, err := fn(&cursor)
	switch {
	case !keep:
		delete(c.cursors, userID)
	case err == nil:
		c.cursors[userID] = cursor
	}
	return true, err
}
