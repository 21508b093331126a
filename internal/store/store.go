// Package store keeps the in-process state shared by all update handlers.
package store

import (
	"sync"

	"github.com/glebk/lunch-buddy/internal/domain"
)

// Session guards the state of one group
type Session struct {
	mu    sync.RWMutex
	state *domain.GroupState
}

// Update runs fn with exclusive access to the group state
func (s *Session) Update(fn func(st *domain.GroupState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// View runs fn with shared access to the group state. fn must not modify it.
func (s *Session) View(fn func(st *domain.GroupState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Store maps group ids to sessions. Groups are never removed.
type Store struct {
	mu          sync.RWMutex
	groups      map[int64]*Session
	invitations map[string]int64
}

// New creates an empty store
func New() *Store {
	return &Store{
		groups:      make(map[int64]*Session),
		invitations: make(map[string]int64),
	}
}

// Get returns the session of a group if it exists
func (s *Store) Get(groupID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.groups[groupID]
	return session, ok
}

// GetOrCreate returns the session of a group, creating it on first use
func (s *Store) GetOrCreate(groupID int64) *Session {
	if session, ok := s.Get(groupID); ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.groups[groupID]; ok {
		return session
	}
	session := &Session{state: domain.NewGroupState(groupID)}
	s.groups[groupID] = session
	return session
}

// IndexInvitation points an invitation id at its group and drops the id
// of the invitation it supersedes
func (s *Store) IndexInvitation(invitationID string, groupID int64, supersededID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if supersededID != "" {
		delete(s.invitations, supersededID)
	}
	s.invitations[invitationID] = groupID
}

// InvitationGroup resolves the group of a live invitation
func (s *Store) InvitationGroup(invitationID string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groupID, ok := s.invitations[invitationID]
	return groupID, ok
}
