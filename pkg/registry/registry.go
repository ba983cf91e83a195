// Package registry is the process-wide collaborator that owns every live
// Session and serializes access to each one across concurrent callers
// (spec §5): a map lookup (ID to session) is a shared-read operation, but
// each session's own transitions must still run one at a time.
//
// The pattern -- one RWMutex guarding the map itself, plus one Mutex per
// entry guarding that entry's mutating calls -- follows
// protocols/lss/dealer/dealer.go's BootstrapDealer, adapted from a single
// flat mutex (that repo serializes its whole dealer) to the two-level
// scheme a multi-session registry needs: looking up session B must never
// block behind a long-running call on session A.
package registry

import (
	"sync"

	"github.com/noiseproto/binomial-dp/session"
)

// entry pairs a session with the mutex that serializes calls against it.
type entry struct {
	mu   sync.Mutex
	sess *session.Session
}

// Registry holds every live session for the process, keyed by an
// opaque caller-assigned ID (spec §6's {session_id} path parameter).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]*entry)}
}

// Create registers a freshly constructed session under id. It returns
// ErrAlreadyExists if id is already in use.
func (r *Registry) Create(id string, bits []int, opts ...session.Option) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; ok {
		return nil, ErrAlreadyExists
	}

	sess, err := session.New(bits, opts...)
	if err != nil && sess == nil {
		return nil, err
	}
	r.sessions[id] = &entry{sess: sess}
	return sess, err
}

// Delete removes id from the registry, freeing it for reuse. It is not an
// error to delete an ID that was never registered.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// lookup returns the entry for id under the map's read lock.
func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Get returns the session registered under id, for read-only query calls
// (spec §6 GET endpoints) that a caller will not interleave with a
// concurrent mutating call of their own. Mutating calls must go through
// With instead.
func (r *Registry) Get(id string) (*session.Session, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.sess, nil
}

// With runs fn against the session registered under id while holding that
// entry's exclusive lock, so two mutating calls against the same session
// (e.g. two concurrent submit-range requests) never interleave. It never
// blocks lookups or With calls against any other session.
func (r *Registry) With(id string, fn func(*session.Session) error) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}
