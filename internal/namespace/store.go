// Package namespace manages the per-document execution environments that
// vega-plot blocks run against. An environment is created lazily for each
// (document, namespace id) pair, mutated by every block executed in it, and
// deleted when the owning document is purged from the build.
package namespace

import (
	"sync"

	"go.starlark.net/starlark"
)

// Store maps document identifiers to their named execution environments. It
// is owned by the build session; there is no package-level instance.
type Store struct {
	mutex sync.RWMutex
	docs  map[string]map[string]starlark.StringDict
}

// NewStore creates an empty namespace store.
func NewStore() *Store {
	return &Store{
		docs: make(map[string]map[string]starlark.StringDict),
	}
}

// GetOrCreate returns the environment for the given document and namespace
// id, creating it if needed. Later blocks in the same namespace see bindings
// made by earlier ones.
func (s *Store) GetOrCreate(docname, namespace string) starlark.StringDict {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	namespaces, ok := s.docs[docname]
	if !ok {
		namespaces = make(map[string]starlark.StringDict)
		s.docs[docname] = namespaces
	}

	env, ok := namespaces[namespace]
	if !ok {
		env = make(starlark.StringDict)
		namespaces[namespace] = env
	}
	return env
}

// Purge removes all namespace state for a document. Purging a document with
// no state is a no-op.
func (s *Store) Purge(docname string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.docs, docname)
}

// Has reports whether any namespace state exists for the document.
func (s *Store) Has(docname string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.docs[docname]
	return ok
}

// Len returns the number of documents with namespace state.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.docs)
}
