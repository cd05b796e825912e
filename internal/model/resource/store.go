package resource

// Store exposes resource retrieval for HTTP handlers.
type Store interface {
	List() []Resource
	FindByID(id string) (Resource, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Resource
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied resources.
func NewMemoryStore(items []Resource) *MemoryStore {
	return &MemoryStore{items: append([]Resource(nil), items...)}
}

// List returns a copy of the directory.
func (s *MemoryStore) List() []Resource {
	return append([]Resource(nil), s.items...)
}

// FindByID looks up a resource by identifier.
func (s *MemoryStore) FindByID(id string) (Resource, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Resource{}, false
}
