package region

import "github.com/google/uuid"

// Store is the ordered, mutable collection of regions plus the current
// selection. It is exclusively owned by the interaction controller; it never
// triggers rendering itself.
type Store struct {
	regions  []Region
	selected string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a region, assigning a fresh id if it has none, and returns
// the id.
func (s *Store) Add(r Region) string {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.regions = append(s.regions, r)
	return r.ID
}

// Remove deletes the region with the given id. Unknown ids are a no-op.
// The selection is cleared if the selected region was removed.
func (s *Store) Remove(id string) {
	for i, r := range s.regions {
		if r.ID == id {
			s.regions = append(s.regions[:i], s.regions[i+1:]...)
			if s.selected == id {
				s.selected = ""
			}
			return
		}
	}
}

// Find returns a pointer to the region with the given id, or nil.
// The pointer is invalidated by Add/Remove/Replace.
func (s *Store) Find(id string) *Region {
	for i := range s.regions {
		if s.regions[i].ID == id {
			return &s.regions[i]
		}
	}
	return nil
}

// Update applies mutate to the region with the given id. Unknown ids are
// a no-op.
func (s *Store) Update(id string, mutate func(*Region)) {
	if r := s.Find(id); r != nil {
		mutate(r)
	}
}

// ByCamera returns the regions defined against the given camera, in order.
func (s *Store) ByCamera(cameraID string) []Region {
	var out []Region
	for _, r := range s.regions {
		if r.CameraID == cameraID {
			out = append(out, r)
		}
	}
	return out
}

// All returns the live region slice. Callers that need an independent copy
// should use Snapshot.
func (s *Store) All() []Region {
	return s.regions
}

// Snapshot returns a deep copy of all regions.
func (s *Store) Snapshot() []Region {
	return CloneAll(s.regions)
}

// Replace swaps the entire collection, keeping the selection only if the
// selected region still exists.
func (s *Store) Replace(regions []Region) {
	s.regions = regions
	if s.selected != "" && s.Find(s.selected) == nil {
		s.selected = ""
	}
}

// Len returns the number of regions.
func (s *Store) Len() int {
	return len(s.regions)
}

// Select marks the region with the given id as selected. An empty id or an
// unknown id clears the selection.
func (s *Store) Select(id string) {
	if id != "" && s.Find(id) == nil {
		id = ""
	}
	s.selected = id
}

// Selected returns the id of the selected region, or "".
func (s *Store) Selected() string {
	return s.selected
}
