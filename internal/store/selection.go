package store

// Selection returns the selected link ids in collection order.
func (s *Store) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.selection))
	for _, l := range s.links {
		if _, ok := s.selection[l.ID]; ok {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selection[id]
	return ok
}

// Select adds ids to the selection. Unknown ids are ignored.
func (s *Store) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addSelectionLocked(ids)
}

// Deselect removes ids from the selection.
func (s *Store) Deselect(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.selection, id)
	}
}

// ToggleSelected flips the selection state of id.
func (s *Store) ToggleSelected(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selection[id]; ok {
		delete(s.selection, id)
		return
	}
	s.addSelectionLocked([]string{id})
}

// SetSelection replaces the selection with ids.
func (s *Store) SetSelection(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[string]struct{}, len(ids))
	s.addSelectionLocked(ids)
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[string]struct{})
}

func (s *Store) addSelectionLocked(ids []string) {
	known := make(map[string]struct{}, len(s.links))
	for _, l := range s.links {
		known[l.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; ok {
			s.selection[id] = struct{}{}
		}
	}
}

// pruneSelectionLocked drops ids whose link no longer exists.
func (s *Store) pruneSelectionLocked() {
	if len(s.selection) == 0 {
		return
	}
	known := make(map[string]struct{}, len(s.links))
	for _, l := range s.links {
		known[l.ID] = struct{}{}
	}
	for id := range s.selection {
		if _, ok := known[id]; !ok {
			delete(s.selection, id)
		}
	}
}
