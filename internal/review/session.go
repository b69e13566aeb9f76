package review

// Selection identifies the checkpoint being reviewed.
type Selection struct {
	Date string `json:"date"`
	Day  int    `json:"day"`
	Set  bool   `json:"set"`
}

// Matches reports whether the selection is the given checkpoint.
func (s Selection) Matches(date string, day int) bool {
	return s.Set && s.Date == date && s.Day == day
}

// Session is the transient reveal state of a review. It is never persisted
// and is not safe for concurrent use.
type Session struct {
	sel      Selection
	revealed map[string]bool
}

// NewSession returns an empty session with nothing selected.
func NewSession() *Session {
	return &Session{revealed: make(map[string]bool)}
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	return s.sel
}

// Select makes (c.Date, day) the active checkpoint. Selecting the active
// checkpoint again clears the selection. Every switch masks all words, except
// a finished checkpoint that is not due, which opens with the whole cohort
// revealed for replay. It returns false when the selection was cleared.
func (s *Session) Select(c Cohort, day int) bool {
	if s.sel.Matches(c.Date, day) {
		s.Clear()
		return false
	}

	s.sel = Selection{Date: c.Date, Day: day, Set: true}
	s.revealed = make(map[string]bool)

	if cp, ok := c.Checkpoint(day); ok && cp.AllCompleted && !cp.Due {
		for _, w := range c.Words {
			s.revealed[w.ID] = true
		}
	}
	return true
}

// Clear drops the selection and the reveal set.
func (s *Session) Clear() {
	s.sel = Selection{}
	s.revealed = make(map[string]bool)
}

// Toggle flips the reveal state of a word and reports whether it moved from
// masked to revealed.
func (s *Session) Toggle(id string) bool {
	if s.revealed[id] {
		delete(s.revealed, id)
		return false
	}
	s.revealed[id] = true
	return true
}

// Revealed reports whether a word is unmasked.
func (s *Session) Revealed(id string) bool {
	return s.revealed[id]
}

// RevealedIDs returns the ids of unmasked words.
func (s *Session) RevealedIDs() []string {
	ids := make([]string, 0, len(s.revealed))
	for id := range s.revealed {
		ids = append(ids, id)
	}
	return ids
}
