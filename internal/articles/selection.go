package articles

// Selection tracks which article, if any, the form is editing.
// The zero value is create mode.
type Selection struct {
	id int
}

// Select switches to editing the article with the given id. Id 0 clears.
func (s *Selection) Select(id int) {
	s.id = id
}

// Clear returns to create mode.
func (s *Selection) Clear() {
	s.id = 0
}

// Current returns the selected id and whether one is selected.
func (s Selection) Current() (int, bool) {
	return s.id, s.id != 0
}

// Is reports whether id is the selected article.
func (s Selection) Is(id int) bool {
	return s.id != 0 && s.id == id
}

// Editing reports whether an article is selected.
func (s Selection) Editing() bool {
	return s.id != 0
}
