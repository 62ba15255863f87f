package domain

// ResultSet is the ordered outcome of the most recent search.
// Display indices are 1-based; At takes a 0-based offset.
type ResultSet struct {
	items []Broadcast
}

// NewResultSet copies broadcasts in display order
func NewResultSet(items []Broadcast) ResultSet {
	r := ResultSet{items: make([]Broadcast, len(items))}
	copy(r.items, items)
	return r
}

// Len returns the number of broadcasts
func (r ResultSet) Len() int { return len(r.items) }

// Empty reports whether the last search found nothing
func (r ResultSet) Empty() bool { return len(r.items) == 0 }

// At returns the broadcast at the 0-based offset i
func (r ResultSet) At(i int) (Broadcast, error) {
	if i < 0 || i >= len(r.items) {
		return Broadcast{}, &IndexOutOfRangeError{Index: i + 1, Max: len(r.items)}
	}
	return r.items[i], nil
}

// Titles returns the broadcast titles in display order
func (r ResultSet) Titles() []string {
	titles := make([]string, len(r.items))
	for i, b := range r.items {
		titles[i] = b.Title
	}
	return titles
}

// All returns a copy of the broadcasts in display order
func (r ResultSet) All() []Broadcast {
	out := make([]Broadcast, len(r.items))
	copy(out, r.items)
	return out
}
