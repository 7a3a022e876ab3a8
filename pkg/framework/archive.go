package framework

// Archive keeps a set of mutually non-dominated solutions in a flat slice.
// Insertion compacts the slice in place with swap-removes, so the archive
// never allocates auxiliary structures and the stored order is arbitrary.
type Archive struct {
	items []*Solution
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Add inserts s unless some stored solution dominates it or an equal stored
// solution shares its decision vector. Stored solutions dominated by s are
// removed. It reports whether s was kept.
func (a *Archive) Add(s *Solution) bool {
	for i := 0; i < len(a.items); {
		switch Compare(s.Objectives, a.items[i].Objectives) {
		case Equal:
			if s.SameBits(a.items[i]) {
				return false
			}
			// Objective ties with a distinct decision vector are kept,
			// but only one copy of any decision vector.
			for j := i + 1; j < len(a.items); j++ {
				if s.SameBits(a.items[j]) {
					return false
				}
			}
			a.items = append(a.items, s)
			return true
		case Dominates:
			// Swap-remove without advancing: the swapped-in element
			// still has to be compared against s.
			last := len(a.items) - 1
			a.items[i] = a.items[last]
			a.items[last] = nil
			a.items = a.items[:last]
		case Dominated:
			return false
		default:
			i++
		}
	}
	a.items = append(a.items, s)
	return true
}

// Len returns the number of stored solutions.
func (a *Archive) Len() int {
	return len(a.items)
}

// Items exposes the backing slice. Callers must not grow or reorder it.
func (a *Archive) Items() []*Solution {
	return a.items
}

// TakeAt removes and returns the solution at index i, swapping the last
// element into its place.
func (a *Archive) TakeAt(i int) *Solution {
	s := a.items[i]
	last := len(a.items) - 1
	a.items[i] = a.items[last]
	a.items[last] = nil
	a.items = a.items[:last]
	return s
}

// Clone returns a new archive sharing solution pointers with a.
func (a *Archive) Clone() *Archive {
	items := make([]*Solution, len(a.items))
	copy(items, a.items)
	return &Archive{items: items}
}
