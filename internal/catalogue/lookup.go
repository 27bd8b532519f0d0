package catalogue

// Defaults holds the catalogue fallback values for one commodity description.
type Defaults struct {
	HSCode   string
	Category string
}

// Lookup provides fast in-memory lookups of catalogue defaults by commodity
// description. It is immutable after construction and safe for concurrent
// access, so one Lookup can be shared across a whole request cycle.
type Lookup struct {
	byDescription map[string]Defaults
}

// NewLookup builds a Lookup from catalogue entries loaded from the database.
// Duplicate descriptions keep the first entry seen.
func NewLookup(entries []Entry) *Lookup {
	m := make(map[string]Defaults, len(entries))
	for idx := range entries {
		e := &entries[idx]
		if _, ok := m[e.Description]; ok {
			continue
		}
		m[e.Description] = Defaults{HSCode: e.HSCode, Category: e.Category}
	}
	return &Lookup{byDescription: m}
}

// Defaults returns the catalogue defaults for the given description.
func (l *Lookup) Defaults(description string) (Defaults, bool) {
	if l == nil || len(l.byDescription) == 0 {
		return Defaults{}, false
	}
	d, ok := l.byDescription[description]
	return d, ok
}

// Len returns the number of catalogued descriptions.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.byDescription)
}
