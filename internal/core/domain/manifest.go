package domain

import "sort"

// ManifestEntry maps an identity to its displacement map.
type ManifestEntry struct {
	Index             int
	DisplacementImage string
}

// Manifest is the set of successfully generated identities.
type Manifest struct {
	Entries []ManifestEntry
}

// Add appends an entry.
func (m *Manifest) Add(index int, displacement string) {
	m.Entries = append(m.Entries, ManifestEntry{Index: index, DisplacementImage: displacement})
}

// Sorted returns entries ordered by identity index.
func (m *Manifest) Sorted() []ManifestEntry {
	out := make([]ManifestEntry, len(m.Entries))
	copy(out, m.Entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.Entries)
}
