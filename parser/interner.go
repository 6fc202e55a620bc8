package parser

// Interner implements string interning to reduce memory usage.
//
// Paths, element names, flags and value set names repeat across nearly every
// rule of an FSH file ("extension", "value[x]", "MS"). Keeping one canonical
// string per distinct token text lets every AST word share it.
type Interner struct {
	pool map[string]string
}

// NewInterner creates a new string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// InternBytes converts a byte slice to a string and interns it.
func (i *Interner) InternBytes(b []byte) string {
	// The compiler avoids allocating for string(b) used as a map key.
	if interned, ok := i.pool[string(b)]; ok {
		return interned
	}
	s := string(b)
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the intern pool.
func (i *Interner) Size() int {
	return len(i.pool)
}

// Reset clears the intern pool.
func (i *Interner) Reset() {
	i.pool = make(map[string]string)
}
