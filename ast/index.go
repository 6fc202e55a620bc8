package ast

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Index wraps a document with pre-extracted semantic information: entity
// names by kind, aliases and the parent of every structure definition.
type Index struct {
	*Document
	Names   map[NodeKind]map[string]bool
	Aliases map[string]string
	Parents map[string]string
	Rules   int
}

// NewIndex extracts names, aliases and parents from a document in a single
// pass.
func NewIndex(doc *Document) *Index {
	idx := &Index{
		Document: doc,
		Names:    make(map[NodeKind]map[string]bool),
		Aliases:  make(map[string]string),
		Parents:  make(map[string]string),
	}

	for _, e := range doc.Entities {
		h := e.Header()
		kind := e.Kind()
		if idx.Names[kind] == nil {
			idx.Names[kind] = make(map[string]bool)
		}
		idx.Names[kind][h.NameText()] = true
		idx.Rules += len(h.Rules)

		if alias, ok := e.(*Alias); ok {
			idx.Aliases[h.NameText()] = alias.Value.String()
			continue
		}
		if parent := h.Lookup("Parent"); parent != nil && len(parent.Values) > 0 {
			idx.Parents[h.NameText()] = valueText(parent.Values[0])
		}
	}

	return idx
}

// NameList returns the names of all entities of the given kind, sorted.
func (idx *Index) NameList(kind NodeKind) []string {
	return mapKeys(idx.Names[kind])
}

// Kinds returns the entity kinds present in the document in declaration
// order of NodeKind.
func (idx *Index) Kinds() []NodeKind {
	kinds := maps.Keys(idx.Names)
	slices.Sort(kinds)
	return kinds
}

// ResolveAlias returns the URL an alias stands for, or name unchanged.
func (idx *Index) ResolveAlias(name string) string {
	if url, ok := idx.Aliases[name]; ok {
		return url
	}
	return name
}

// valueText returns the source-level text of a simple value.
func valueText(v Value) string {
	switch v := v.(type) {
	case *NameValue:
		return v.Name
	case *StringValue:
		return v.Value
	case *CodeValue:
		return v.Code
	case *NumberValue:
		return v.Raw
	case *CanonicalValue:
		return v.Raw
	case *ReferenceValue:
		return v.Raw
	}
	return ""
}

// mapKeys extracts keys from a boolean map and returns them sorted.
func mapKeys(m map[string]bool) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
