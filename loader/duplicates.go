package loader

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/shorthand/ast"
)

// DuplicateNameError reports an entity whose name is already declared in
// the project. Aliases and other entities have separate namespaces.
type DuplicateNameError struct {
	Name   string
	Entity ast.Entity
	Pos    ast.Position
	First  ast.Position // where the name was declared first
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %s %q is already declared at %s", e.Pos, strings.TrimSuffix(ast.EntityKeyword(e.Entity.Kind()), ":"), e.Name, e.First)
}

// GetPosition returns the position of the duplicate declaration.
func (e *DuplicateNameError) GetPosition() ast.Position { return e.Pos }

// GetNode returns the duplicate entity.
func (e *DuplicateNameError) GetNode() ast.Node { return e.Entity }

// GetName returns the duplicated name.
func (e *DuplicateNameError) GetName() string { return e.Name }

// Duplicates returns an error for every entity that reuses a name declared
// earlier in load order.
func (p *Project) Duplicates() []error {
	type key struct {
		alias bool
		name  string
	}
	seen := make(map[key]ast.Position)

	var errs []error
	for _, f := range p.Files {
		for _, e := range f.Document().Entities {
			name := entityName(e)
			if name == "" {
				continue
			}
			k := key{alias: e.Kind() == ast.AliasKind, name: name}
			pos := entityPosition(e, f.Path)
			if first, ok := seen[k]; ok {
				errs = append(errs, &DuplicateNameError{Name: name, Entity: e, Pos: pos, First: first})
				continue
			}
			seen[k] = pos
		}
	}
	return errs
}

// entityName returns the declared name without rule set parameters.
func entityName(e ast.Entity) string {
	name := e.Header().NameText()
	if i := strings.IndexByte(name, '('); i > 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func entityPosition(e ast.Entity, path string) ast.Position {
	pos := e.Span().Start
	if pos.Filename == "" {
		pos.Filename = path
	}
	return pos
}
