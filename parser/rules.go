package parser

// Rule grammar. Every rule starts with a marker token; what follows decides
// the rule kind:
//
//	card rule                             * path 0..1 MS
//	flag rule                             * path MS SU
//	binding rule                          * path from VS (required)
//	assignment rule                       * path = value (exactly)
//	only rule                             * path only A or B
//	contains rule                         * path contains a 0..1 and b 1..*
//	caret value rule (path optional)      * path ^caret = value
//	obeys rule (path optional)            * path obeys inv-1 and inv-2
//	insert rule (path optional)           * path insert RuleSet(params)
//	path rule                             * path
//	add element rule (Logical, Resource)  * path 0..1 MS string "short"
//	mapping rule (path optional)          * path -> "target" "comment" #lang
//	concept rule (CodeSystem)             * #code "display" "definition"
//	code caret value rule (CodeSystem)    * #code ^caret = value
//	component rule (ValueSet)             * include codes from system X

// parseRule parses one rule line starting at a marker token.
func (p *Parser) parseRule() (*Tree, error) {
	star := p.terminal()

	if err := p.checkLegal(); err != nil {
		return nil, err
	}

	switch tok := p.peek(); {
	case tok.Type == CARET:
		return p.parseCaretValueRule(star)
	case tok.Type == INSERT:
		return p.parseInsertRule(star)
	case tok.Type == ARROW:
		return p.parseMappingRule(star)
	case tok.Type == OBEYS:
		return p.parseObeysRule([]*Tree{star})
	case p.checkAny(INCLUDE, EXCLUDE, CODES):
		return p.parseComponentRule(star)
	case tok.Type == CODE:
		if p.entity == VALUESET {
			return p.parseComponentRule(star)
		}
		return p.parseConceptRule(star)
	case p.atLineStart():
		return nil, p.error("expected rule after '*' but got %s", p.describe(tok))
	}

	path := p.terminal()
	children := []*Tree{star, path}

	switch tok := p.peek(); {
	case p.atLineStart():
		return node(PathRuleTree, children...), nil
	case tok.Type == CARD:
		return p.parseCardOrAddElementRule(children)
	case tok.Type == FLAG:
		children = append(children, p.flags()...)
		return p.finishRule(FlagRuleTree, children)
	case tok.Type == FROM:
		return p.parseBindingRule(children)
	case tok.Type == EQUAL:
		return p.parseAssignmentRule(children)
	case tok.Type == ONLY:
		return p.parseOnlyRule(children)
	case tok.Type == CONTAINS:
		return p.parseContainsRule(children)
	case tok.Type == CARET:
		return p.parseCaretValueRule(children...)
	case tok.Type == OBEYS:
		return p.parseObeysRule(children)
	case tok.Type == INSERT:
		return p.parseInsertRule(children...)
	case tok.Type == ARROW:
		return p.parseMappingRule(children...)
	default:
		return nil, p.error("unexpected %s after path", p.describe(tok))
	}
}

// finishRule checks that the rule consumed its whole line.
func (p *Parser) finishRule(kind TreeKind, children []*Tree) (*Tree, error) {
	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}
	return node(kind, children...), nil
}

// flags consumes a run of flag tokens.
func (p *Parser) flags() []*Tree {
	var flags []*Tree
	for p.check(FLAG) {
		flags = append(flags, p.terminal())
	}
	return flags
}

// parseCardOrAddElementRule parses "path card flags*", which becomes an add
// element rule when types and a short description follow.
func (p *Parser) parseCardOrAddElementRule(children []*Tree) (*Tree, error) {
	children = append(children, p.terminal())
	children = append(children, p.flags()...)

	if p.atLineStart() {
		return node(CardRuleTree, children...), nil
	}

	types, err := p.items(OR, "expected element type")
	if err != nil {
		return nil, err
	}
	children = append(children, types...)

	short, err := p.expectTerminal(STRING, "expected short description")
	if err != nil {
		return nil, err
	}
	children = append(children, short)

	if p.checkAny(STRING, MULTILINESTRING) {
		children = append(children, p.terminal())
	}

	return p.finishRule(AddElementRuleTree, children)
}

// parseBindingRule parses "path from ValueSet (strength)".
func (p *Parser) parseBindingRule(children []*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	vs, err := p.lineTerminal("expected value set after 'from'")
	if err != nil {
		return nil, err
	}
	children = append(children, vs)

	if p.check(STRENGTH) {
		children = append(children, p.terminal())
	}

	return p.finishRule(BindingRuleTree, children)
}

// parseAssignmentRule parses "path = value (exactly)".
func (p *Parser) parseAssignmentRule(children []*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	children = append(children, value)

	if p.check(EXACTLY) {
		children = append(children, p.terminal())
	}

	return p.finishRule(AssignmentRuleTree, children)
}

// parseOnlyRule parses "path only A or B".
func (p *Parser) parseOnlyRule(children []*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	types, err := p.items(OR, "expected type after 'only'")
	if err != nil {
		return nil, err
	}
	children = append(children, types...)

	return p.finishRule(OnlyRuleTree, children)
}

// parseObeysRule parses "path obeys inv-1 and inv-2".
func (p *Parser) parseObeysRule(children []*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	invariants, err := p.items(AND, "expected invariant after 'obeys'")
	if err != nil {
		return nil, err
	}
	children = append(children, invariants...)

	return p.finishRule(ObeysRuleTree, children)
}

// items parses a list of single-token items separated by sep. Each item
// after the first owns its separator.
func (p *Parser) items(sep TokenType, msg string) ([]*Tree, error) {
	var items []*Tree
	for {
		var parts []*Tree
		if len(items) > 0 {
			parts = append(parts, p.terminal())
		}

		value, err := p.lineTerminal("%s", msg)
		if err != nil {
			return nil, err
		}
		parts = append(parts, value)
		items = append(items, node(ItemTree, parts...))

		if !p.check(sep) {
			return items, nil
		}
	}
}

// parseContainsRule parses "path contains name named alias 0..1 MS and ...".
func (p *Parser) parseContainsRule(children []*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	for {
		var parts []*Tree
		if len(children) > 3 {
			parts = append(parts, p.terminal()) // and
		}

		name, err := p.lineTerminal("expected slice name")
		if err != nil {
			return nil, err
		}
		parts = append(parts, name)

		if p.check(NAMED) {
			parts = append(parts, p.terminal())
			alias, err := p.lineTerminal("expected name after 'named'")
			if err != nil {
				return nil, err
			}
			parts = append(parts, alias)
		}

		card, err := p.expectTerminal(CARD, "expected cardinality for slice")
		if err != nil {
			return nil, err
		}
		parts = append(parts, card)
		parts = append(parts, p.flags()...)

		children = append(children, node(ContainsItemTree, parts...))

		if !p.check(AND) {
			break
		}
	}

	return p.finishRule(ContainsRuleTree, children)
}

// parseCaretValueRule parses "[path] ^caret = value".
func (p *Parser) parseCaretValueRule(children ...*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	equals, err := p.expectTerminal(EQUAL, "expected '=' after caret path")
	if err != nil {
		return nil, err
	}
	children = append(children, equals)

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	children = append(children, value)

	if p.check(EXACTLY) {
		children = append(children, p.terminal())
	}

	return p.finishRule(CaretValueRuleTree, children)
}

// parseInsertRule parses "[path] insert RuleSet(params)".
func (p *Parser) parseInsertRule(children ...*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	name, err := p.lineTerminal("expected rule set name after 'insert'")
	if err != nil {
		return nil, err
	}
	children = append(children, name)

	if p.isParams(p.peek()) {
		children = append(children, p.terminal())
	}

	return p.finishRule(InsertRuleTree, children)
}

// parseMappingRule parses "[path] -> "target" "comment" #language".
func (p *Parser) parseMappingRule(children ...*Tree) (*Tree, error) {
	children = append(children, p.terminal())

	target, err := p.expectTerminal(STRING, "expected mapping target")
	if err != nil {
		return nil, err
	}
	children = append(children, target)

	if p.check(STRING) {
		children = append(children, p.terminal())
	}
	if p.check(CODE) {
		children = append(children, p.terminal())
	}

	return p.finishRule(MappingRuleTree, children)
}

// parseConceptRule parses "#a #b "display" "definition"" and the code
// caret form "#a ^caret = value".
func (p *Parser) parseConceptRule(star *Tree) (*Tree, error) {
	children := []*Tree{star}
	for p.check(CODE) {
		children = append(children, p.terminal())
	}

	if p.check(CARET) {
		children = append(children, p.terminal())
		equals, err := p.expectTerminal(EQUAL, "expected '=' after caret path")
		if err != nil {
			return nil, err
		}
		children = append(children, equals)

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		children = append(children, value)

		return p.finishRule(CodeCaretValueRuleTree, children)
	}

	if p.check(STRING) {
		children = append(children, p.terminal())
		if p.checkAny(STRING, MULTILINESTRING) {
			children = append(children, p.terminal())
		}
	}

	return p.finishRule(ConceptRuleTree, children)
}

// parseComponentRule parses value set components:
//
//	ValueSet: Example
//	* include SYS#code "display" from valueset VS
//	* exclude codes from system SYS and valueset VS where concept is-a #x
func (p *Parser) parseComponentRule(star *Tree) (*Tree, error) {
	children := []*Tree{star}
	if p.checkAny(INCLUDE, EXCLUDE) {
		children = append(children, p.terminal())
	}

	switch {
	case p.check(CODES):
		children = append(children, p.terminal())
		if !p.check(FROM) {
			return nil, p.error("expected 'from' after 'codes' but got %s", p.describe(p.peek()))
		}
	case p.check(CODE):
		code, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		children = append(children, code)
	default:
		return nil, p.error("expected code or 'codes' but got %s", p.describe(p.peek()))
	}

	if p.check(FROM) {
		children = append(children, p.terminal())

		sources, err := p.componentSources()
		if err != nil {
			return nil, err
		}
		children = append(children, sources...)
	}

	if p.check(WHERE) {
		children = append(children, p.terminal())

		filters, err := p.componentFilters()
		if err != nil {
			return nil, err
		}
		children = append(children, filters...)
	}

	return p.finishRule(ComponentRuleTree, children)
}

// componentSources parses "system X and valueset Y and Z".
func (p *Parser) componentSources() ([]*Tree, error) {
	var sources []*Tree
	for {
		var parts []*Tree
		if len(sources) > 0 {
			parts = append(parts, p.terminal()) // and
		}

		if p.checkAny(SYSTEM, VALUESETREF) {
			parts = append(parts, p.terminal())
		} else if len(sources) == 0 {
			return nil, p.error("expected 'system' or 'valueset' but got %s", p.describe(p.peek()))
		}

		name, err := p.lineTerminal("expected system or value set")
		if err != nil {
			return nil, err
		}
		parts = append(parts, name)
		sources = append(sources, node(ComponentSourceTree, parts...))

		if !p.check(AND) {
			return sources, nil
		}
	}
}

// componentFilters parses "property operator value and ...".
func (p *Parser) componentFilters() ([]*Tree, error) {
	var filters []*Tree
	for {
		var parts []*Tree
		if len(filters) > 0 {
			parts = append(parts, p.terminal()) // and
		}

		property, err := p.lineTerminal("expected filter property")
		if err != nil {
			return nil, err
		}
		operator, err := p.lineTerminal("expected filter operator")
		if err != nil {
			return nil, err
		}
		parts = append(parts, property, operator)

		if !p.atLineStart() && !p.check(AND) {
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			parts = append(parts, value)
		}
		filters = append(filters, node(ComponentFilterTree, parts...))

		if !p.check(AND) {
			return filters, nil
		}
	}
}
