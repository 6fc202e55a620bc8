package parser

import (
	"context"
	"testing"
)

func FuzzParser(f *testing.F) {
	seeds := []string{
		"Profile: MyPatient\nParent: Patient\n* name 1..1 MS\n",
		"Alias: $SCT = http://snomed.info/sct\n",
		"Instance: Jane\nInstanceOf: Patient\n* name.given = \"Jane\"\n* birthDate = 2000-01-01\n",
		"ValueSet: VS\n* include codes from system $SCT where concept is-a #123\n* exclude $SCT#456\n",
		"CodeSystem: CS\n* #a \"A\" \"Letter a\"\n  * #b \"B\"\n* #a ^property[0].code = #x\n",
		"Logical: L\n* item 0..* BackboneElement \"Item\"\n",
		"Mapping: M\nSource: P\nTarget: \"http://x\"\n* -> \"Patient\"\n* name -> \"name\"\n",
		"RuleSet: RS(a, b)\n* ^publisher = \"{a}\"\n",
		"Profile: A\n// comment\n* name MS // trailing\n\n/* block */\n",

		// Malformed
		"", "*", "Profile:", "Profile: A B", "* name", "Profile: A\n* name 1..1\nParent: X",
		"Instance: I\n* name = \"open", "Profile: A\n* ^short \"x\"",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Parser panicked on input %q: %v", data, r)
			}
		}()

		file, err := ParseBytes(context.Background(), data)
		if err != nil {
			if _, ok := err.(*ParseError); !ok {
				t.Errorf("ParseBytes returned %T, want *ParseError", err)
			}
			return
		}

		// Every tree node references significant tokens in order and
		// stays inside its parent.
		var check func(tree *Tree)
		check = func(tree *Tree) {
			if tree.First > tree.Last {
				t.Errorf("%s: first %d > last %d", tree.Kind, tree.First, tree.Last)
			}
			prev := tree.First
			for _, child := range tree.Children {
				if child.First < prev || child.Last > tree.Last {
					t.Errorf("%s child %s [%d..%d] escapes [%d..%d]", tree.Kind, child.Kind, child.First, child.Last, tree.First, tree.Last)
				}
				if file.Stream.Get(child.First).Hidden() || file.Stream.Get(child.Last).Hidden() {
					t.Errorf("%s child %s bounded by hidden token", tree.Kind, child.Kind)
				}
				prev = child.Last
				check(child)
			}
		}
		check(file.Tree)
	})
}
