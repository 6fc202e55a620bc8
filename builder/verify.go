package builder

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/parser"
)

// Side tells whether a hidden token was captured before or after a node.
type Side uint8

const (
	LeadingSide Side = iota
	TrailingSide
)

func (s Side) String() string {
	if s == TrailingSide {
		return "trailing"
	}
	return "leading"
}

// Owner records the node holding one hidden token.
type Owner struct {
	Token ast.HiddenToken
	Node  ast.Node
	Side  Side
}

// Ownership lists every hidden token held by the nodes of doc in walk
// order. Glue and tokens split out of a marker are included; their index
// is NoIndex or the index of the marker.
func Ownership(doc *ast.Document) []Owner {
	var owners []Owner
	ast.Inspect(doc, func(n ast.Node) {
		for _, tok := range n.Leading() {
			owners = append(owners, Owner{Token: tok, Node: n, Side: LeadingSide})
		}
		for _, tok := range n.Trailing() {
			owners = append(owners, Owner{Token: tok, Node: n, Side: TrailingSide})
		}
	})
	return owners
}

// PartitionError reports hidden tokens that are owned by no node or by
// more than one.
type PartitionError struct {
	Unowned    []int
	Duplicated []int
	Mismatched []int // owned text differs from the source
}

func (e *PartitionError) Error() string {
	var parts []string
	if len(e.Unowned) > 0 {
		parts = append(parts, fmt.Sprintf("unowned hidden tokens %v", e.Unowned))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("hidden tokens owned twice %v", e.Duplicated))
	}
	if len(e.Mismatched) > 0 {
		parts = append(parts, fmt.Sprintf("hidden tokens with altered text %v", e.Mismatched))
	}
	return "partition violated: " + strings.Join(parts, "; ")
}

// VerifyPartition checks that every hidden token of stream is owned by
// exactly one node of doc, with its exact source text.
func VerifyPartition(stream *parser.TokenStream, doc *ast.Document) error {
	counts := make(map[int]int)
	perr := &PartitionError{}

	for _, owner := range Ownership(doc) {
		idx := owner.Token.TokenIndex
		if idx == ast.NoIndex || idx >= stream.Len() || !stream.Get(idx).Hidden() {
			continue
		}
		counts[idx]++
		if owner.Token.Text != stream.Text(idx) {
			perr.Mismatched = append(perr.Mismatched, idx)
		}
	}

	for _, tok := range stream.Tokens() {
		if !tok.Hidden() {
			continue
		}
		switch counts[tok.Index] {
		case 0:
			perr.Unowned = append(perr.Unowned, tok.Index)
		case 1:
		default:
			perr.Duplicated = append(perr.Duplicated, tok.Index)
		}
	}

	if len(perr.Unowned)+len(perr.Duplicated)+len(perr.Mismatched) > 0 {
		return perr
	}
	return nil
}

// Verify checks the partition of the built document and that the claim set
// covers exactly the hidden tokens of the stream.
func (r *Result) Verify() error {
	if err := VerifyPartition(r.Stream, r.Document); err != nil {
		return err
	}

	hidden := make(map[int]bool)
	for _, tok := range r.Stream.Tokens() {
		if tok.Hidden() {
			hidden[tok.Index] = true
		}
	}
	claimed := r.Claims.Indices()
	expected := maps.Keys(hidden)
	slices.Sort(expected)
	if !slices.Equal(claimed, expected) {
		return fmt.Errorf("claim set has %d indices, stream has %d hidden tokens", len(claimed), len(expected))
	}
	return nil
}
