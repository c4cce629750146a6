// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy builds and edits the practice-area and post-category
// hierarchies. Both taxonomies share this code; they differ only in the
// repository the Manager is given.
package taxonomy

import (
	"github.com/google/uuid"

	"legaldir/internal/models"
)

// Node is a category placed in the tree.
type Node struct {
	models.Category
	Depth         int     `json:"depth"`
	Subcategories []*Node `json:"subcategories"`
}

// OrphanReason explains why a category could not be placed in the tree.
type OrphanReason string

const (
	// ReasonMissingParent: parent_id points at a category that does not exist.
	ReasonMissingParent OrphanReason = "missing_parent"
	// ReasonCycle: the category is part of a parent_id loop.
	ReasonCycle OrphanReason = "cycle"
	// ReasonUnreachable: an ancestor is itself an orphan.
	ReasonUnreachable OrphanReason = "unreachable"
)

// Orphan is a category that exists but is not part of the tree.
type Orphan struct {
	ID       uuid.UUID    `json:"id"`
	ParentID *uuid.UUID   `json:"parent_id"`
	Name     string       `json:"name"`
	Reason   OrphanReason `json:"reason"`
}

// Tree is a loaded taxonomy. Orphans is never nil so it always
// serializes as a list.
type Tree struct {
	Roots   []*Node  `json:"roots"`
	Orphans []Orphan `json:"orphans"`
}

// BuildTree arranges a flat category list into a tree. Roots and children
// keep the order of the input. Categories that cannot be reached from a
// root are left out of the tree and reported in Orphans, in input order.
func BuildTree(categories []models.Category) *Tree {
	byID := make(map[uuid.UUID]int, len(categories))
	for i, c := range categories {
		byID[c.ID] = i
	}

	children := make(map[uuid.UUID][]int)
	var roots []int
	for i, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, i)
			continue
		}
		if _, ok := byID[*c.ParentID]; ok {
			children[*c.ParentID] = append(children[*c.ParentID], i)
		}
	}

	placed := make([]bool, len(categories))
	var attach func(i, depth int) *Node
	attach = func(i, depth int) *Node {
		placed[i] = true
		n := &Node{Category: categories[i], Depth: depth, Subcategories: []*Node{}}
		for _, ci := range children[categories[i].ID] {
			n.Subcategories = append(n.Subcategories, attach(ci, depth+1))
		}
		return n
	}

	t := &Tree{Roots: []*Node{}, Orphans: []Orphan{}}
	for _, i := range roots {
		t.Roots = append(t.Roots, attach(i, 0))
	}

	for i, c := range categories {
		if placed[i] {
			continue
		}
		t.Orphans = append(t.Orphans, Orphan{
			ID:       c.ID,
			ParentID: c.ParentID,
			Name:     c.Name(models.DefaultLanguage),
			Reason:   orphanReason(categories, byID, i),
		})
	}
	return t
}

// orphanReason walks up from an unplaced category. The walk either leaves
// the data set (missing parent) or loops; the category is a cycle member
// only if the loop comes back to it.
func orphanReason(categories []models.Category, byID map[uuid.UUID]int, start int) OrphanReason {
	first := categories[start].ParentID
	if _, ok := byID[*first]; !ok {
		return ReasonMissingParent
	}

	seen := map[int]bool{start: true}
	cur := byID[*first]
	for {
		if cur == start {
			return ReasonCycle
		}
		if seen[cur] {
			return ReasonUnreachable
		}
		seen[cur] = true
		p := categories[cur].ParentID
		if p == nil {
			// Unplaced nodes never descend from a root.
			return ReasonUnreachable
		}
		next, ok := byID[*p]
		if !ok {
			return ReasonUnreachable
		}
		cur = next
	}
}

// FlatItem is one entry of a depth-first flattened tree, used for
// <select> dropdowns.
type FlatItem struct {
	models.Category
	Depth int `json:"depth"`
}

// Flatten walks the tree depth-first.
func (t *Tree) Flatten() []FlatItem {
	out := []FlatItem{}
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, FlatItem{Category: n.Category, Depth: n.Depth})
			walk(n.Subcategories)
		}
	}
	walk(t.Roots)
	return out
}

// Find returns the node with the given id, or nil.
func (t *Tree) Find(id uuid.UUID) *Node {
	var find func(nodes []*Node) *Node
	find = func(nodes []*Node) *Node {
		for _, n := range nodes {
			if n.ID == id {
				return n
			}
			if found := find(n.Subcategories); found != nil {
				return found
			}
		}
		return nil
	}
	return find(t.Roots)
}

// descendants returns the ids of every category below id, following
// parent_id links in the flat list. Cycles are tolerated.
func descendants(categories []models.Category, id uuid.UUID) map[uuid.UUID]bool {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	out := map[uuid.UUID]bool{}
	stack := []uuid.UUID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range children[cur] {
			if !out[child] {
				out[child] = true
				stack = append(stack, child)
			}
		}
	}
	return out
}
