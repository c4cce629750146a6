// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// Expansion is the set of tree nodes an operator has expanded. It is UI
// state only and never touches category rows.
type Expansion map[uuid.UUID]bool

// NewExpansion builds an Expansion from stored ids.
func NewExpansion(ids []uuid.UUID) Expansion {
	e := make(Expansion, len(ids))
	for _, id := range ids {
		e[id] = true
	}
	return e
}

// Toggle flips the node's state and returns whether it is now expanded.
func (e Expansion) Toggle(id uuid.UUID) bool {
	if e[id] {
		delete(e, id)
		return false
	}
	e[id] = true
	return true
}

// IsExpanded reports whether the node is expanded.
func (e Expansion) IsExpanded(id uuid.UUID) bool {
	return e[id]
}

// IDs returns the expanded node ids in a stable order.
func (e Expansion) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// Prune drops ids that are no longer in the tree.
func (e Expansion) Prune(t *Tree) {
	for id := range e {
		if t.Find(id) == nil {
			delete(e, id)
		}
	}
}
