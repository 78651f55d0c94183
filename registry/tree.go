// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

// node is one slot of the arena. A node carries its own weight plus the
// aggregate weight of each child subtree, so a descent can resolve a
// random offset without visiting more than one root-to-leaf path.
type node struct {
	weight      uint64
	leftWeight  uint64
	rightWeight uint64
}

// tree is a dense arena of weight nodes. The children of slot i live at
// 2i+1 and 2i+2; position, not pointers, encodes the tree shape. Slots
// vacated by deletion go on a free-list and are handed back out before
// the arena grows.
type tree struct {
	nodes []node
	free  []uint32
}

// total returns the aggregate weight of every occupied slot.
func (t *tree) total() uint64 {
	if len(t.nodes) == 0 {
		return 0
	}
	root := t.nodes[0]
	return root.leftWeight + root.weight + root.rightWeight
}

func (t *tree) weight(i uint32) uint64 {
	return t.nodes[i].weight
}

// allocate returns a zeroed slot, reusing a vacated one when available.
func (t *tree) allocate() uint32 {
	if n := len(t.free); n > 0 {
		i := t.free[n-1]
		t.free = t.free[:n-1]
		return i
	}
	t.nodes = append(t.nodes, node{})
	return uint32(len(t.nodes) - 1)
}

// release returns slot i to the free-list. The slot's weight must
// already be zero and propagated.
func (t *tree) release(i uint32) {
	t.free = append(t.free, i)
}

// setWeight sets slot i's own weight and walks the parent chain,
// adjusting each ancestor's left or right subtree sum depending on
// which child the walk ascends from.
func (t *tree) setWeight(i uint32, weight uint64) {
	old := t.nodes[i].weight
	t.nodes[i].weight = weight
	switch {
	case weight > old:
		t.addToAncestors(i, weight-old)
	case old > weight:
		t.subFromAncestors(i, old-weight)
	}
}

func (t *tree) addToAncestors(i uint32, delta uint64) {
	for i > 0 {
		parent := (i - 1) / 2
		if i&1 == 1 {
			t.nodes[parent].leftWeight += delta
		} else {
			t.nodes[parent].rightWeight += delta
		}
		i = parent
	}
}

func (t *tree) subFromAncestors(i uint32, delta uint64) {
	for i > 0 {
		parent := (i - 1) / 2
		if i&1 == 1 {
			t.nodes[parent].leftWeight -= delta
		} else {
			t.nodes[parent].rightWeight -= delta
		}
		i = parent
	}
}

// find resolves offset into the slot whose weight interval contains it.
// At each node the offset is compared against the left subtree sum,
// then the node's own weight, then passed into the right subtree with
// both subtracted.
//
// Invariant: offset < t.total(). Zero-weight slots are skipped
// naturally because no offset can land inside an empty interval.
func (t *tree) find(offset uint64) uint32 {
	i := uint32(0)
	for {
		n := &t.nodes[i]
		if offset < n.leftWeight {
			i = 2*i + 1
			continue
		}
		offset -= n.leftWeight
		if offset < n.weight {
			return i
		}
		offset -= n.weight
		i = 2*i + 2
	}
}
