// Package sit implements the string index tree (SIT): a radix trie over
// lowercased UTF-8 keys supporting greedy longest-prefix matching in time
// proportional to the input length, independent of the number of entries.
//
// It backs the locale word-list lookups (month names, weekday names,
// AM/PM markers, era labels, localized numerals) used by the scan runtime.
// Nodes live in a flat arena (a slice) addressed by index rather than in a
// pointer-linked structure, so there is nothing for a cycle-detector to
// worry about and a node split is just a couple of index writes.
package sit

import (
	"github.com/clockfmt/clockfmt/internal/utf8eq"
)

// Ambiguous is returned as a node's value when its descendants disagree on
// value: an interior "group" node that only matches if a child consumes
// more input.
const Ambiguous = -1

type node struct {
	key         []byte // this node's own segment, lowercased, relative to its parent
	value       int32
	firstChild  int32
	nextSibling int32
}

// Tree is a radix trie over lowercased UTF-8 keys. The zero value is an
// empty, ready-to-use tree.
type Tree struct {
	nodes     []node
	rootFirst int32
}

func (t *Tree) init() {
	if t.nodes == nil {
		t.nodes = make([]node, 0, 8)
		t.rootFirst = -1
	}
}

type parentRef struct {
	isRoot bool
	node   int32
}

func (t *Tree) headOf(p parentRef) int32 {
	if p.isRoot {
		return t.rootFirst
	}
	return t.nodes[p.node].firstChild
}

func (t *Tree) setHead(p parentRef, v int32) {
	if p.isRoot {
		t.rootFirst = v
	} else {
		t.nodes[p.node].firstChild = v
	}
}

// appendChild appends newIdx at the tail of p's sibling list, preserving
// insertion order the way TclStrIdxTreeAppend does.
func (t *Tree) appendChild(p parentRef, newIdx int32) {
	head := t.headOf(p)
	if head == -1 {
		t.setHead(p, newIdx)
		return
	}
	cur := head
	for t.nodes[cur].nextSibling != -1 {
		cur = t.nodes[cur].nextSibling
	}
	t.nodes[cur].nextSibling = newIdx
}

// insertBranch splices itemIdx into childIdx's position within p's sibling
// list, then re-parents childIdx as itemIdx's sole child — the radix-split
// primitive used when a new key shares a prefix shorter than an existing
// node's own segment.
func (t *Tree) insertBranch(p parentRef, childIdx, itemIdx int32) {
	head := t.headOf(p)
	if head == childIdx {
		t.setHead(p, itemIdx)
	} else {
		cur := head
		for t.nodes[cur].nextSibling != childIdx {
			cur = t.nodes[cur].nextSibling
		}
		t.nodes[cur].nextSibling = itemIdx
	}
	t.nodes[itemIdx].nextSibling = t.nodes[childIdx].nextSibling
	t.nodes[childIdx].nextSibling = -1
	t.nodes[itemIdx].firstChild = childIdx
}

func (t *Tree) newNode(key []byte, value int32) int32 {
	t.nodes = append(t.nodes, node{key: key, value: value, firstChild: -1, nextSibling: -1})
	return int32(len(t.nodes) - 1)
}

// walk performs the greedy descent shared by Search and Build: it returns
// the deepest node reached, the parent list it lives in, the number of
// bytes of key consumed to reach it, and how much of the matched node's
// own local segment (as opposed to its ancestors') that consumption
// covers. If the deepest level's sibling scan finds no overlap at all, it
// backs off to the last remembered non-ambiguous ancestor (the "fallback"
// of spec.md §4.2) — whose local segment is always fully matched, since
// that is the only way a node is ever recorded as a fallback candidate.
func (t *Tree) walk(start parentRef, key []byte) (found int32, parent parentRef, consumed, localMatched int, ok bool) {
	cur := t.headOf(start)
	level := start

	var fbNode int32 = -1
	var fbParent parentRef
	var fbConsumed int
	haveFb := false

	remaining := key
	pos := 0

	for {
		var matched int32 = -1
		var advIn, advLocal int
		c := cur
		for c != -1 {
			n := &t.nodes[c]
			ai, al := utf8eq.PrefixFoldRHSLower(remaining, n.key)
			if al > 0 {
				matched, advIn, advLocal = c, ai, al
				break
			}
			c = n.nextSibling
		}

		if matched == -1 {
			break
		}

		n := &t.nodes[matched]
		pos += advIn
		remaining = remaining[advIn:]

		if len(remaining) == 0 {
			return matched, level, pos, advLocal, true
		}

		if advLocal == len(n.key) && n.firstChild != -1 {
			if n.value != Ambiguous {
				fbNode, fbParent, fbConsumed, haveFb = matched, level, pos, true
			}
			level = parentRef{node: matched}
			cur = n.firstChild
			continue
		}

		return matched, level, pos, advLocal, true
	}

	if haveFb {
		// The fallback node was only ever recorded when its entire local
		// segment matched.
		return fbNode, fbParent, fbConsumed, len(t.nodes[fbNode].key), true
	}
	return -1, parentRef{}, 0, 0, false
}

// Build extends the tree with the given strings, each carrying the
// supplied value (or, if values is nil, its own index). Empty strings are
// ignored. When merging several lists into one tree, supply the list with
// the longer strings first — see the package-level ordering invariant
// below.
//
// Ordering invariant: building a tree from list₁ followed by list₂ where
// every entry of list₁ is at least as long as the corresponding entry of
// list₂ avoids creating ambiguous interiors that a longest-first build
// would not have created.
func (t *Tree) Build(strs []string, values []int) {
	t.init()
	if values == nil {
		values = make([]int, len(strs))
		for i := range values {
			values[i] = i
		}
	}

	for i, s := range strs {
		low := utf8eq.Fold(s)
		if low == "" {
			continue
		}
		t.insert([]byte(low), int32(values[i]))
	}
}

func (t *Tree) insert(key []byte, value int32) {
	if t.rootFirst == -1 {
		t.appendChild(parentRef{isRoot: true}, t.newNode(key, value))
		return
	}

	found, parent, consumed, localMatched, ok := t.walk(parentRef{isRoot: true}, key)
	if !ok || consumed == 0 {
		t.appendChild(parentRef{isRoot: true}, t.newNode(key, value))
		return
	}

	if consumed == len(key) {
		// Already represented (exactly, or as a prefix of something longer).
		return
	}

	// Read the fields we need before making any further newNode calls:
	// appending to t.nodes can reallocate its backing array, so a pointer
	// taken now would silently go stale the moment we create another node.
	foundKeyLen := len(t.nodes[found].key)
	foundValue := t.nodes[found].value
	foundHasChild := t.nodes[found].firstChild != -1

	if localMatched == foundKeyLen {
		// Matched the whole of this node's own segment: extend it with a
		// child carrying the remainder of the new key.
		if foundValue == value && !foundHasChild {
			// Shortest key found with the same value: replace the leaf's
			// segment with the longer key's, so the longer form matches in
			// full and the shorter one still matches as its prefix.
			t.nodes[found].key = key[consumed-foundKeyLen:]
			return
		}
		leaf := t.newNode(key[consumed:], value)
		t.appendChild(parentRef{node: found}, leaf)
		return
	}

	// Partial match inside n's own segment: split.
	commonLen := localMatched
	interiorValue := int32(Ambiguous)
	if foundValue == value {
		interiorValue = value
	}

	commonKey := append([]byte(nil), t.nodes[found].key[:commonLen]...)
	interior := t.newNode(commonKey, interiorValue)
	t.nodes[found].key = t.nodes[found].key[commonLen:]
	t.insertBranch(parent, found, interior)

	leaf := t.newNode(key[consumed:], value)
	t.appendChild(parentRef{node: interior}, leaf)
}

// Search finds the longest prefix of input that is either a full list
// entry, or shared unambiguously among entries with the same value.
// It returns the number of bytes consumed and the matched value.
func (t *Tree) Search(input []byte) (consumed int, value int, ok bool) {
	t.init()
	found, _, n, _, walked := t.walk(parentRef{isRoot: true}, input)
	if !walked || found == -1 {
		return 0, 0, false
	}
	v := t.nodes[found].value
	if v == Ambiguous {
		return 0, 0, false
	}
	return n, int(v), true
}
