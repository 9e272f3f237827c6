// Package thread rebuilds reply trees from a flat list of messages where each
// message may reference the message it replies to.
//
// Building is a pure function of its input: the list is indexed by id, grouped
// by parent id, then walked from the roots. Nothing is shared between calls.
package thread

import (
	"bytes"
	"slices"

	"chat-thread/domain"

	"github.com/google/uuid"
)

// Result is the forest built from a message list, along with the ids of the
// messages that could not be attached anywhere.
type Result struct {
	Threads []domain.ThreadNode
	// Orphans are messages whose parent chain ends on a message missing from the input.
	Orphans []uuid.UUID
	// Cyclic are messages whose parent chain loops back on itself.
	Cyclic []uuid.UUID
}

// Excluded is the number of input messages missing from Threads.
func (r Result) Excluded() int {
	return len(r.Orphans) + len(r.Cyclic)
}

// Build returns the root messages of the list, in input order, each with its
// replies attached. Siblings keep their relative input order, so a list sorted
// oldest first yields oldest-reply-first threads at every level.
func Build(messages []domain.Message) []domain.ThreadNode {
	return BuildWithReport(messages).Threads
}

// BuildWithReport is Build, plus the ids of orphaned and cyclic messages.
// When two messages share an id, the last one wins and the earlier one is ignored.
func BuildWithReport(messages []domain.Message) Result {
	b := newBuilder(messages)

	threads := make([]domain.ThreadNode, 0, len(b.roots))
	for _, id := range b.roots {
		threads = append(threads, b.materialize(id, make(map[uuid.UUID]struct{})))
	}

	orphans, cyclic := b.unreachable()
	return Result{Threads: threads, Orphans: orphans, Cyclic: cyclic}
}

type builder struct {
	messages []domain.Message
	index    map[uuid.UUID]int
	roots    []uuid.UUID
	children map[uuid.UUID][]uuid.UUID
	placed   map[uuid.UUID]struct{}
}

func newBuilder(messages []domain.Message) *builder {
	b := &builder{
		messages: messages,
		index:    make(map[uuid.UUID]int, len(messages)),
		children: make(map[uuid.UUID][]uuid.UUID),
		placed:   make(map[uuid.UUID]struct{}, len(messages)),
	}
	// The index must be complete before grouping so that a duplicated id is
	// grouped once, under the parent of its last occurrence.
	for i, m := range messages {
		b.index[m.ID] = i
	}
	for i, m := range messages {
		if b.index[m.ID] != i {
			continue
		}
		if m.IsRoot() {
			b.roots = append(b.roots, m.ID)
			continue
		}
		b.children[*m.ParentID] = append(b.children[*m.ParentID], m.ID)
	}
	return b
}

// materialize expands id and its descendants. ancestors holds the ids on the
// current path; a child already on it closes a cycle and is skipped.
// Walks start at roots and every id has a single parent once duplicates are
// merged, so no cycle is reachable from here today. The guard only bounds the
// walk should grouping ever change.
func (b *builder) materialize(id uuid.UUID, ancestors map[uuid.UUID]struct{}) domain.ThreadNode {
	ancestors[id] = struct{}{}
	defer delete(ancestors, id)
	b.placed[id] = struct{}{}

	children := b.children[id]
	node := domain.ThreadNode{
		Message: b.messages[b.index[id]],
		Replies: make([]domain.ThreadNode, 0, len(children)),
	}
	for _, child := range children {
		if _, onPath := ancestors[child]; onPath {
			continue
		}
		node.Replies = append(node.Replies, b.materialize(child, ancestors))
	}
	return node
}

// unreachable classifies every message left out of the forest by following
// its parent chain until it either leaves the input or loops.
func (b *builder) unreachable() (orphans, cyclic []uuid.UUID) {
	for i, m := range b.messages {
		if b.index[m.ID] != i {
			continue
		}
		if _, ok := b.placed[m.ID]; ok {
			continue
		}
		if b.loops(m.ID) {
			cyclic = append(cyclic, m.ID)
		} else {
			orphans = append(orphans, m.ID)
		}
	}
	return orphans, cyclic
}

func (b *builder) loops(id uuid.UUID) bool {
	seen := map[uuid.UUID]struct{}{id: {}}
	current := b.messages[b.index[id]]
	for current.ParentID != nil {
		parent := *current.ParentID
		if _, ok := seen[parent]; ok {
			return true
		}
		i, ok := b.index[parent]
		if !ok {
			return false
		}
		seen[parent] = struct{}{}
		current = b.messages[i]
	}
	return false
}

// Chronological returns a copy of messages sorted oldest first, ties broken by id.
// Use it before Build when the store did not already return messages in order.
func Chronological(messages []domain.Message) []domain.Message {
	sorted := slices.Clone(messages)
	slices.SortStableFunc(sorted, func(a, b domain.Message) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return sorted
}

// Walk visits every node depth first, parents before their replies.
// Roots have depth 0.
func Walk(nodes []domain.ThreadNode, fn func(node domain.ThreadNode, depth int)) {
	var visit func(nodes []domain.ThreadNode, depth int)
	visit = func(nodes []domain.ThreadNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Replies, depth+1)
		}
	}
	visit(nodes, 0)
}

// Count returns the number of nodes in the forest.
func Count(nodes []domain.ThreadNode) int {
	total := 0
	Walk(nodes, func(domain.ThreadNode, int) { total++ })
	return total
}
