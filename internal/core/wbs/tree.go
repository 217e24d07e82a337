package wbs

import (
	"fmt"
	"sort"

	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// rootKey indexes the children list of the project's roots.
const rootKey = ""

// Tree is an id-keyed arena over the active nodes of one project. Mutating
// methods change the arena in place and return the nodes whose persisted
// fields changed, so the caller can write exactly those rows.
type Tree struct {
	nodes    map[string]*domain.WbsNode
	children map[string][]string
}

// NewTree builds an arena from a project's nodes; inactive nodes are ignored.
func NewTree(nodes []domain.WbsNode) *Tree {
	t := &Tree{
		nodes:    make(map[string]*domain.WbsNode, len(nodes)),
		children: make(map[string][]string),
	}
	for i := range nodes {
		if !nodes[i].Active {
			continue
		}
		n := nodes[i]
		t.nodes[n.NodeID] = &n
	}
	for id, n := range t.nodes {
		key := n.ParentKey()
		t.children[key] = append(t.children[key], id)
	}
	for key := range t.children {
		t.sortChildren(key)
	}
	return t
}

func (t *Tree) sortChildren(key string) {
	ids := t.children[key]
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.nodes[ids[i]], t.nodes[ids[j]]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if c := CompareCodes(a.Code, b.Code); c != 0 {
			return c < 0
		}
		return a.NodeID < b.NodeID
	})
}

// Len returns the number of active nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the active node with id.
func (t *Tree) Node(id string) (*domain.WbsNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// ParentOf satisfies ParentLookup over the arena.
func (t *Tree) ParentOf(id string) (string, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return "", false
	}
	return n.ParentKey(), true
}

// Children returns the active children of parentID ("" for roots) in sibling order.
func (t *Tree) Children(parentID string) []*domain.WbsNode {
	ids := t.children[parentID]
	out := make([]*domain.WbsNode, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id])
	}
	return out
}

// Walk visits every active node reachable from the roots in pre-order,
// siblings in sort order. depth is 1 for roots.
func (t *Tree) Walk(fn func(n *domain.WbsNode, depth int)) {
	t.walkFrom(t.children[rootKey], 1, fn)
}

// Preorder returns the active tree flattened in pre-order.
func (t *Tree) Preorder() []*domain.WbsNode {
	out := make([]*domain.WbsNode, 0, len(t.nodes))
	t.Walk(func(n *domain.WbsNode, _ int) {
		out = append(out, n)
	})
	return out
}

// Descendants returns every active node below id in pre-order, excluding id.
func (t *Tree) Descendants(id string) []*domain.WbsNode {
	var out []*domain.WbsNode
	t.walkFrom(t.children[id], 1, func(n *domain.WbsNode, _ int) {
		out = append(out, n)
	})
	return out
}

func (t *Tree) walkFrom(start []string, startDepth int, fn func(n *domain.WbsNode, depth int)) {
	type frame struct {
		id    string
		depth int
	}
	stack := make([]frame, 0, len(start))
	for i := len(start) - 1; i >= 0; i-- {
		stack = append(stack, frame{start[i], startDepth})
	}
	visited := make(map[string]struct{}, len(t.nodes))
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[f.id]; seen {
			continue
		}
		visited[f.id] = struct{}{}
		fn(t.nodes[f.id], f.depth)
		kids := t.children[f.id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
}

func (t *Tree) codeOf(parentID string) string {
	if parentID == rootKey {
		return ""
	}
	if p, ok := t.nodes[parentID]; ok {
		return p.Code
	}
	return ""
}

// NextChild returns the code and sort order for a new last child of parentID.
func (t *Tree) NextChild(parentID string) (string, int, error) {
	kids := t.Children(parentID)
	codes := make([]string, len(kids))
	maxSort := 0
	for i, k := range kids {
		codes[i] = k.Code
		if k.SortOrder > maxSort {
			maxSort = k.SortOrder
		}
	}
	code, err := NextSiblingCode(t.codeOf(parentID), codes)
	if err != nil {
		return "", 0, err
	}
	return code, maxSort + 1, nil
}

// Insert adds an active node to the arena as the last child of its parent.
func (t *Tree) Insert(n domain.WbsNode) *domain.WbsNode {
	node := n
	t.nodes[node.NodeID] = &node
	key := node.ParentKey()
	t.children[key] = append(t.children[key], node.NodeID)
	return &node
}

// Move reparents nodeID under newParentID ("" for root), giving it the next
// sibling code there and rewriting every descendant code. Moving under the
// current parent is a no-op.
func (t *Tree) Move(nodeID, newParentID string) ([]*domain.WbsNode, error) {
	node, ok := t.nodes[nodeID]
	if !ok {
		return nil, apperrors.NewDomainError(apperrors.CodeNodeNotInProject, "node %s is not an active node of this project", nodeID)
	}
	var parent *domain.WbsNode
	if newParentID != rootKey {
		if DetectCycle(nodeID, newParentID, t.ParentOf) {
			return nil, apperrors.NewDomainError(apperrors.CodeCycleDetected, "moving %s under %s would create a cycle", nodeID, newParentID)
		}
		p, ok := t.nodes[newParentID]
		if !ok {
			return nil, apperrors.NewDomainError(apperrors.CodeParentNotInProject, "parent %s is not an active node of this project", newParentID)
		}
		parent = p
	}
	oldParentID := node.ParentKey()
	if oldParentID == newParentID {
		return nil, nil
	}
	if err := ValidatePlacement(parent, node.Category); err != nil {
		return nil, err
	}

	code, sortOrder, err := t.NextChild(newParentID)
	if err != nil {
		return nil, err
	}

	t.children[oldParentID] = removeID(t.children[oldParentID], nodeID)
	if parent == nil {
		node.ParentID = nil
	} else {
		pid := parent.NodeID
		node.ParentID = &pid
	}
	node.SortOrder = sortOrder
	t.children[newParentID] = append(t.children[newParentID], nodeID)

	changes := newChangeSet()
	changes.add(node)
	if err := t.rewriteSubtree(node, code, changes); err != nil {
		return nil, err
	}
	return changes.list(), nil
}

// Remove detaches nodeID and its subtree from the arena and closes the gap it
// leaves: every later sibling has its last segment decremented, propagated
// into its subtree. It returns the removed nodes and the renumbered ones.
func (t *Tree) Remove(nodeID string) (removed []*domain.WbsNode, renumbered []*domain.WbsNode, err error) {
	node, ok := t.nodes[nodeID]
	if !ok {
		return nil, nil, apperrors.NewDomainError(apperrors.CodeNodeNotInProject, "node %s is not an active node of this project", nodeID)
	}
	deletedSeq, err := LastSegment(node.Code)
	if err != nil {
		return nil, nil, err
	}

	removed = append([]*domain.WbsNode{node}, t.Descendants(nodeID)...)
	parentID := node.ParentKey()
	t.children[parentID] = removeID(t.children[parentID], nodeID)
	for _, n := range removed {
		delete(t.nodes, n.NodeID)
		delete(t.children, n.NodeID)
	}

	parentCode := t.codeOf(parentID)
	changes := newChangeSet()
	for _, sib := range t.Children(parentID) {
		seq, err := LastSegment(sib.Code)
		if err != nil {
			return nil, nil, err
		}
		if seq <= deletedSeq {
			continue
		}
		if err := t.rewriteSubtree(sib, ChildCode(parentCode, seq-1), changes); err != nil {
			return nil, nil, err
		}
	}
	return removed, changes.list(), nil
}

// Reorder assigns the given sibling order under parentID and resequences the
// siblings' codes 1..n, propagating into their subtrees. orderedIDs must list
// every active child exactly once.
func (t *Tree) Reorder(parentID string, orderedIDs []string) ([]*domain.WbsNode, error) {
	if parentID != rootKey {
		if _, ok := t.nodes[parentID]; !ok {
			return nil, apperrors.NewDomainError(apperrors.CodeParentNotInProject, "parent %s is not an active node of this project", parentID)
		}
	}
	current := t.children[parentID]
	if len(current) != len(orderedIDs) {
		return nil, apperrors.NewValidationError("nodeIDs", fmt.Sprintf("must list all %d active children exactly once", len(current)))
	}
	expected := make(map[string]struct{}, len(current))
	for _, id := range current {
		expected[id] = struct{}{}
	}
	for _, id := range orderedIDs {
		if _, ok := expected[id]; !ok {
			return nil, apperrors.NewValidationError("nodeIDs", fmt.Sprintf("node %s is not an active child or is listed twice", id))
		}
		delete(expected, id)
	}

	parentCode := t.codeOf(parentID)
	changes := newChangeSet()
	for i, id := range orderedIDs {
		n := t.nodes[id]
		if n.SortOrder != i+1 {
			n.SortOrder = i + 1
			changes.add(n)
		}
		if err := t.rewriteSubtree(n, ChildCode(parentCode, i+1), changes); err != nil {
			return nil, err
		}
	}
	t.children[parentID] = append([]string(nil), orderedIDs...)
	return changes.list(), nil
}

// rewriteSubtree sets root's code and recomputes every descendant's code from
// its own sibling sequence, depth-first in sort order, with an explicit stack.
func (t *Tree) rewriteSubtree(root *domain.WbsNode, code string, changes *changeSet) error {
	type frame struct {
		node *domain.WbsNode
		code string
	}
	stack := []frame{{root, code}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if CodeDepth(f.code) > MaxDepth {
			return fmt.Errorf("wbs code %s for node %s exceeds maximum depth %d", f.code, f.node.NodeID, MaxDepth)
		}
		if f.node.Code != f.code {
			f.node.Code = f.code
			changes.add(f.node)
		}
		kids := t.Children(f.node.NodeID)
		for i := len(kids) - 1; i >= 0; i-- {
			seq, err := LastSegment(kids[i].Code)
			if err != nil {
				return err
			}
			stack = append(stack, frame{kids[i], ChildCode(f.code, seq)})
		}
	}
	return nil
}

// CollectSubtree returns rootID and every node below it, active or not, from a
// flat node list. It walks breadth-first with a queue.
func CollectSubtree(nodes []domain.WbsNode, rootID string) []string {
	byParent := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if key := n.ParentKey(); key != "" {
			byParent[key] = append(byParent[key], n.NodeID)
		}
	}
	out := []string{rootID}
	seen := map[string]struct{}{rootID: {}}
	for i := 0; i < len(out); i++ {
		for _, child := range byParent[out[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			out = append(out, child)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// changeSet keeps changed nodes unique, in first-change order.
type changeSet struct {
	seen  map[string]struct{}
	order []*domain.WbsNode
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[string]struct{})}
}

func (c *changeSet) add(n *domain.WbsNode) {
	if _, ok := c.seen[n.NodeID]; ok {
		return
	}
	c.seen[n.NodeID] = struct{}{}
	c.order = append(c.order, n)
}

func (c *changeSet) list() []*domain.WbsNode {
	return c.order
}
