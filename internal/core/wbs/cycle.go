package wbs

// ParentLookup returns the parent id of id ("" for a root) and whether id is known.
type ParentLookup func(id string) (string, bool)

// DetectCycle reports whether making candidateParentID the parent of nodeID
// would make nodeID its own ancestor. The walk follows parent links from the
// candidate, so it is bounded by the depth of the tree; a repeated id (a
// corrupt chain) is also treated as a cycle.
func DetectCycle(nodeID, candidateParentID string, parentOf ParentLookup) bool {
	if candidateParentID == "" {
		return false
	}
	if candidateParentID == nodeID {
		return true
	}
	visited := map[string]struct{}{nodeID: {}}
	current := candidateParentID
	for current != "" {
		if _, seen := visited[current]; seen {
			return true
		}
		visited[current] = struct{}{}
		parent, ok := parentOf(current)
		if !ok {
			return false
		}
		current = parent
	}
	return false
}
