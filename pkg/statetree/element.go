package statetree

// Element is a node of the host toolkit's retained UI tree. Components attach
// their rendered output under an anchor Element.
type Element interface {
	Parent() Element
	Add(child Element)
	Remove(child Element)
	Clear()
}

// Depth counts the ancestors of e up to the root of its tree.
func Depth(e Element) int {
	depth := 0
	for p := e.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}
