package domain

// Node represents a participant in the ring, identified by its position
// in the identifier space and its network address.
type Node struct {
	ID   ID     // identifier in the 2^Bits space
	Addr string // network address, e.g. "127.0.0.1:5000"
}

// Equal reports whether two nodes refer to the same ring position.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.ID.Equal(o.ID)
}
