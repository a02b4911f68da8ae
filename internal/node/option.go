package node

import "chordring/internal/logger"

type Option func(*Node)

// WithLogger sets the logger used by this node and its maintenance loops.
func WithLogger(l logger.Logger) Option {
	return func(n *Node) {
		if l != nil {
			n.lgr = l
		}
	}
}
