package behavior

// Status is the result of ticking a node.
type Status uint8

const (
	// StatusSuccess means the node completed its work.
	StatusSuccess Status = iota
	// StatusFailure means the node could not complete its work.
	StatusFailure
	// StatusRunning means the node needs more ticks to finish. The node
	// itself retains whatever state is needed to resume; the caller holds
	// no continuation.
	StatusRunning
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	}
	return "unknown"
}
