// Package comm abstracts the MPI-like communicator the parallel recording
// operations run on. The capability is injected rather than ambient so the
// engine is testable with a serial communicator or an in-process rank
// group; a real MPI binding satisfies the same interface.
//
// Every collective is a synchronous barrier: all ranks must call the same
// operation in the same order or the run misaligns. A missing participant
// blocks forever, which is acceptable for the fixed-topology test-harness
// topologies this tool runs under.
package comm

// Communicator provides rank identity and the one collective primitive the
// reducer needs: an ordered-by-rank allgather of a single float.
type Communicator interface {
	// Rank returns this process's index in [0, Size).
	Rank() int

	// Size returns the number of participating ranks.
	Size() int

	// Allgather contributes local and returns every rank's contribution
	// ordered by rank. The result is identical on all ranks.
	Allgather(local float64) ([]float64, error)
}

// Self is the serial communicator: one rank, collectives return the local
// value immediately. It is the default for non-parallel test runs.
type Self struct{}

// NewSelf creates the single-rank communicator.
func NewSelf() *Self {
	return &Self{}
}

// Rank returns 0.
func (s *Self) Rank() int { return 0 }

// Size returns 1.
func (s *Self) Size() int { return 1 }

// Allgather returns the local contribution as a one-element slice.
func (s *Self) Allgather(local float64) ([]float64, error) {
	return []float64{local}, nil
}
