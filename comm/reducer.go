package comm

import "gonum.org/v1/gonum/floats"

// Reducer computes the reductions the parallel recording operations need.
// Every method is collective: all ranks of the communicator must call it,
// in the same order, with their local contribution.
type Reducer struct {
	comm Communicator
}

// NewReducer wraps a communicator.
func NewReducer(c Communicator) *Reducer {
	return &Reducer{comm: c}
}

// Sum returns the sum of local across all ranks, identical on every rank.
func (r *Reducer) Sum(local float64) (float64, error) {
	g, err := r.comm.Allgather(local)
	if err != nil {
		return 0, err
	}
	return floats.Sum(g), nil
}

// Norm returns the Euclidean norm of the per-rank contributions,
// sqrt(sum of squares), identical on every rank.
func (r *Reducer) Norm(local float64) (float64, error) {
	g, err := r.comm.Allgather(local)
	if err != nil {
		return 0, err
	}
	return floats.Norm(g, 2), nil
}

// Gather returns the ordered-by-rank contributions on rank 0 and nil on
// every other rank. Only rank 0 registers the result.
func (r *Reducer) Gather(local float64) ([]float64, error) {
	g, err := r.comm.Allgather(local)
	if err != nil {
		return nil, err
	}
	if r.comm.Rank() != 0 {
		return nil, nil
	}
	return g, nil
}
