package comm

import "sync"

// localGroup is the shared state behind an in-process rank group. Each
// collective round fills one slot per rank; the last arriving rank
// snapshots the round and wakes the others.
type localGroup struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	pending []float64
	arrived int
	gen     int
	result  []float64
}

// LocalRank is one rank of an in-process communicator group, used to run
// the parallel recording path with N cooperating goroutines instead of N
// processes. All ranks of a group must be driven concurrently; a rank that
// never calls into a collective blocks the rest, mirroring MPI semantics.
type LocalRank struct {
	group *localGroup
	rank  int
}

// NewLocalGroup creates an n-rank in-process communicator and returns one
// Communicator per rank, ordered by rank.
func NewLocalGroup(n int) []*LocalRank {
	g := &localGroup{
		size:    n,
		pending: make([]float64, n),
	}
	g.cond = sync.NewCond(&g.mu)

	ranks := make([]*LocalRank, n)
	for i := range ranks {
		ranks[i] = &LocalRank{group: g, rank: i}
	}
	return ranks
}

// Rank returns this rank's index.
func (r *LocalRank) Rank() int { return r.rank }

// Size returns the group size.
func (r *LocalRank) Size() int { return r.group.size }

// Allgather blocks until every rank of the group has contributed to the
// current round, then returns the contributions ordered by rank.
func (r *LocalRank) Allgather(local float64) ([]float64, error) {
	g := r.group
	g.mu.Lock()
	defer g.mu.Unlock()

	round := g.gen
	g.pending[r.rank] = local
	g.arrived++

	if g.arrived == g.size {
		snapshot := make([]float64, g.size)
		copy(snapshot, g.pending)
		g.result = snapshot
		g.arrived = 0
		g.gen++
		g.cond.Broadcast()
	} else {
		for g.gen == round {
			g.cond.Wait()
		}
	}

	return g.result, nil
}
