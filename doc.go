// Package regtest is a regression-test reference value store.
//
// Calling test code records scalar, dictionary-structured, and
// MPI-parallel-reduced numeric values during a training run; the session
// persists them to a reference file on close. Subsequent testing runs
// re-derive the same values and assert they match the stored reference
// within numeric tolerance.
//
// # Quick Start
//
// Training writes the reference, testing checks against it:
//
//	handler, err := regtest.New("solver.ref", true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer handler.Close()
//
//	handler.RootAddVal("residual", res)
//	handler.RootAddDict("totals", map[string]any{"drag": cd, "lift": cl})
//
// A later run with train=false performs the same calls and fails with a
// MismatchError wherever a value drifted outside tolerance:
//
//	handler, err := regtest.New("solver.ref", false)
//	...
//	handler.RootAddVal("residual", res, regtest.RTol(1e-6))
//
// Parallel runs inject a communicator; each rank contributes its local
// value and rank 0 records the reduced result exactly once:
//
//	handler, err := regtest.New("solver.ref", false, regtest.WithComm(c))
//	...
//	handler.ParAddSum("total volume", localVolume)
//	handler.ParAddNorm("residual norm", localResidual)
//
// The failure taxonomy lives in pkg/errors; every check failure is a
// distinct error type discriminable with errors.As.
package regtest
