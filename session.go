package regtest

import (
	"log/slog"

	"github.com/YuminosukeSato/regtest/comm"
	"github.com/YuminosukeSato/regtest/pkg/errors"
	"github.com/YuminosukeSato/regtest/pkg/log"
	"github.com/YuminosukeSato/regtest/store"
	"github.com/YuminosukeSato/regtest/value"
)

// Session is a scoped recording session bound to one reference file. In
// training mode recorded values accumulate in the registry and are flushed
// to the store on Close; in testing mode each recording call re-derives
// the value and checks it against the reference loaded from the file.
//
// Only rank 0 mutates the registry and touches the store; recording calls
// on other ranks participate in collectives but are otherwise no-ops.
type Session struct {
	path   string
	train  bool
	comm   comm.Communicator
	red    *comm.Reducer
	store  store.Store
	logger *slog.Logger

	registry *Registry
	ref      *store.Document // TEST mode, loaded lazily on first check
	metadata map[string]any
	closed   bool
	failed   bool
}

// New opens a session for the reference file at path. With train true the
// session records a new reference; otherwise it checks against the
// existing one, which is loaded lazily on the first check. Close must be
// called on every exit path, normally via defer.
func New(path string, train bool, opts ...SessionOption) (*Session, error) {
	if path == "" {
		return nil, errors.New("regtest: reference path must not be empty")
	}

	s := &Session{
		path:     path,
		train:    train,
		comm:     comm.NewSelf(),
		store:    store.NewFileStore(),
		logger:   slog.Default(),
		registry: NewRegistry(),
		metadata: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.red = comm.NewReducer(s.comm)
	s.logger = s.logger.With(
		log.PathKey, path,
		log.ModeKey, s.modeName(),
		log.RankKey, s.comm.Rank(),
		log.SizeKey, s.comm.Size(),
	)

	s.logger.Debug("session opened")
	return s, nil
}

// Train reports whether the session records a new reference.
func (s *Session) Train() bool {
	return s.train
}

// Rank returns this process's rank in the session's communicator.
func (s *Session) Rank() int {
	return s.comm.Rank()
}

// RootAddVal registers or checks a scalar value under key. The call is a
// no-op on every rank but 0. In training mode the key must be unused
// unless Compare is set, which confirms the value against the prior
// registration instead. In testing mode the value is checked against the
// reference under the tolerance resolved from the given options.
func (s *Session) RootAddVal(key string, val float64, opts ...AddOption) error {
	return s.rootAdd("root_add_val", key, value.Scalar(val), opts)
}

// RootAddDict registers or checks a nested mapping under key. The mapping
// may contain only numeric leaves, numeric slices, or nested mappings;
// anything else fails with InvalidValueError. Duplicate and comparison
// rules match RootAddVal, with dict confirmation requiring full structural
// equality.
func (s *Session) RootAddDict(key string, dict map[string]any, opts ...AddOption) error {
	if s.comm.Rank() != 0 {
		return nil
	}
	v, err := value.FromAny(key, dict)
	if err != nil {
		return s.fail("root_add_dict", key, err)
	}
	return s.rootAdd("root_add_dict", key, v, opts)
}

// ParAddVal gathers each rank's local value and records the ordered
// per-rank sequence under key. Collective: every rank must call it.
func (s *Session) ParAddVal(key string, local float64, opts ...AddOption) error {
	if s.closed {
		return errors.NewSessionClosedError("ParAddVal")
	}
	gathered, err := s.red.Gather(local)
	if err != nil {
		return s.fail("par_add_val", key, err)
	}
	if s.comm.Rank() != 0 {
		return nil
	}
	return s.record("par_add_val", key, value.Vector(gathered), opts)
}

// ParAddSum records the sum of each rank's local value under key.
// Collective: every rank must call it.
func (s *Session) ParAddSum(key string, local float64, opts ...AddOption) error {
	if s.closed {
		return errors.NewSessionClosedError("ParAddSum")
	}
	sum, err := s.red.Sum(local)
	if err != nil {
		return s.fail("par_add_sum", key, err)
	}
	if s.comm.Rank() != 0 {
		return nil
	}
	return s.record("par_add_sum", key, value.Scalar(sum), opts)
}

// ParAddNorm records the Euclidean norm of the per-rank local values under
// key. Collective: every rank must call it.
func (s *Session) ParAddNorm(key string, local float64, opts ...AddOption) error {
	if s.closed {
		return errors.NewSessionClosedError("ParAddNorm")
	}
	norm, err := s.red.Norm(local)
	if err != nil {
		return s.fail("par_add_norm", key, err)
	}
	if s.comm.Rank() != 0 {
		return nil
	}
	return s.record("par_add_norm", key, value.Scalar(norm), opts)
}

// AddMetadata merges the given pairs into the session metadata, later
// values overwriting earlier ones for the same key. Metadata is persisted
// with the reference in training mode only.
func (s *Session) AddMetadata(md map[string]any) {
	for k, v := range md {
		s.metadata[k] = v
	}
}

// Metadata returns the current metadata mapping. In testing mode it is the
// metadata stored in the reference file overlaid with session-local
// additions; loading happens lazily like the value snapshot.
func (s *Session) Metadata() (map[string]any, error) {
	out := make(map[string]any)
	if !s.train && s.comm.Rank() == 0 {
		if err := s.loadRef(); err != nil {
			return nil, err
		}
		for k, v := range s.ref.Metadata {
			out[k] = v
		}
	}
	for k, v := range s.metadata {
		out[k] = v
	}
	return out, nil
}

// ReadRef returns the full stored reference as plain nested Go values.
// Valid after a training session closed or at any point of a testing
// session.
func (s *Session) ReadRef() (map[string]any, error) {
	doc, err := s.store.Read(s.path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, doc.Values.Len())
	for _, k := range doc.Values.Keys() {
		v, _ := doc.Values.Get(k)
		out[k] = v.ToAny()
	}
	return out, nil
}

// Close releases the session. A clean training session on rank 0 flushes
// the accumulated registry and metadata to the store exactly once; a
// session poisoned by a recording error discards its partial state so an
// incomplete reference is never committed. Close is idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if !s.train || s.comm.Rank() != 0 {
		s.logger.Debug("session closed")
		return nil
	}
	if s.failed {
		s.logger.Warn("session closed after recording failure, reference not written",
			log.EntriesKey, s.registry.Len())
		return nil
	}

	doc := &store.Document{Values: s.registry.Entries(), Metadata: s.metadata}
	if err := s.store.Write(s.path, doc); err != nil {
		s.logger.Error("reference flush failed", log.ErrAttr(err))
		return err
	}
	s.logger.Info("reference written", log.EntriesKey, s.registry.Len())
	return nil
}

func (s *Session) rootAdd(op, key string, v value.Value, opts []AddOption) error {
	if s.comm.Rank() != 0 {
		return nil
	}
	if s.closed {
		return errors.NewSessionClosedError(op)
	}
	return s.record(op, key, v, opts)
}

// record applies the mode-specific registration rule on rank 0.
func (s *Session) record(op, key string, v value.Value, opts []AddOption) error {
	cfg, tol := resolveAddConfig(opts)

	var err error
	switch {
	case s.train && cfg.compare:
		err = s.registry.Confirm(key, v, tol)
	case s.train:
		err = s.registry.Add(key, v)
	default:
		if err = s.loadRef(); err == nil {
			err = Check(s.ref.Values, key, v, tol)
		}
	}

	if err != nil {
		return s.fail(op, key, err)
	}
	s.logger.Debug("value recorded", log.OpKey, op, log.KeyKey, key)
	return nil
}

// loadRef loads the reference snapshot once. TEST mode, rank 0 only.
func (s *Session) loadRef() error {
	if s.ref != nil {
		return nil
	}
	doc, err := s.store.Read(s.path)
	if err != nil {
		return err
	}
	s.ref = doc
	return nil
}

// fail poisons the session so a training Close will not commit a partial
// reference, and returns the error for fail-fast propagation.
func (s *Session) fail(op, key string, err error) error {
	s.failed = true
	s.logger.Error("recording failed", log.ErrAttr(err), log.OpKey, op, log.KeyKey, key)
	return err
}

func (s *Session) modeName() string {
	if s.train {
		return "train"
	}
	return "test"
}
