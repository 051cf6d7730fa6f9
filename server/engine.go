package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/quiverdb/quiver/catalog"
	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/engine"
	"github.com/quiverdb/quiver/gologger"
	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/storage"
	"github.com/quiverdb/quiver/types"
)

// Engine is the top-level facade: a catalog of named datasets, an
// optional storage backend, and a table of planned queries addressable by
// handle. It is the single entry point the HTTP surface and the demo
// binary use.
type Engine struct {
	catalog *catalog.Catalog
	store   *storage.ParquetStore
	logger  zerolog.Logger

	mu      sync.RWMutex
	queries map[string]*engine.Query
}

// NewEngine creates an engine. The store may be nil for a purely
// in-memory engine.
func NewEngine(store *storage.ParquetStore) *Engine {
	return &Engine{
		catalog: catalog.New(),
		store:   store,
		logger:  gologger.NewLogger(),
		queries: make(map[string]*engine.Query),
	}
}

// Catalog returns the engine's dataset catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// CreateDataset builds an in-memory dataset and registers it.
func (e *Engine) CreateDataset(name string, schema *record.Schema, rows []record.Row, partitions int) (*dataset.Dataset, error) {
	d, err := dataset.New(name, schema, rows, partitions)
	if err != nil {
		return nil, err
	}
	if err := e.catalog.Register(d); err != nil {
		return nil, err
	}
	e.logger.Info().Str("dataset", name).Int("rows", d.NumRows()).Int("partitions", partitions).Msg("dataset created")
	return d, nil
}

// LoadDataset loads a dataset from storage and registers it.
func (e *Engine) LoadDataset(ctx context.Context, name string, schema *record.Schema) (*dataset.Dataset, error) {
	if e.store == nil {
		return nil, qerr.New(qerr.InvalidArgument, "engine has no storage backend to load %q from", name)
	}
	d, err := e.store.Load(ctx, name, schema)
	if err != nil {
		return nil, err
	}
	if err := e.catalog.Register(d); err != nil {
		return nil, err
	}
	e.logger.Info().Str("dataset", name).Int("rows", d.NumRows()).Msg("dataset loaded")
	return d, nil
}

// SaveDataset persists a registered dataset.
func (e *Engine) SaveDataset(ctx context.Context, name, destination string, mode storage.SaveMode) error {
	if e.store == nil {
		return qerr.New(qerr.InvalidArgument, "engine has no storage backend to save %q to", name)
	}
	d, err := e.catalog.Get(name)
	if err != nil {
		return err
	}
	if err := e.store.Save(ctx, d, destination, mode); err != nil {
		return err
	}
	e.logger.Info().Str("dataset", name).Str("destination", destination).Stringer("mode", mode).Msg("dataset saved")
	return nil
}

// FilterRequest is the aggregate-filter specification accepted by the
// query surface.
type FilterRequest struct {
	Column     string `json:"column" validate:"required"`
	Aggregate  string `json:"aggregate" validate:"required,oneof=mean avg sum count min max"`
	Comparator string `json:"comparator" validate:"required,oneof=> >= < <="`
}

// QueryRequest names two datasets, a join key pair, and an optional
// aggregate-filter specification.
type QueryRequest struct {
	Left     string         `json:"left" validate:"required"`
	Right    string         `json:"right" validate:"required"`
	LeftKey  string         `json:"left_key" validate:"required"`
	RightKey string         `json:"right_key" validate:"required"`
	Filter   *FilterRequest `json:"filter,omitempty"`
}

// PlanQuery builds the logical plan for a query and returns a handle the
// caller can execute or explain.
func (e *Engine) PlanQuery(req QueryRequest) (string, error) {
	left, err := e.catalog.Get(req.Left)
	if err != nil {
		return "", err
	}
	right, err := e.catalog.Get(req.Right)
	if err != nil {
		return "", err
	}

	var filter *engine.FilterSpec
	if req.Filter != nil {
		op, err := types.OperatorFromString(req.Filter.Comparator)
		if err != nil {
			return "", qerr.Wrap(qerr.InvalidArgument, err, "bad filter comparator")
		}
		filter = &engine.FilterSpec{
			Column:     req.Filter.Column,
			Aggregate:  req.Filter.Aggregate,
			Comparator: op,
		}
	}

	q, err := engine.Plan(left, right, engine.JoinKey{LeftColumn: req.LeftKey, RightColumn: req.RightKey}, filter)
	if err != nil {
		return "", err
	}

	handle := ksuid.New().String()
	e.mu.Lock()
	e.queries[handle] = q
	e.mu.Unlock()

	e.logger.Debug().Str("handle", handle).Str("left", req.Left).Str("right", req.Right).Msg("query planned")
	return handle, nil
}

// ExecuteQuery runs a previously planned query and registers its result
// dataset in the catalog.
func (e *Engine) ExecuteQuery(ctx context.Context, handle string) (*dataset.Dataset, error) {
	q, err := e.GetQuery(handle)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := q.Execute(ctx)
	if err != nil {
		e.logger.Error().Str("handle", handle).Err(err).Msg("query failed")
		return nil, err
	}
	e.catalog.Replace(result)

	e.logger.Info().
		Str("handle", handle).
		Str("result", result.Name()).
		Int("rows", result.NumRows()).
		Int("partitions", result.PartitionCount()).
		Dur("took", time.Since(start)).
		Msg("query executed")
	return result, nil
}

// Query plans and immediately executes a request, returning both the
// handle (for later explain calls) and the result dataset.
func (e *Engine) Query(ctx context.Context, req QueryRequest) (string, *dataset.Dataset, error) {
	handle, err := e.PlanQuery(req)
	if err != nil {
		return "", nil, err
	}
	result, err := e.ExecuteQuery(ctx, handle)
	if err != nil {
		return "", nil, err
	}
	return handle, result, nil
}

// Explain renders the plan tree(s) of a planned or executed query.
func (e *Engine) Explain(handle, mode string) (string, error) {
	q, err := e.GetQuery(handle)
	if err != nil {
		return "", err
	}
	m, err := plan.ParseExplainMode(mode)
	if err != nil {
		return "", err
	}
	return q.Explain(m)
}

// GetQuery looks up a planned query by handle.
func (e *Engine) GetQuery(handle string) (*engine.Query, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	q, ok := e.queries[handle]
	if !ok {
		return nil, qerr.New(qerr.InvalidArgument, "unknown query handle %q", handle)
	}
	return q, nil
}
