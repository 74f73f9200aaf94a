package pipeline

import (
	"context"
	"fmt"

	"github.com/yungbote/wellbeing-backend/internal/domain/student"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

// Batch is a fully mapped and fingerprinted file, ready to be written.
type Batch struct {
	Schema   string
	Columns  []string
	Students []*student.Student
}

// Store writes a batch atomically, skipping records whose fingerprint is
// already stored.
type Store interface {
	UpsertBatch(ctx context.Context, batch *Batch) error
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context, batch *Batch) error

func (f StoreFunc) UpsertBatch(ctx context.Context, batch *Batch) error { return f(ctx, batch) }

// Result reports a committed ingestion. Inserted counts rows submitted,
// including rows that collapsed onto existing fingerprints.
type Result struct {
	Inserted int      `json:"inserted"`
	Schema   string   `json:"schema"`
	Columns  []string `json:"columns"`
}

type Options struct {
	// MaxBytes rejects larger inputs before parsing; 0 disables the check.
	MaxBytes int64
}

type Pipeline struct {
	log      *logger.Logger
	registry *Registry
	opts     Options
}

func New(log *logger.Logger, registry *Registry, opts Options) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Pipeline{log: log.With("component", "IngestionPipeline"), registry: registry, opts: opts}
}

// Prepare parses, detects and maps data without touching any store.
func (p *Pipeline) Prepare(data []byte) (*Batch, error) {
	if p.opts.MaxBytes > 0 && int64(len(data)) > p.opts.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(data), p.opts.MaxBytes)
	}
	table, err := ParseCSV(data)
	if err != nil {
		return nil, err
	}
	// Only the header is inspected; rows are assumed to share it.
	schema, ok := p.registry.Detect(table.Columns)
	if !ok {
		return nil, ErrUnrecognizedSchema
	}
	out := make([]*student.Student, 0, len(table.Rows))
	for i, row := range table.Rows {
		s := schema.Map(table.Columns, row, i+1)
		out = append(out, s.Seal())
	}
	return &Batch{Schema: schema.Name, Columns: table.Columns, Students: out}, nil
}

// Ingest prepares data and writes it as one batch through store.
func (p *Pipeline) Ingest(ctx context.Context, store Store, data []byte) (*Result, error) {
	batch, err := p.Prepare(data)
	if err != nil {
		p.log.Debug("Ingestion rejected", "error", err)
		return nil, err
	}
	if err := store.UpsertBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	p.log.Debug("Ingestion committed", "schema", batch.Schema, "rows", len(batch.Students))
	return &Result{Inserted: len(batch.Students), Schema: batch.Schema, Columns: batch.Columns}, nil
}
