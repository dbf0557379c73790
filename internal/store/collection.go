package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/pkg/trace"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrInvalidPatch is returned when a create or patch body is not a JSON
// object or does not fit the record type
var ErrInvalidPatch = errors.New("invalid patch")

// Recorder receives per-operation telemetry
type Recorder interface {
	StoreOpDone(collection, op string, since time.Time, err error)
	Seeded(collection string, n int)
}

var tracer = trace.Tracer("sdctrack/store")

// Collection is a typed view over one backend namespace
type Collection[T entity.Record] struct {
	backend  Backend
	desc     entity.Descriptor[T]
	logger   *zap.Logger
	recorder Recorder
	validate func(any) error
}

// NewCollection binds desc to backend. recorder may be nil.
func NewCollection[T entity.Record](backend Backend, desc entity.Descriptor[T], logger *zap.Logger, recorder Recorder) *Collection[T] {
	return &Collection[T]{
		backend:  backend,
		desc:     desc,
		logger:   logger.Named("store." + desc.Name),
		recorder: recorder,
		validate: entity.Validate,
	}
}

// Name returns the collection's descriptor name
func (c *Collection[T]) Name() string {
	return c.desc.Name
}

func (c *Collection[T]) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	scope := tracer.Start(ctx, "store."+op).WithAttrs(trace.StoreAttrs(c.desc.Name, c.ns(), op)...)
	return scope.Ctx, func(err error) {
		scope.EndWith(err)
		if c.recorder != nil {
			c.recorder.StoreOpDone(c.desc.Name, op, start, err)
		}
	}
}

func (c *Collection[T]) ns() string {
	return c.desc.IndexName
}

func (c *Collection[T]) decode(id string, data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", c.desc.Name, id, err)
	}
	return v, nil
}

func (c *Collection[T]) put(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.desc.Name, v.GetID(), err)
	}
	return c.backend.Put(ctx, c.ns(), v.GetID(), data)
}

// List returns every record in index order
func (c *Collection[T]) List(ctx context.Context) (_ []T, err error) {
	ctx, done := c.observe(ctx, "list")
	defer func() { done(err) }()

	ids, err := c.backend.IDs(ctx, c.ns())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		data, err := c.backend.Get(ctx, c.ns(), id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		v, err := c.decode(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Filter returns the records for which keep is true, in index order
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Get returns the record and whether it exists
func (c *Collection[T]) Get(ctx context.Context, id string) (_ T, _ bool, err error) {
	ctx, done := c.observe(ctx, "get")
	defer func() { done(err) }()

	var zero T
	data, err := c.backend.Get(ctx, c.ns(), id)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	v, err := c.decode(id, data)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (c *Collection[T]) Exists(ctx context.Context, id string) (_ bool, err error) {
	ctx, done := c.observe(ctx, "exists")
	defer func() { done(err) }()
	return c.backend.Exists(ctx, c.ns(), id)
}

func (c *Collection[T]) Count(ctx context.Context) (_ int, err error) {
	ctx, done := c.observe(ctx, "count")
	defer func() { done(err) }()
	return c.backend.Count(ctx, c.ns())
}

// New builds an unsaved record from the initial value overlaid with body,
// under a fresh id. Any id in body is ignored.
func (c *Collection[T]) New(body []byte) (T, error) {
	return merge(c.desc.Initial, body, uuid.NewString())
}

// Create validates rec and stores it
func (c *Collection[T]) Create(ctx context.Context, rec T) (_ T, err error) {
	ctx, done := c.observe(ctx, "create")
	defer func() { done(err) }()

	if err := c.validate(rec); err != nil {
		return rec, err
	}
	if err := c.put(ctx, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Put stores rec as is, without validation
func (c *Collection[T]) Put(ctx context.Context, rec T) (err error) {
	ctx, done := c.observe(ctx, "put")
	defer func() { done(err) }()
	return c.put(ctx, rec)
}

// Patch overlays the fields present in body onto the stored record,
// validates the result and stores it. The id never changes.
func (c *Collection[T]) Patch(ctx context.Context, id string, body []byte) (_ T, err error) {
	ctx, done := c.observe(ctx, "patch")
	defer func() { done(err) }()

	var zero T
	data, err := c.backend.Get(ctx, c.ns(), id)
	if err != nil {
		return zero, err
	}
	current, err := c.decode(id, data)
	if err != nil {
		return zero, err
	}
	next, err := merge(current, body, id)
	if err != nil {
		return zero, err
	}
	if err := c.validate(next); err != nil {
		return zero, err
	}
	if err := c.put(ctx, next); err != nil {
		return zero, err
	}
	return next, nil
}

// Delete removes a record and reports whether it existed
func (c *Collection[T]) Delete(ctx context.Context, id string) (_ bool, err error) {
	ctx, done := c.observe(ctx, "delete")
	defer func() { done(err) }()
	return c.backend.Delete(ctx, c.ns(), id)
}

// DeleteMany removes every listed id and returns how many existed
func (c *Collection[T]) DeleteMany(ctx context.Context, ids []string) (_ int, err error) {
	ctx, done := c.observe(ctx, "delete_many")
	defer func() { done(err) }()

	n := 0
	for _, id := range ids {
		ok, err := c.backend.Delete(ctx, c.ns(), id)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// EnsureSeed writes the seed set when the index is empty and the
// collection has never been seeded. It reports whether it seeded. A failed
// attempt removes what it wrote and clears the marker, so the next call
// starts over.
func (c *Collection[T]) EnsureSeed(ctx context.Context) (_ bool, err error) {
	ctx, done := c.observe(ctx, "ensure_seed")
	defer func() { done(err) }()

	first, err := c.backend.MarkSeeded(ctx, c.ns())
	if err != nil || !first {
		return false, err
	}
	n, err := c.backend.Count(ctx, c.ns())
	if err != nil {
		c.rollbackSeed(ctx, nil)
		return false, err
	}
	if n > 0 {
		c.logger.Info("index already populated, skipping seed", zap.Int("count", n))
		return false, nil
	}

	written := make([]string, 0, len(c.desc.Seed))
	for _, rec := range c.desc.Seed {
		if err := c.put(ctx, rec); err != nil {
			c.rollbackSeed(ctx, written)
			return false, fmt.Errorf("seed %s/%s: %w", c.desc.Name, rec.GetID(), err)
		}
		written = append(written, rec.GetID())
	}
	if c.recorder != nil {
		c.recorder.Seeded(c.desc.Name, len(c.desc.Seed))
	}
	c.logger.Info("seeded collection", zap.Int("records", len(c.desc.Seed)))
	return true, nil
}

func (c *Collection[T]) rollbackSeed(ctx context.Context, written []string) {
	for _, id := range written {
		if _, err := c.backend.Delete(ctx, c.ns(), id); err != nil {
			c.logger.Warn("failed to remove partial seed record", zap.String("id", id), zap.Error(err))
		}
	}
	if err := c.backend.UnmarkSeeded(ctx, c.ns()); err != nil {
		c.logger.Error("failed to clear seed marker", zap.Error(err))
	}
}

// merge overlays the top-level members of body onto base and sets id
func merge[T any](base T, body []byte, id string) (T, error) {
	var zero T
	if !gjson.ValidBytes(body) {
		return zero, fmt.Errorf("%w: malformed JSON", ErrInvalidPatch)
	}
	patch := gjson.ParseBytes(body)
	if !patch.IsObject() {
		return zero, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPatch)
	}

	raw, err := json.Marshal(base)
	if err != nil {
		return zero, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, err
	}

	patch.ForEach(func(key, value gjson.Result) bool {
		if key.String() != "id" {
			fields[key.String()] = json.RawMessage(value.Raw)
		}
		return true
	})
	idJSON, _ := json.Marshal(id)
	fields["id"] = idJSON

	raw, err = json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return out, nil
}
