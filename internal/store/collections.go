package store

import (
	"context"
	"fmt"

	"github.com/amoylab/sdctrack/internal/entity"
	"go.uber.org/zap"
)

// Collections holds one typed collection per entity type over a shared backend
type Collections struct {
	Users         *Collection[entity.User]
	Sponsors      *Collection[entity.Sponsor]
	Centers       *Collection[entity.Center]
	Researchers   *Collection[entity.Researcher]
	ProjectCodes  *Collection[entity.ProjectCode]
	WorkPerformed *Collection[entity.WorkPerformed]
	SdcEntries    *Collection[entity.SdcTrackingEntry]
	SdcWorkItems  *Collection[entity.SdcWorkPerformedItem]
}

// Seeder is the type-erased part of a collection used for bulk operations
type Seeder interface {
	Name() string
	EnsureSeed(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Option customizes NewCollections
type Option func(*collectionsOptions)

type collectionsOptions struct {
	users entity.Descriptor[entity.User]
}

// WithSuperAdmin seeds the users collection with admin instead of the
// default account
func WithSuperAdmin(admin entity.User) Option {
	return func(o *collectionsOptions) {
		o.users = entity.UserDescriptor(admin)
	}
}

// NewCollections builds all collections. recorder may be nil.
func NewCollections(backend Backend, logger *zap.Logger, recorder Recorder, opts ...Option) *Collections {
	o := collectionsOptions{users: entity.Users}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collections{
		Users:         NewCollection(backend, o.users, logger, recorder),
		Sponsors:      NewCollection(backend, entity.Sponsors, logger, recorder),
		Centers:       NewCollection(backend, entity.Centers, logger, recorder),
		Researchers:   NewCollection(backend, entity.Researchers, logger, recorder),
		ProjectCodes:  NewCollection(backend, entity.ProjectCodes, logger, recorder),
		WorkPerformed: NewCollection(backend, entity.WorkPerformedCatalog, logger, recorder),
		SdcEntries:    NewCollection(backend, entity.SdcTrackingEntries, logger, recorder),
		SdcWorkItems:  NewCollection(backend, entity.SdcWorkPerformedItems, logger, recorder),
	}
}

// All lists every collection in seeding order
func (c *Collections) All() []Seeder {
	return []Seeder{
		c.Users, c.Sponsors, c.Centers, c.Researchers,
		c.ProjectCodes, c.WorkPerformed, c.SdcEntries, c.SdcWorkItems,
	}
}

// SeedAll runs EnsureSeed on every collection and returns the names of
// the collections that were seeded
func (c *Collections) SeedAll(ctx context.Context) ([]string, error) {
	var seeded []string
	for _, s := range c.All() {
		ok, err := s.EnsureSeed(ctx)
		if err != nil {
			return seeded, fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if ok {
			seeded = append(seeded, s.Name())
		}
	}
	return seeded, nil
}
