package forms

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	DB "franchise-intake-api/src/database"
	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNoActiveForm = errors.New("no active form configured")

var (
	mu          sync.RWMutex
	catalog     *engine.Catalog
	catalogSlug string
)

// GetActiveForm returns the currently published form document.
func GetActiveForm(ctx context.Context) (*models.FormConfig, error) {
	var cfg models.FormConfig
	err := DB.FormCollection.FindOne(ctx, bson.M{"isActive": true}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoActiveForm
		}
		return nil, err
	}
	return &cfg, nil
}

// ActiveCatalog returns the loaded catalog for the published form,
// loading it on first use. The catalog is immutable and shared by all
// sessions; UpsertForm replaces it atomically.
func ActiveCatalog(ctx context.Context) (*engine.Catalog, error) {
	mu.RLock()
	if catalog != nil {
		c := catalog
		mu.RUnlock()
		return c, nil
	}
	mu.RUnlock()

	cfg, err := GetActiveForm(ctx)
	if err != nil {
		return nil, err
	}
	c, err := engine.Load(cfg)
	if err != nil {
		// The stored document should never be malformed: upserts run the
		// same load. Surface loudly if it happens anyway.
		log.Println("❌ Stored form config failed to load:", err)
		return nil, err
	}

	mu.Lock()
	catalog = c
	catalogSlug = cfg.Slug
	mu.Unlock()
	return c, nil
}

// UpsertForm validates and stores a form config authored in the CMS.
// The eager engine.Load call is the configuration gate: documents that
// reference undeclared fields, break step numbering, or carry malformed
// rules are rejected here and never reach a wizard session.
func UpsertForm(ctx context.Context, cfg *models.FormConfig) (*engine.Catalog, error) {
	loaded, err := engine.Load(cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cfg.UpdatedAt = now
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}

	filter := bson.M{"slug": cfg.Slug}
	update := bson.M{"$set": cfg}
	opts := options.Update().SetUpsert(true)
	if _, err := DB.FormCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, err
	}

	if cfg.IsActive {
		// Only one active form at a time.
		_, err = DB.FormCollection.UpdateMany(ctx,
			bson.M{"slug": bson.M{"$ne": cfg.Slug}, "isActive": true},
			bson.M{"$set": bson.M{"isActive": false}},
		)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		catalog = loaded
		catalogSlug = cfg.Slug
		mu.Unlock()
	} else {
		mu.RLock()
		deactivated := catalogSlug == cfg.Slug
		mu.RUnlock()
		if deactivated {
			// The cached catalog was just unpublished.
			InvalidateCatalog()
		}
	}

	log.Println("✅ Form config stored:", cfg.Slug)
	return loaded, nil
}

// InvalidateCatalog drops the cached catalog; the next session start
// reloads it from the stored document.
func InvalidateCatalog() {
	mu.Lock()
	catalog = nil
	catalogSlug = ""
	mu.Unlock()
}
