package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/tradecove/catalog-backend/pkg/db/types"
	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
)

type indexStore interface {
	UpdateSearchVector(ctx context.Context, productID uuid.UUID, searchVector string) error
	UpdateEmbedding(ctx context.Context, productID uuid.UUID, embedding dbtypes.Vector) error
}

type productCache interface {
	InvalidateProduct(ctx context.Context, id uuid.UUID)
}

// Indexer is the write path used by the enrichment pipeline to refresh
// a product's lexical payload and semantic embedding. Both writes drop
// the product's cache entry so reads observe the new document.
type Indexer struct {
	repo  indexStore
	cache productCache
}

// NewIndexer constructs the indexing write path.
func NewIndexer(repo indexStore, cache productCache) (*Indexer, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache service required")
	}
	return &Indexer{repo: repo, cache: cache}, nil
}

// UpdateSearchVector rebuilds the product's tsvector from the supplied text.
func (ix *Indexer) UpdateSearchVector(ctx context.Context, productID uuid.UUID, text string) error {
	if err := ix.repo.UpdateSearchVector(ctx, productID, text); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update search vector")
	}
	ix.cache.InvalidateProduct(ctx, productID)
	return nil
}

// UpdateEmbedding stores a freshly computed embedding for the product.
func (ix *Indexer) UpdateEmbedding(ctx context.Context, productID uuid.UUID, embedding dbtypes.Vector) error {
	if len(embedding) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "embedding cannot be empty")
	}
	if err := ix.repo.UpdateEmbedding(ctx, productID, embedding); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update embedding")
	}
	ix.cache.InvalidateProduct(ctx, productID)
	return nil
}
