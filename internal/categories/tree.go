package category

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/db/models"
	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
)

// Tree resolves the full category forest from a single scan. Assembly
// only attaches nodes reachable from a root, so any parent_id cycle
// leaves its members unattached and surfaces as an inconsistency error
// instead of silently dropping them from the response.
func (s *service) Tree(ctx context.Context) ([]CategoryNode, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}

	known := make(map[uuid.UUID]bool, len(categories))
	for i := range categories {
		known[categories[i].ID] = true
	}

	// FindAll orders by name, so roots and per-parent child slices keep
	// that order without re-sorting.
	childrenOf := make(map[uuid.UUID][]*models.Category)
	roots := make([]*models.Category, 0)
	for i := range categories {
		c := &categories[i]
		switch {
		case c.ParentID == nil:
			roots = append(roots, c)
		case !known[*c.ParentID]:
			// dangling parent reference: surface the subtree at top level
			roots = append(roots, c)
		case *c.ParentID == c.ID:
			// self-referencing row, caught by the leftover check below
		default:
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], c)
		}
	}

	attached := 0
	var build func(c *models.Category) CategoryNode
	build = func(c *models.Category) CategoryNode {
		attached++
		node := CategoryNode{
			CategoryDTO: *NewCategoryDTO(c),
			Children:    []CategoryNode{},
		}
		for _, child := range childrenOf[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	forest := make([]CategoryNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, build(root))
	}

	if unattached := len(categories) - attached; unattached > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInconsistentData, "category hierarchy contains a cycle").
			WithDetails(map[string]any{"unreachable_categories": unattached})
	}
	return forest, nil
}

// Path walks from the category up to its root and returns the chain in
// root-first order. An unknown id yields an empty slice rather than an
// error. A visited guard protects against parent cycles.
func (s *service) Path(ctx context.Context, id uuid.UUID) ([]CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []CategoryDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	path := []CategoryDTO{*NewCategoryDTO(category)}
	visited := map[uuid.UUID]bool{category.ID: true}

	current := category
	for current.ParentID != nil {
		parentID := *current.ParentID
		if visited[parentID] {
			return nil, pkgerrors.New(pkgerrors.CodeInconsistentData, "category hierarchy contains a cycle").
				WithDetails(map[string]any{"category_id": parentID.String()})
		}

		parent, err := s.repo.FindByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// dangling parent reference: stop at the orphan
				break
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parent category")
		}

		visited[parent.ID] = true
		path = append([]CategoryDTO{*NewCategoryDTO(parent)}, path...)
		current = parent
	}

	return path, nil
}
