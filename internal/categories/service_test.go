package category

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
)

type recordingCache struct {
	entries     map[uuid.UUID]*CategoryDTO
	invalidated []uuid.UUID
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[uuid.UUID]*CategoryDTO)}
}

func (c *recordingCache) GetCategory(ctx context.Context, id uuid.UUID, dest any) bool {
	entry, ok := c.entries[id]
	if !ok {
		return false
	}
	*dest.(*CategoryDTO) = *entry
	return true
}

func (c *recordingCache) SetCategory(ctx context.Context, id uuid.UUID, value any) {
	dto, ok := value.(*CategoryDTO)
	if !ok {
		return
	}
	copied := *dto
	c.entries[id] = &copied
}

func (c *recordingCache) InvalidateCategory(ctx context.Context, id uuid.UUID) {
	c.invalidated = append(c.invalidated, id)
	delete(c.entries, id)
}

func newCrudService(t *testing.T) (Service, *fakeRepo, *recordingCache) {
	t.Helper()
	repo := newFakeRepo()
	cache := newRecordingCache()
	svc, err := NewService(repo, cache)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, cache
}

func namePtr(v string) *string { return &v }

func TestCreateCategory(t *testing.T) {
	svc, _, cache := newCrudService(t)
	ctx := context.Background()

	t.Run("rootCategoryIsCached", func(t *testing.T) {
		dto, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: " Apparel "})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if dto.Name != "Apparel" {
			t.Fatalf("expected trimmed name, got %q", dto.Name)
		}
		if _, ok := cache.entries[dto.ID]; !ok {
			t.Fatal("expected new category cached on create")
		}
	})

	t.Run("unknownParentRejected", func(t *testing.T) {
		phantom := uuid.New()
		_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Gloves", ParentID: &phantom})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("emptyNameRejected", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "   "})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestGetCategory_CacheAside(t *testing.T) {
	svc, repo, cache := newCrudService(t)
	ctx := context.Background()

	row := repo.add("Devices", nil)

	dto, err := svc.GetCategory(ctx, row.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.Name != "Devices" {
		t.Fatalf("unexpected category %+v", dto)
	}
	if _, ok := cache.entries[row.ID]; !ok {
		t.Fatal("expected cache populated after miss")
	}

	// remove from the repo; a cache hit must still serve the entry
	delete(repo.rows, row.ID)
	cached, err := svc.GetCategory(ctx, row.ID)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if cached.Name != "Devices" {
		t.Fatalf("unexpected cached category %+v", cached)
	}
}

func TestUpdateCategory(t *testing.T) {
	svc, repo, cache := newCrudService(t)
	ctx := context.Background()

	parent := repo.add("Apparel", nil)
	row := repo.add("Gloves", nil)

	t.Run("rename", func(t *testing.T) {
		dto, err := svc.UpdateCategory(ctx, row.ID, UpdateCategoryInput{Name: namePtr("Exam Gloves")})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if dto.Name != "Exam Gloves" {
			t.Fatalf("unexpected name %q", dto.Name)
		}
		if len(cache.invalidated) == 0 {
			t.Fatal("expected cache invalidation on update")
		}
	})

	t.Run("reparent", func(t *testing.T) {
		parentID := &parent.ID
		dto, err := svc.UpdateCategory(ctx, row.ID, UpdateCategoryInput{ParentID: &parentID})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if dto.ParentID == nil || *dto.ParentID != parent.ID {
			t.Fatalf("expected parent %s, got %v", parent.ID, dto.ParentID)
		}
	})

	t.Run("moveToRoot", func(t *testing.T) {
		var root *uuid.UUID
		dto, err := svc.UpdateCategory(ctx, row.ID, UpdateCategoryInput{ParentID: &root})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if dto.ParentID != nil {
			t.Fatalf("expected nil parent, got %v", dto.ParentID)
		}
	})

	t.Run("selfParentRejected", func(t *testing.T) {
		self := &row.ID
		_, err := svc.UpdateCategory(ctx, row.ID, UpdateCategoryInput{ParentID: &self})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestDeleteCategory(t *testing.T) {
	svc, repo, cache := newCrudService(t)
	ctx := context.Background()

	row := repo.add("Devices", nil)
	if err := svc.DeleteCategory(ctx, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cache.invalidated) == 0 {
		t.Fatal("expected cache invalidation on delete")
	}

	err := svc.DeleteCategory(ctx, row.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExists(t *testing.T) {
	svc, repo, _ := newCrudService(t)
	ctx := context.Background()

	row := repo.add("Devices", nil)
	ok, err := svc.Exists(ctx, row.ID)
	if err != nil || !ok {
		t.Fatalf("expected exists, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.Exists(ctx, uuid.New())
	if err != nil || ok {
		t.Fatalf("expected not exists, got ok=%v err=%v", ok, err)
	}
}
