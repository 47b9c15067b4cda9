package supplier

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/db/models"
	"github.com/tradecove/catalog-backend/pkg/enums"
	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
	"github.com/tradecove/catalog-backend/pkg/pagination"
)

type fakeRepo struct {
	rows      map[uuid.UUID]*models.Supplier
	createErr error
	updateErr error
	findCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[uuid.UUID]*models.Supplier)}
}

func (f *fakeRepo) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	f.rows[supplier.ID] = supplier
	return supplier, nil
}

func (f *fakeRepo) Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.rows[supplier.ID] = supplier
	return supplier, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	f.findCalls++
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRepo) List(ctx context.Context, page pagination.Page) ([]models.Supplier, error) {
	out := make([]models.Supplier, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

type fakeCache struct {
	entries     map[uuid.UUID]*SupplierDTO
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[uuid.UUID]*SupplierDTO)}
}

func (f *fakeCache) GetSupplier(ctx context.Context, id uuid.UUID, dest any) bool {
	entry, ok := f.entries[id]
	if !ok {
		return false
	}
	*dest.(*SupplierDTO) = *entry
	return true
}

func (f *fakeCache) SetSupplier(ctx context.Context, id uuid.UUID, value any) {
	dto, ok := value.(*SupplierDTO)
	if !ok {
		return
	}
	copied := *dto
	f.entries[id] = &copied
}

func (f *fakeCache) InvalidateSupplier(ctx context.Context, id uuid.UUID) {
	f.invalidated = append(f.invalidated, id)
	delete(f.entries, id)
}

func newTestService(t *testing.T) (Service, *fakeRepo, *fakeCache) {
	t.Helper()
	repo := newFakeRepo()
	cache := newFakeCache()
	svc, err := NewService(repo, cache)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, cache
}

func strPtr(v string) *string { return &v }

func TestCreateSupplier(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		dto, err := svc.CreateSupplier(ctx, CreateSupplierInput{
			Name:         "  Acme Medical  ",
			ContactEmail: " sales@acme.example ",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if dto.Name != "Acme Medical" {
			t.Fatalf("expected trimmed name, got %q", dto.Name)
		}
		if dto.ContactEmail != "sales@acme.example" {
			t.Fatalf("expected trimmed email, got %q", dto.ContactEmail)
		}
		if dto.Status != enums.SupplierStatusActive.String() {
			t.Fatalf("expected default active status, got %q", dto.Status)
		}
	})

	t.Run("missingName", func(t *testing.T) {
		_, err := svc.CreateSupplier(ctx, CreateSupplierInput{ContactEmail: "x@y.z"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("duplicateEmail", func(t *testing.T) {
		svc2, repo, _ := newTestService(t)
		repo.createErr = &pq.Error{Code: "23505"}
		_, err := svc2.CreateSupplier(ctx, CreateSupplierInput{Name: "Acme", ContactEmail: "x@y.z"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict error, got %v", err)
		}
	})
}

func TestGetSupplier_CacheAside(t *testing.T) {
	svc, repo, cache := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSupplier(ctx, CreateSupplierInput{Name: "Acme", ContactEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto, err := svc.GetSupplier(ctx, created.ID)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if dto.Name != "Acme" {
		t.Fatalf("unexpected supplier %+v", dto)
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected one repo read, got %d", repo.findCalls)
	}
	if _, ok := cache.entries[created.ID]; !ok {
		t.Fatal("expected cache populated after miss")
	}

	if _, err := svc.GetSupplier(ctx, created.ID); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if repo.findCalls != 1 {
		t.Fatalf("cache hit must not touch the repo, got %d calls", repo.findCalls)
	}
}

func TestGetSupplier_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetSupplier(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateSupplier_InvalidatesBeforeReturn(t *testing.T) {
	svc, repo, cache := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSupplier(ctx, CreateSupplierInput{Name: "Acme", ContactEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// warm the cache
	if _, err := svc.GetSupplier(ctx, created.ID); err != nil {
		t.Fatalf("warm get: %v", err)
	}

	updated, err := svc.UpdateSupplier(ctx, created.ID, UpdateSupplierInput{Name: strPtr("Acme Health")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Health" {
		t.Fatalf("unexpected name %q", updated.Name)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != created.ID {
		t.Fatalf("expected cache invalidation for %s, got %v", created.ID, cache.invalidated)
	}

	// the next read must observe the updated row, not a stale entry
	reads := repo.findCalls
	fresh, err := svc.GetSupplier(ctx, created.ID)
	if err != nil {
		t.Fatalf("post-update get: %v", err)
	}
	if fresh.Name != "Acme Health" {
		t.Fatalf("stale read after update: %+v", fresh)
	}
	if repo.findCalls != reads+1 {
		t.Fatal("post-update read should have missed the cache")
	}
}

func TestDeleteSupplier(t *testing.T) {
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSupplier(ctx, CreateSupplierInput{Name: "Acme", ContactEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteSupplier(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cache.invalidated) == 0 {
		t.Fatal("expected cache invalidation on delete")
	}

	err = svc.DeleteSupplier(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for second delete, got %v", err)
	}
}
