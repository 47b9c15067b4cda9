package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	categorysvc "github.com/tradecove/catalog-backend/internal/categories"
)

type stubCategoryService struct {
	lastUpdate categorysvc.UpdateCategoryInput
	lastCreate categorysvc.CreateCategoryInput
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, input categorysvc.CreateCategoryInput) (*categorysvc.CategoryDTO, error) {
	s.lastCreate = input
	return &categorysvc.CategoryDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubCategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{ID: id}, nil
}

func (s *stubCategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input categorysvc.UpdateCategoryInput) (*categorysvc.CategoryDTO, error) {
	s.lastUpdate = input
	return &categorysvc.CategoryDTO{ID: id}, nil
}

func (s *stubCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubCategoryService) ListCategories(ctx context.Context) ([]categorysvc.CategoryDTO, error) {
	return nil, nil
}

func (s *stubCategoryService) Tree(ctx context.Context) ([]categorysvc.CategoryNode, error) {
	return []categorysvc.CategoryNode{}, nil
}

func (s *stubCategoryService) Path(ctx context.Context, id uuid.UUID) ([]categorysvc.CategoryDTO, error) {
	return []categorysvc.CategoryDTO{}, nil
}

func (s *stubCategoryService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

func newCategoryRouter(svc categorysvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/categories", CreateCategory(svc, testLogger()))
	r.Patch("/api/v1/categories/{id}", UpdateCategory(svc, testLogger()))
	return r
}

func TestUpdateCategoryParentSemantics(t *testing.T) {
	svc := &stubCategoryService{}
	router := newCategoryRouter(svc)
	id := uuid.New()

	patch := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/categories/"+id.String(), strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("absentParentLeavesItUntouched", func(t *testing.T) {
		w := patch(t, `{"name":"Gloves"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if svc.lastUpdate.ParentID != nil {
			t.Fatalf("parent must stay unset when absent from the patch")
		}
		if svc.lastUpdate.Name == nil || *svc.lastUpdate.Name != "Gloves" {
			t.Fatalf("name not forwarded: %+v", svc.lastUpdate.Name)
		}
	})

	t.Run("nullParentMovesToRoot", func(t *testing.T) {
		w := patch(t, `{"parent_id":null}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if svc.lastUpdate.ParentID == nil || *svc.lastUpdate.ParentID != nil {
			t.Fatalf("explicit null must request a move to root")
		}
	})

	t.Run("uuidParentReparents", func(t *testing.T) {
		parent := uuid.New()
		w := patch(t, `{"parent_id":"`+parent.String()+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if svc.lastUpdate.ParentID == nil || *svc.lastUpdate.ParentID == nil || **svc.lastUpdate.ParentID != parent {
			t.Fatalf("parent id not forwarded")
		}
	})

	t.Run("malformedParentRejected", func(t *testing.T) {
		w := patch(t, `{"parent_id":"nope"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestCreateCategoryRequiresName(t *testing.T) {
	svc := &stubCategoryService{}
	router := newCategoryRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
