package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

type stubRoleService struct {
	listFn   func(ctx context.Context) ([]*domain.Role, error)
	getFn    func(ctx context.Context, id int64) (*domain.Role, error)
	createFn func(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateRoleInput) (*domain.Role, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubRoleService) List(ctx context.Context) ([]*domain.Role, error) { return s.listFn(ctx) }
func (s *stubRoleService) Get(ctx context.Context, id int64) (*domain.Role, error) {
	return s.getFn(ctx, id)
}
func (s *stubRoleService) Create(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error) {
	return s.createFn(ctx, in)
}
func (s *stubRoleService) Update(ctx context.Context, id int64, in ports.UpdateRoleInput) (*domain.Role, error) {
	return s.updateFn(ctx, id, in)
}
func (s *stubRoleService) Delete(ctx context.Context, id int64) error { return s.deleteFn(ctx, id) }

func newValidatingEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestRoleHandler_List(t *testing.T) {
	e := echo.New()
	stub := &stubRoleService{
		listFn: func(ctx context.Context) ([]*domain.Role, error) {
			return []*domain.Role{{ID: 1, Name: "ADMIN", AuthorityIDs: []int64{1, 2}}, {ID: 2, Name: "USER"}}, nil
		},
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/roles", nil), rec)

	if err := NewRoleHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["name"] != "ADMIN" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	// USER has no authorities but still renders an empty list.
	if ids, ok := resp[1]["authorityIds"].([]any); !ok || len(ids) != 0 {
		t.Fatalf("expected empty authorityIds, got %v", resp[1]["authorityIds"])
	}
}

func TestRoleHandler_Get_BadID(t *testing.T) {
	e := echo.New()
	stub := &stubRoleService{
		getFn: func(ctx context.Context, id int64) (*domain.Role, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	for _, raw := range []string{"abc", "0", "-3"} {
		c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/roles/"+raw, nil), httptest.NewRecorder()), raw)
		if err := NewRoleHandler(stub).Get(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("id %q: expected validation error, got %v", raw, err)
		}
	}
}

func TestRoleHandler_Get_NotFound(t *testing.T) {
	e := echo.New()
	stub := &stubRoleService{
		getFn: func(ctx context.Context, id int64) (*domain.Role, error) {
			return nil, domain.NotFoundByID(domain.KindRole, id)
		},
	}
	c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/roles/9", nil), httptest.NewRecorder()), "9")

	err := NewRoleHandler(stub).Get(c)
	if !errors.Is(err, domain.ErrRoleNotFound) || err.Error() != "Role 9 not found." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoleHandler_Create_Success(t *testing.T) {
	e := newValidatingEcho()
	stub := &stubRoleService{
		createFn: func(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error) {
			if in.Name != "FOO" || len(in.AuthorityIDs) != 1 || in.AuthorityIDs[0] != 6 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Role{ID: 3, Name: in.Name, AuthorityIDs: in.AuthorityIDs}, nil
		},
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/roles", `{"name":"FOO","authorityIds":[6]}`), rec)

	if err := NewRoleHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestRoleHandler_Create_MissingName(t *testing.T) {
	e := newValidatingEcho()
	stub := &stubRoleService{
		createFn: func(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c := e.NewContext(jsonRequest(http.MethodPost, "/roles", `{"authorityIds":[1]}`), httptest.NewRecorder())

	err := NewRoleHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRoleHandler_Update_Partial(t *testing.T) {
	e := echo.New()
	stub := &stubRoleService{
		updateFn: func(ctx context.Context, id int64, in ports.UpdateRoleInput) (*domain.Role, error) {
			if id != 4 || in.Name != nil || in.AuthorityIDs == nil || len(*in.AuthorityIDs) != 0 {
				t.Fatalf("unexpected input: %d %+v", id, in)
			}
			return &domain.Role{ID: id, Name: "FOO"}, nil
		},
	}
	rec := httptest.NewRecorder()
	c := withID(e.NewContext(jsonRequest(http.MethodPut, "/roles/4", `{"authorityIds":[]}`), rec), "4")

	if err := NewRoleHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRoleHandler_Delete(t *testing.T) {
	e := echo.New()
	var deleted int64
	stub := &stubRoleService{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	rec := httptest.NewRecorder()
	c := withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/roles/5", nil), rec), "5")

	if err := NewRoleHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != 5 {
		t.Fatalf("expected 204 for role 5, got %d for %d", rec.Code, deleted)
	}
}
