package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.Token, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.Token, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.Token, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	return s.loginFn(ctx, username, password)
}

var testExpiry = time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

func testToken() *domain.Token {
	return &domain.Token{AccessToken: "token123", TokenType: domain.TokenTypeBearer, ExpiresAt: testExpiry}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.Token, error) {
			if username != "admin" || password != "password" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return testToken(), nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/authenticate/login", `{"username":"admin","password":"password"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "token123" || resp["tokenType"] != "Bearer" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["expires"] != "2030-01-02T03:04:05Z" {
		t.Fatalf("unexpected expiry: %v", resp["expires"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.Token, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/authenticate/login", `{"username":"admin","password":"bad"}`), rec)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.Token, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/authenticate/login", "{"), rec)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.Token, error) {
			if username != "user_x" || password != "pw" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return testToken(), nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/authenticate/register", `{"username":"user_x","password":"pw"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.Token, error) {
			return nil, domain.Duplicate(domain.KindUser, username)
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/authenticate/register", `{"username":"bob","password":"pw"}`), rec)

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate user error, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.Token, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/authenticate/register", "not-json"), rec)

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
