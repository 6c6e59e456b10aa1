package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

type stubAuthService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	authenticateFn func(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error)
	infoFn         func(ctx context.Context, token string) (*ports.Profile, error)
	roleFn         func(ctx context.Context, token string) (domain.Role, error)
	idFn           func(ctx context.Context, token string) (int64, error)
	infoByIDFn     func(ctx context.Context, id int64) (*ports.Profile, error)
	doctorsFn      func(ctx context.Context, service domain.MedicalService) ([]ports.ProviderSummary, error)
	validateFn     func(ctx context.Context, token string, role domain.Role) (bool, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	return s.authenticateFn(ctx, creds)
}

func (s *stubAuthService) GetUserInfo(ctx context.Context, token string) (*ports.Profile, error) {
	return s.infoFn(ctx, token)
}

func (s *stubAuthService) GetUserRole(ctx context.Context, token string) (domain.Role, error) {
	return s.roleFn(ctx, token)
}

func (s *stubAuthService) GetUserID(ctx context.Context, token string) (int64, error) {
	return s.idFn(ctx, token)
}

func (s *stubAuthService) GetUserInfoByID(ctx context.Context, id int64) (*ports.Profile, error) {
	return s.infoByIDFn(ctx, id)
}

func (s *stubAuthService) GetDoctorsForService(ctx context.Context, service domain.MedicalService) ([]ports.ProviderSummary, error) {
	return s.doctorsFn(ctx, service)
}

func (s *stubAuthService) Validate(ctx context.Context, token string, role domain.Role) (bool, error) {
	return s.validateFn(ctx, token, role)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "house@example.com" || in.Role != domain.RoleDoctor {
				t.Fatalf("unexpected input: %+v", in)
			}
			if len(in.Services) != 2 || in.Services[0] != domain.GeneralCheckup || in.Services[1] != domain.DentalCleaning {
				t.Fatalf("unexpected services: %v", in.Services)
			}
			return &ports.AuthResult{Token: "token123", Role: in.Role}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"firstname":"Gregory","lastname":"House","email":"house@example.com","password":"vicodin42",` +
		`"phone":"+15550100","role":"doctor","services":["General checkup","DENTAL_CLEANING"]}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", body), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["role"] != "DOCTOR" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailAlreadyInUse
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"firstname":"A","lastname":"B","email":"a@example.com","password":"password1","role":"PATIENT"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", body), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrEmailAlreadyInUse) {
		t.Fatalf("expected ErrEmailAlreadyInUse, got %v", err)
	}
}

func TestAuthHandler_Register_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not-json"},
		{"missing email", `{"firstname":"A","lastname":"B","password":"password1","role":"PATIENT"}`},
		{"invalid email", `{"firstname":"A","lastname":"B","email":"nope","password":"password1","role":"PATIENT"}`},
		{"short password", `{"firstname":"A","lastname":"B","email":"a@example.com","password":"x","role":"PATIENT"}`},
		{"password over 72 bytes", `{"firstname":"A","lastname":"B","email":"a@example.com","password":"` + strings.Repeat("é", 40) + `","role":"PATIENT"}`},
		{"unknown role", `{"firstname":"A","lastname":"B","email":"a@example.com","password":"password1","role":"NURSE"}`},
		{"unknown service", `{"firstname":"A","lastname":"B","email":"a@example.com","password":"password1","role":"DOCTOR","services":["SURGERY"]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubAuthService{
				registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			handler := NewAuthHandler(stub)
			c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", tc.body), httptest.NewRecorder())

			assertHTTPError(t, handler.Register(c), http.StatusBadRequest)
		})
	}
}

func TestAuthHandler_Authenticate_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
			if creds.Email != "house@example.com" || creds.Password != "vicodin42" {
				t.Fatalf("unexpected creds: %+v", creds)
			}
			return &ports.AuthResult{Token: "token123", Role: domain.RoleDoctor}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/authenticate",
		`{"email":" house@example.com ","password":"vicodin42"}`), rec)

	if err := handler.Authenticate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"token":"token123"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Authenticate_BadCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
			return nil, domain.ErrBadCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/authenticate",
		`{"email":"a@example.com","password":"bad"}`), httptest.NewRecorder())

	if err := handler.Authenticate(c); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthHandler_Authenticate_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/authenticate", "{"), httptest.NewRecorder())
	assertHTTPError(t, handler.Authenticate(c), http.StatusBadRequest)

	c = e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/authenticate", `{"email":"a@example.com"}`), httptest.NewRecorder())
	assertHTTPError(t, handler.Authenticate(c), http.StatusBadRequest)
}
