package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medisched/user-service/internal/api/metrics"
	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	FirstName string   `json:"firstname" validate:"required,max=100"`
	LastName  string   `json:"lastname"  validate:"required,max=100"`
	Email     string   `json:"email"     validate:"required,email"`
	Password  string   `json:"password"  validate:"required,min=8"`
	Phone     string   `json:"phone"     validate:"max=32"`
	Role      string   `json:"role"      validate:"required"`
	Services  []string `json:"services"`
}

type authenticateRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new account and returns a token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  ports.AuthResult
// @Failure      400   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Failure      500   {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Register(c.Request().Context(), in)
	metrics.RegistrationsTotal.WithLabelValues(string(in.Role), metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}

// Authenticate exchanges credentials for a token.
//
// @Summary      Authenticate
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Login credentials"
// @Success      200   {object}  ports.AuthResult
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Router       /auth/authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Authenticate(c.Request().Context(), ports.Credentials{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	metrics.AuthenticationsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}

func (r registerRequest) toInput() (ports.RegisterInput, error) {
	if len(r.Password) > maxPasswordBytes {
		return ports.RegisterInput{}, fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}

	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return ports.RegisterInput{}, err
	}

	services := make([]domain.MedicalService, 0, len(r.Services))
	for _, s := range r.Services {
		ms, err := domain.ParseMedicalService(s)
		if err != nil {
			return ports.RegisterInput{}, err
		}
		services = append(services, ms)
	}

	return ports.RegisterInput{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Password:  r.Password,
		Phone:     strings.TrimSpace(r.Phone),
		Role:      role,
		Services:  services,
	}, nil
}
