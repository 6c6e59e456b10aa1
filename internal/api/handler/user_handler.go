package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medisched/user-service/internal/api/metrics"
	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// GetUser returns the full profile of the token's owner.
//
// @Summary      Current user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Profile
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /user/ [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	token, err := ctxToken(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.GetUserInfo(c.Request().Context(), token)
	metrics.LookupsTotal.WithLabelValues("info", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetRole returns the stored role of the token's owner.
//
// @Summary      Current user role
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {string}  string  "DOCTOR"
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /user/role [get]
func (h *UserHandler) GetRole(c echo.Context) error {
	token, err := ctxToken(c)
	if err != nil {
		return err
	}

	role, err := h.authService.GetUserRole(c.Request().Context(), token)
	metrics.LookupsTotal.WithLabelValues("role", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// GetUserID returns the id of the token's owner.
//
// @Summary      Current user id
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {integer}  int64
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /user/userId [get]
func (h *UserHandler) GetUserID(c echo.Context) error {
	token, err := ctxToken(c)
	if err != nil {
		return err
	}

	id, err := h.authService.GetUserID(c.Request().Context(), token)
	metrics.LookupsTotal.WithLabelValues("user_id", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}

// Validate reports whether the token's owner currently holds the given role.
//
// @Summary      Check role
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  true  "Role"  Enums(PATIENT, DOCTOR, ADMIN)
// @Success      200   {object}  validateResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /user/validate [get]
func (h *UserHandler) Validate(c echo.Context) error {
	token, err := ctxToken(c)
	if err != nil {
		return err
	}

	role, err := domain.ParseRole(c.QueryParam("role"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ok, err := h.authService.Validate(c.Request().Context(), token, role)
	metrics.LookupsTotal.WithLabelValues("validate", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, validateResponse{Valid: ok})
}

// GetUserInfoByID returns the role-projected profile of any user.
//
// @Summary      User profile by id
// @Tags         user
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  ports.Profile
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /user/userInfo/{id} [get]
func (h *UserHandler) GetUserInfoByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}

	profile, err := h.authService.GetUserInfoByID(c.Request().Context(), id)
	metrics.LookupsTotal.WithLabelValues("info_by_id", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetDoctors lists the providers offering a medical service.
//
// @Summary      Providers for a service
// @Tags         user
// @Produce      json
// @Param        medicalService  query     string  true  "Medical service"  Enums(GENERAL_CHECKUP, DENTAL_CLEANING, CARDIOLOGY_CONSULTATION, DERMATOLOGY_CONSULTATION)
// @Success      200             {array}   ports.ProviderSummary
// @Failure      400             {object}  api.ErrorResponse
// @Failure      404             {object}  api.ErrorResponse
// @Router       /user/doctors/ [get]
func (h *UserHandler) GetDoctors(c echo.Context) error {
	service, err := domain.ParseMedicalService(c.QueryParam("medicalService"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	providers, err := h.authService.GetDoctorsForService(c.Request().Context(), service)
	metrics.LookupsTotal.WithLabelValues("providers", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, providers)
}
