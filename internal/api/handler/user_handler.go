package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/api/metrics"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/ports"
)

// Banner is the plain-text body served at the root path.
const Banner = "GSRS server is running!"

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
	metrics *metrics.Metrics
}

func NewUserHandler(service ports.UserService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{service: service, metrics: m}
}

// Root handles GET /.
//
// @Summary      Service banner
// @Tags         meta
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *UserHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, Banner)
}

// Create handles POST /user.
//
// @Summary      Register a user
// @Description  Fields are stored as received. Under the return_existing duplicate policy an already registered email yields 200 with the stored record; under insert, 409 is returned only when a unique email index exists on the collection.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  createUserResponse
// @Success      200   {object}  existingUserResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}

	result, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		PhotoURL:   req.PhotoURL,
		Number:     req.Number,
		Role:       req.Role,
		BloodGroup: req.BloodGroup,
		Address:    req.Address,
	})
	if err != nil {
		return err
	}

	if result.Existing != nil {
		h.metrics.UsersCreatedTotal.WithLabelValues("existing").Inc()
		return c.JSON(http.StatusOK, existingUserResponse{
			Message:      "User already exists",
			ExistingUser: result.Existing,
		})
	}

	h.metrics.UsersCreatedTotal.WithLabelValues("inserted").Inc()
	return c.JSON(http.StatusCreated, createUserResponse{
		Success: true,
		Result:  insertResult{Acknowledged: true, InsertedID: result.InsertedID},
	})
}

// List handles GET /users.
//
// @Summary      List or search users
// @Description  Case-insensitive substring match on name or email. An empty result is reported as 404.
// @Tags         users
// @Produce      json
// @Param        q    query     string  false  "Search term"
// @Success      200  {array}   domain.User
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Failure      503  {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		h.countLookup("list", err)
		return err
	}
	h.countLookup("list", nil)
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /user/:email.
//
// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "Exact email"
// @Success      200    {object}  domain.User
// @Failure      404    {object}  messageResponse
// @Failure      500    {object}  messageResponse
// @Failure      503    {object}  messageResponse
// @Router       /user/{email} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUserByEmail(c.Request().Context(), emailParam(c))
	if err != nil {
		h.countLookup("get", err)
		return err
	}
	h.countLookup("get", nil)
	return c.JSON(http.StatusOK, user)
}

// emailParam returns the decoded email path segment. Echo routes on the raw
// path only when the request carried one, so the segment is already decoded
// otherwise and must not be unescaped again.
func emailParam(c echo.Context) string {
	raw := c.Param("email")
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}

func (h *UserHandler) countLookup(op string, err error) {
	result := "found"
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNoUsers):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	h.metrics.UserLookupsTotal.WithLabelValues(op, result).Inc()
}
