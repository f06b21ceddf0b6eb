package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/martshop/store-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users (paged)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "1-based page"     default(1)
// @Param        limit  query     int  false  "rows per page"    default(10)
// @Success      200    {object}  listUsersResponse
// @Failure      401    {object}  messageResponse
// @Failure      403    {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		TotalUsers:   result.Total,
		CurrentPage:  result.Page,
		UsersPerPage: result.Limit,
		Users:        result.Items,
	})
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "user id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Create handles POST /api/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  validationResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

// Update handles PATCH /api/users/:id. Supplied fields overwrite stored
// values; absent fields are untouched; a supplied password is re-hashed.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "user id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  updateUserResponse
// @Failure      400   {object}  validationResponse
// @Failure      404   {object}  messageResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateUserResponse{
		UpdatedUser: user,
		Message:     "User updated successfully",
	})
}

// Delete handles DELETE /api/users/:id. Requires authentication only:
// admins may delete anyone, other users only themselves.
//
// @Summary      Soft-delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "user id"
// @Success      204
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actorID, _ := c.Get("user_id").(string)
	actorRole, _ := c.Get("role").(string)

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actorID, actorRole); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// queryInt reads an integer query parameter, falling back on absence or junk.
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
