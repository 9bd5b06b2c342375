package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Create handles POST /users. The response carries the new account and a
// token ready for immediate authenticated use.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apperrors.NewValidationError("userName and password required")
	}

	user, token, err := h.auth.Register(c.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		User:  userResponse(user),
		Token: token,
	})
}

// Authenticate handles POST /usersAuth.
func (h *UsersHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.UserAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("userName and password required")
	}

	user, token, err := h.auth.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		User:  userResponse(user),
		Token: token,
	})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(items)
}

// Show handles GET /users/:id.
func (h *UsersHandler) Show(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("user")
	}
	user, err := h.users.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// Delete handles DELETE /users/:id. The deleted record is echoed back.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid user id")
	}
	user, err := h.users.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
	}
}
