package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/storefront-service/internal/api/http/handlers"
	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/config"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/observability"
	"github.com/spec-kit/storefront-service/internal/repository/inmem"
	"github.com/spec-kit/storefront-service/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			TokenSecret: "test-secret",
			BcryptCost:  bcrypt.MinCost,
		},
	}

	dispatcher := events.NewInMemoryDispatcher()
	userRepo := inmem.NewUserRepository()
	productRepo := inmem.NewProductRepository()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher)
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Users:          handlers.NewUsersHandler(authService, userService),
		Products:       handlers.NewProductsHandler(productService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

type authPayload struct {
	User struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"userName"`
	} `json:"user"`
	Token string `json:"token"`
}

func register(t *testing.T, app *fiber.App, username string) authPayload {
	t.Helper()

	resp, raw := doJSON(t, app, http.MethodPost, "/users", "", map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
		"userName":  username,
		"password":  "s3cret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var payload authPayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.NotEmpty(t, payload.User.ID)
	require.NotEmpty(t, payload.Token)
	return payload
}

func TestRegisterThenShowSelf(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	registered := register(t, app, "jdoe")

	resp, raw := doJSON(t, app, http.MethodGet, "/users/"+registered.User.ID, registered.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var shown struct {
		ID       string `json:"id"`
		Username string `json:"userName"`
	}
	require.NoError(t, json.Unmarshal(raw, &shown))
	assert.Equal(t, registered.User.ID, shown.ID)
	assert.Equal(t, "jdoe", shown.Username)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	register(t, app, "jdoe")

	t.Run("correct credentials", func(t *testing.T) {
		resp, raw := doJSON(t, app, http.MethodPost, "/usersAuth", "", map[string]any{
			"userName": "jdoe",
			"password": "s3cret",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

		var payload authPayload
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.NotEmpty(t, payload.Token)
	})

	t.Run("wrong password and unknown username look identical", func(t *testing.T) {
		respWrong, rawWrong := doJSON(t, app, http.MethodPost, "/usersAuth", "", map[string]any{
			"userName": "jdoe",
			"password": "nope",
		})
		respUnknown, rawUnknown := doJSON(t, app, http.MethodPost, "/usersAuth", "", map[string]any{
			"userName": "ghost",
			"password": "s3cret",
		})

		assert.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
		assert.JSONEq(t, string(rawWrong), string(rawUnknown))
	})
}

// A valid token is all the authorization the service knows: it admits
// operations on resources the caller does not own.
func TestTokenAuthorizesUnrelatedDelete(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	victim := register(t, app, "victim")
	attacker := register(t, app, "attacker")

	resp, raw := doJSON(t, app, http.MethodDelete, "/users/"+victim.User.ID, attacker.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var deleted struct {
		Username string `json:"userName"`
	}
	require.NoError(t, json.Unmarshal(raw, &deleted))
	assert.Equal(t, "victim", deleted.Username)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/0c4ee1e4-3b43-4cf0-8a3f-0c40e8a71e01"},
		{http.MethodDelete, "/users/0c4ee1e4-3b43-4cf0-8a3f-0c40e8a71e01"},
		{http.MethodGet, "/products"},
		{http.MethodPost, "/products"},
		{http.MethodGet, "/products/0c4ee1e4-3b43-4cf0-8a3f-0c40e8a71e01"},
		{http.MethodPut, "/products/0c4ee1e4-3b43-4cf0-8a3f-0c40e8a71e01"},
		{http.MethodDelete, "/products/0c4ee1e4-3b43-4cf0-8a3f-0c40e8a71e01"},
		{http.MethodGet, "/products/category/kitchen"},
	}

	for _, route := range routes {
		resp, raw := doJSON(t, app, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
		assert.JSONEq(t, `{"error":"authorization header missing"}`, string(raw))
	}
}

func TestProductLifecycle(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := register(t, app, "jdoe").Token

	resp, raw := doJSON(t, app, http.MethodPost, "/products", token, map[string]any{
		"name":     "Desk",
		"price":    120.5,
		"category": "furniture",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Category string  `json:"category"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)

	resp, raw = doJSON(t, app, http.MethodGet, "/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = doJSON(t, app, http.MethodPut, "/products/"+created.ID, token, map[string]any{
		"name":     "Standing Desk",
		"price":    300,
		"category": "furniture",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = doJSON(t, app, http.MethodGet, "/products/category/furniture", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &listed))
	assert.Len(t, listed, 1)

	resp, raw = doJSON(t, app, http.MethodDelete, "/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, _ = doJSON(t, app, http.MethodGet, "/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownCategoryIsEmptyList(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := register(t, app, "jdoe").Token

	resp, raw := doJSON(t, app, http.MethodGet, "/products/category/doesnotexist", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestMalformedIDs(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := register(t, app, "jdoe").Token

	t.Run("malformed delete id is a 400", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, "/users/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, "/products/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("well-formed unknown id is a 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/users/0c4ee1e4-3b43-4cf0-8a3f-0c40e8a71e01", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDuplicateRegistrationIs401(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	register(t, app, "jdoe")

	resp, raw := doJSON(t, app, http.MethodPost, "/users", "", map[string]any{
		"userName": "jdoe",
		"password": "other",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"username already taken"}`, string(raw))
}
