package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/martshop/store-api/internal/core/domain"
	"github.com/martshop/store-api/internal/core/ports"
	"github.com/martshop/store-api/pkg/logger"
)

const testJWTSecret = "router-test-secret"

// Function-field stubs so each test configures only the calls it expects.

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if s.registerFn == nil {
		return nil, errors.New("unexpected Register call")
	}
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if s.loginFn == nil {
		return "", errors.New("unexpected Login call")
	}
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	createFn func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	listFn   func(ctx context.Context, page, limit int) (*ports.ListUsersResult, error)
	updateFn func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id, actorID, actorRole string) error
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if s.createFn == nil {
		return nil, errors.New("unexpected Create call")
	}
	return s.createFn(ctx, input)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if s.getFn == nil {
		return nil, errors.New("unexpected Get call")
	}
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	if s.listFn == nil {
		return nil, errors.New("unexpected List call")
	}
	return s.listFn(ctx, page, limit)
}

func (s *stubUserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if s.updateFn == nil {
		return nil, errors.New("unexpected Update call")
	}
	return s.updateFn(ctx, id, input)
}

func (s *stubUserService) Delete(ctx context.Context, id, actorID, actorRole string) error {
	if s.deleteFn == nil {
		return errors.New("unexpected Delete call")
	}
	return s.deleteFn(ctx, id, actorID, actorRole)
}

type stubProductService struct {
	createFn         func(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error)
	getFn            func(ctx context.Context, id string) (*domain.Product, error)
	listFn           func(ctx context.Context, input ports.ListProductsInput) (*ports.ListProductsResult, error)
	listByCategoryFn func(ctx context.Context, category string, page, limit int) ([]*domain.Product, error)
	updateFn         func(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error)
	deleteFn         func(ctx context.Context, id string) error
}

func (s *stubProductService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if s.createFn == nil {
		return nil, errors.New("unexpected Create call")
	}
	return s.createFn(ctx, input)
}

func (s *stubProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.getFn == nil {
		return nil, errors.New("unexpected Get call")
	}
	return s.getFn(ctx, id)
}

func (s *stubProductService) List(ctx context.Context, input ports.ListProductsInput) (*ports.ListProductsResult, error) {
	if s.listFn == nil {
		return nil, errors.New("unexpected List call")
	}
	return s.listFn(ctx, input)
}

func (s *stubProductService) ListByCategory(ctx context.Context, category string, page, limit int) ([]*domain.Product, error) {
	if s.listByCategoryFn == nil {
		return nil, errors.New("unexpected ListByCategory call")
	}
	return s.listByCategoryFn(ctx, category, page, limit)
}

func (s *stubProductService) Update(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	if s.updateFn == nil {
		return nil, errors.New("unexpected Update call")
	}
	return s.updateFn(ctx, id, input)
}

func (s *stubProductService) Delete(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return errors.New("unexpected Delete call")
	}
	return s.deleteFn(ctx, id)
}

// The prometheus middleware registers collectors globally, so the router is
// built once per test binary and the stubs are reconfigured per test.
var (
	routerOnce     sync.Once
	router         *echo.Echo
	authService    = &stubAuthService{}
	userService    = &stubUserService{}
	productService = &stubProductService{}
)

func testRouter() *echo.Echo {
	routerOnce.Do(func() {
		router = NewRouter(Dependencies{
			AuthService:    authService,
			UserService:    userService,
			ProductService: productService,
			JWTSecret:      testJWTSecret,
			Logger:         logger.Init(logger.Options{Level: "error"}),
		})
	})
	return router
}

func bearerToken(t *testing.T, sub, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func doRequest(t *testing.T, method, target, body, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_Register_Success(t *testing.T) {
	authService.registerFn = func(_ context.Context, name, email, password string) (*domain.User, error) {
		return &domain.User{
			ID:           "1",
			Name:         name,
			Email:        email,
			PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
			Role:         domain.RoleUser,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}, nil
	}

	rec := doRequest(t, http.MethodPost, "/api/auth/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["message"] != "User registered successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body["user"])
	}
	if user["email"] != "a@x.com" {
		t.Fatalf("unexpected email: %v", user["email"])
	}

	// Neither the plaintext password nor the hash may leak into the response.
	raw := rec.Body.String()
	if strings.Contains(raw, "secret1") || strings.Contains(raw, "notarealhash") {
		t.Fatalf("credentials leaked into response: %s", raw)
	}
}

func TestRouter_Register_DuplicateEmail(t *testing.T) {
	authService.registerFn = func(_ context.Context, _, _, _ string) (*domain.User, error) {
		return nil, domain.ErrUserExists
	}

	rec := doRequest(t, http.MethodPost, "/api/auth/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeJSON(t, rec); body["message"] != "User already exists" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRouter_Register_ValidationMessages(t *testing.T) {
	authService.registerFn = func(_ context.Context, _, _, _ string) (*domain.User, error) {
		t.Fatal("service must not be reached on invalid input")
		return nil, nil
	}

	rec := doRequest(t, http.MethodPost, "/api/auth/register",
		`{"name":"","email":"not-an-email","password":"123"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	// One message per violated rule, in struct declaration order.
	want := []string{
		"name is required",
		"email must be a valid email",
		"password must be at least 6",
	}
	if len(body.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), body.Errors)
	}
	for i, msg := range want {
		if body.Errors[i] != msg {
			t.Fatalf("error %d: expected %q, got %q", i, msg, body.Errors[i])
		}
	}
}

func TestRouter_Login_Success(t *testing.T) {
	authService.loginFn = func(_ context.Context, email, password string) (string, error) {
		if email != "a@x.com" || password != "secret1" {
			t.Fatalf("unexpected credentials: %s / %s", email, password)
		}
		return "signed-token", nil
	}

	rec := doRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"secret1"}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	if body["token"] != "signed-token" {
		t.Fatalf("expected token in response, got %v", body["token"])
	}
	if body["message"] != "Login successful" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRouter_Login_WrongPassword(t *testing.T) {
	authService.loginFn = func(_ context.Context, _, _ string) (string, error) {
		return "", domain.ErrInvalidCredentials
	}

	rec := doRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"wrong1"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeJSON(t, rec); body["message"] != "Invalid credentials" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRouter_ProductDelete_Gates(t *testing.T) {
	calls := 0
	productService.deleteFn = func(_ context.Context, id string) error {
		calls++
		if id == "missing" {
			return domain.ErrProductNotFound
		}
		return nil
	}

	// No token.
	rec := doRequest(t, http.MethodDelete, "/api/products/1", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}

	// Authenticated but not admin.
	rec = doRequest(t, http.MethodDelete, "/api/products/1", "", bearerToken(t, "7", "user"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", rec.Code)
	}

	if calls != 0 {
		t.Fatalf("service reached through a closed gate")
	}

	// Admin on a missing product.
	rec = doRequest(t, http.MethodDelete, "/api/products/missing", "", bearerToken(t, "1", "admin"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d", rec.Code)
	}
	if body := decodeJSON(t, rec); body["message"] != "Product not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	// Admin on an existing product.
	rec = doRequest(t, http.MethodDelete, "/api/products/1", "", bearerToken(t, "1", "admin"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin: expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestRouter_ProductUpdate_RejectsInvalidValues(t *testing.T) {
	called := false
	productService.updateFn = func(_ context.Context, _ string, _ ports.UpdateProductInput) (*domain.Product, error) {
		called = true
		return nil, nil
	}

	rec := doRequest(t, http.MethodPut, "/api/products/1",
		`{"price":0,"quantity":-1}`, bearerToken(t, "1", "admin"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if called {
		t.Fatalf("service must not be reached on invalid input")
	}

	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := []string{
		"price must be greater than 0",
		"quantity must be at least 0",
	}
	if len(body.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), body.Errors)
	}
	for i, msg := range want {
		if body.Errors[i] != msg {
			t.Fatalf("error %d: expected %q, got %q", i, msg, body.Errors[i])
		}
	}
}

func TestRouter_ProductList_PublicWithFilters(t *testing.T) {
	var captured ports.ListProductsInput
	productService.listFn = func(_ context.Context, input ports.ListProductsInput) (*ports.ListProductsResult, error) {
		captured = input
		return &ports.ListProductsResult{
			Items: []*domain.Product{
				{ID: "1", Name: "Pocket Atlas", Category: "books", Price: 7, Quantity: 2},
				{ID: "2", Name: "Novel", Category: "books", Price: 15, Quantity: 9},
			},
			Total: 3,
			Page:  1,
			Limit: 2,
		}, nil
	}

	rec := doRequest(t, http.MethodGet,
		"/api/products?category=books&minPrice=5&maxPrice=50&page=1&limit=2", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Category != "books" {
		t.Fatalf("category not forwarded: %+v", captured)
	}
	if captured.MinPrice == nil || *captured.MinPrice != 5 {
		t.Fatalf("minPrice not forwarded: %+v", captured)
	}
	if captured.MaxPrice == nil || *captured.MaxPrice != 50 {
		t.Fatalf("maxPrice not forwarded: %+v", captured)
	}
	if captured.Page != 1 || captured.Limit != 2 {
		t.Fatalf("paging not forwarded: %+v", captured)
	}

	body := decodeJSON(t, rec)
	if body["totalProducts"] != float64(3) {
		t.Fatalf("expected totalProducts 3, got %v", body["totalProducts"])
	}
	if body["currentPage"] != float64(1) || body["productsPerPage"] != float64(2) {
		t.Fatalf("unexpected paging fields: %v", body)
	}
	products, ok := body["products"].([]any)
	if !ok || len(products) != 2 {
		t.Fatalf("expected 2 products, got %v", body["products"])
	}
}

func TestRouter_ProductGet_Public(t *testing.T) {
	productService.getFn = func(_ context.Context, id string) (*domain.Product, error) {
		if id != "42" {
			return nil, domain.ErrProductNotFound
		}
		return &domain.Product{ID: "42", Name: "Mug", Category: "kitchen", Price: 10, Quantity: 4}, nil
	}

	rec := doRequest(t, http.MethodGet, "/api/products/42", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, http.MethodGet, "/api/products/43", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_UserList_AdminOnly(t *testing.T) {
	userService.listFn = func(_ context.Context, page, limit int) (*ports.ListUsersResult, error) {
		return &ports.ListUsersResult{
			Items: []*domain.User{{ID: "1", Name: "Ann", Email: "a@x.com", Role: "user"}},
			Total: 1,
			Page:  page,
			Limit: limit,
		}, nil
	}

	rec := doRequest(t, http.MethodGet, "/api/users", "", bearerToken(t, "7", "user"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", rec.Code)
	}

	rec = doRequest(t, http.MethodGet, "/api/users", "", bearerToken(t, "1", "admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	if body["totalUsers"] != float64(1) {
		t.Fatalf("expected totalUsers 1, got %v", body["totalUsers"])
	}
	if body["usersPerPage"] != float64(10) {
		t.Fatalf("expected default limit 10, got %v", body["usersPerPage"])
	}
}

func TestRouter_UserDelete_SelfAllowedWithoutAdmin(t *testing.T) {
	var gotID, gotActorID, gotActorRole string
	userService.deleteFn = func(_ context.Context, id, actorID, actorRole string) error {
		gotID, gotActorID, gotActorRole = id, actorID, actorRole
		if actorRole != "admin" && actorID != id {
			return domain.ErrForbidden
		}
		return nil
	}

	// Self-delete with a plain user token passes the route gate and the policy.
	rec := doRequest(t, http.MethodDelete, "/api/users/7", "", bearerToken(t, "7", "user"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("self delete: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "7" || gotActorID != "7" || gotActorRole != "user" {
		t.Fatalf("claims not forwarded: id=%s actor=%s role=%s", gotID, gotActorID, gotActorRole)
	}

	// Deleting someone else's account without the admin role is refused.
	rec = doRequest(t, http.MethodDelete, "/api/users/8", "", bearerToken(t, "7", "user"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: expected 403, got %d", rec.Code)
	}
	if body := decodeJSON(t, rec); body["message"] != "access forbidden" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	// No token at all never reaches the service.
	rec = doRequest(t, http.MethodDelete, "/api/users/7", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_Health_Liveness(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
