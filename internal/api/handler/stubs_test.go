package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kindapp/marketplace/internal/api/middleware"
	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	getFn          func(ctx context.Context, id string) (*domain.User, error)
	listFn         func(ctx context.Context) ([]*domain.User, error)
	updateFn       func(ctx context.Context, id string, patch domain.ProfileUpdate) (*domain.User, error)
	deleteFn       func(ctx context.Context, id string) error
	searchFn       func(ctx context.Context, service, location string) ([]*domain.User, error)
	pendingFn      func(ctx context.Context) ([]*domain.User, error)
	providerStatus func(ctx context.Context, id, status string) error
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id string, patch domain.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) SearchProviders(ctx context.Context, service, location string) ([]*domain.User, error) {
	return s.searchFn(ctx, service, location)
}

func (s *stubUserService) ListPendingProviders(ctx context.Context) ([]*domain.User, error) {
	return s.pendingFn(ctx)
}

func (s *stubUserService) SetProviderStatus(ctx context.Context, id, status string) error {
	return s.providerStatus(ctx, id, status)
}

type stubContactService struct {
	createFn       func(ctx context.Context, in ports.CreateContactRequestInput) (*ports.ContactRequestResult, error)
	listAllFn      func(ctx context.Context) ([]*domain.ContactRequest, error)
	listClientFn   func(ctx context.Context, clientID string) ([]*domain.ContactRequest, error)
	listProviderFn func(ctx context.Context, providerID string) ([]*domain.ContactRequest, error)
	updateFn       func(ctx context.Context, id, status string) error
}

func (s *stubContactService) Create(ctx context.Context, in ports.CreateContactRequestInput) (*ports.ContactRequestResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubContactService) ListAll(ctx context.Context) ([]*domain.ContactRequest, error) {
	return s.listAllFn(ctx)
}

func (s *stubContactService) ListForClient(ctx context.Context, clientID string) ([]*domain.ContactRequest, error) {
	return s.listClientFn(ctx, clientID)
}

func (s *stubContactService) ListForProvider(ctx context.Context, providerID string) ([]*domain.ContactRequest, error) {
	return s.listProviderFn(ctx, providerID)
}

func (s *stubContactService) UpdateStatus(ctx context.Context, id, status string) error {
	return s.updateFn(ctx, id, status)
}

type stubMessageService struct {
	postFn     func(ctx context.Context, in ports.PostMessageInput) (*domain.Message, error)
	listFn     func(ctx context.Context, contactRequestID string) ([]*domain.Message, error)
	markReadFn func(ctx context.Context, id string) error
}

func (s *stubMessageService) Post(ctx context.Context, in ports.PostMessageInput) (*domain.Message, error) {
	return s.postFn(ctx, in)
}

func (s *stubMessageService) List(ctx context.Context, contactRequestID string) ([]*domain.Message, error) {
	return s.listFn(ctx, contactRequestID)
}

func (s *stubMessageService) MarkRead(ctx context.Context, id string) error {
	return s.markReadFn(ctx, id)
}

// newContext builds an echo context with the validator installed. A non-empty
// body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withClaims mimics the Auth middleware.
func withClaims(c echo.Context, userID string, role domain.Role) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, string(role))
}
