package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Credentials looks up an employee by login phone.
type Credentials interface {
	GetByPhone(ctx context.Context, phone string) (employee.Employee, error)
}

type AuthServiceImpl struct {
	credentials Credentials
	jwt.Service
}

func NewAuthService(credentials Credentials, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		credentials: credentials,
		Service:     jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.credentials.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by phone: %w", err)
	}

	if emp.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !emp.IsActive() {
		return auth.TokenResponse{}, employee.ErrEmployeeInactive
	}

	token, expiresAt, err := a.GenerateAccessToken(emp.ID, emp.Phone, string(emp.Role))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("Employee logged in", "employee_id", emp.ID, "role", emp.Role)
	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		EmployeeID:  emp.ID,
		Name:        emp.Name,
		Role:        string(emp.Role),
	}, nil
}

// IssueSSEToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context) (auth.SSETokenResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return auth.SSETokenResponse{}, err
	}

	token, expiresIn, err := a.GenerateSSEToken(actor.EmployeeID, actor.Role)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to generate sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
