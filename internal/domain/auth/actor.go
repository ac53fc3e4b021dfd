package auth

import (
	"context"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
)

// Actor is the authenticated caller.
type Actor struct {
	EmployeeID string
	Role       string
}

func (a Actor) IsAdmin() bool {
	return employee.Role(a.Role).IsAdmin()
}

// ActorFromContext reads the caller from the verified JWT claims.
func ActorFromContext(ctx context.Context) (Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Actor{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return Actor{EmployeeID: employeeID, Role: role}, nil
}
