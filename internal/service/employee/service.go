package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	listCache    employee.ListCache
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, listCache employee.ListCache) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		listCache:    listCache,
	}
}

func hashPassword(password string) (*string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	s := string(hashed)
	return &s, nil
}

func parseHireDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *EmployeeServiceImpl) invalidate(ctx context.Context) {
	if err := s.listCache.Invalidate(ctx); err != nil {
		slog.Warn("Failed to invalidate employee list cache", "error", err)
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, err := parseHireDate(req.HireDate)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		BaseSalary:        req.BaseSalary,
		Role:              req.Role,
		Status:            req.Status,
		HireDate:          hireDate,
		ExternalAccountID: req.ExternalAccountID,
	}
	if req.Password != nil {
		if newEmployee.PasswordHash, err = hashPassword(*req.Password); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	s.invalidate(ctx)

	slog.Info("Created employee", "employee_id", created.ID, "role", created.Role)
	return employee.NewEmployeeResponse(created), nil
}

// GetEmployee implements employee.Directory.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

// GetEmployeeByPhone implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployeeByPhone(ctx context.Context, phone string) (employee.Employee, error) {
	return s.employeeRepo.GetByPhone(ctx, phone)
}

// ListByStatus implements employee.Directory. An empty status lists everyone.
func (s *EmployeeServiceImpl) ListByStatus(ctx context.Context, status employee.Status) ([]employee.Employee, error) {
	cached, found, err := s.listCache.Get(ctx, status)
	if err != nil {
		slog.Warn("Employee list cache read failed", "status", status, "error", err)
	}
	if found {
		return cached, nil
	}

	filter := employee.EmployeeFilter{}
	if status != "" {
		filter.Status = &status
	}
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.listCache.Set(ctx, status, employees); err != nil {
		slog.Warn("Employee list cache write failed", "status", status, "error", err)
	}
	return employees, nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	var status employee.Status
	if filter.Status != nil {
		status = *filter.Status
	}

	employees, err := s.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Email != nil {
		existing.Email = req.Email
	}
	if req.BaseSalary != nil {
		existing.BaseSalary = *req.BaseSalary
	}
	if req.Role != nil {
		existing.Role = *req.Role
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}
	if req.HireDate != nil {
		if existing.HireDate, err = parseHireDate(req.HireDate); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}
	if req.ExternalAccountID != nil {
		existing.ExternalAccountID = req.ExternalAccountID
	}
	if req.Password != nil {
		if existing.PasswordHash, err = hashPassword(*req.Password); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	updated, err := s.employeeRepo.Update(ctx, existing)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	s.invalidate(ctx)

	return employee.NewEmployeeResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	slog.Info("Deleted employee", "employee_id", id)
	return nil
}
