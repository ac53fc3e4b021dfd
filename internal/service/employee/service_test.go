package employee

import (
	"context"
	"sync"
	"testing"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	listCalls int
	seq       int
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[string]employee.Employee{}}
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) GetByPhone(_ context.Context, phone string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Phone == phone {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]employee.Employee, 0)
	for _, e := range r.employees {
		if filter.Status == nil || e.Status == *filter.Status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employees {
		if existing.Phone == e.Phone {
			return employee.Employee{}, employee.ErrPhoneExists
		}
	}
	r.seq++
	e.ID = "01900000-0000-7000-8000-00000000000" + string(rune('0'+r.seq))
	r.employees[e.ID] = e
	return e, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[e.ID]; !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	r.employees[e.ID] = e
	return e, nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

type memoryListCache struct {
	lists       map[employee.Status][]employee.Employee
	invalidated int
}

func newMemoryListCache() *memoryListCache {
	return &memoryListCache{lists: map[employee.Status][]employee.Employee{}}
}

func (c *memoryListCache) Get(_ context.Context, status employee.Status) ([]employee.Employee, bool, error) {
	l, ok := c.lists[status]
	return l, ok, nil
}

func (c *memoryListCache) Set(_ context.Context, status employee.Status, employees []employee.Employee) error {
	c.lists[status] = employees
	return nil
}

func (c *memoryListCache) Invalidate(context.Context) error {
	c.invalidated++
	c.lists = map[employee.Status][]employee.Employee{}
	return nil
}

func TestCreateEmployee_HashesPasswordAndSanitizesPhone(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, newMemoryListCache())

	password := "hunter22"
	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		Name:       "Amira",
		Phone:      "+20 100-123-4567",
		Password:   &password,
		BaseSalary: decimal.NewFromInt(6000),
	})
	require.NoError(t, err)
	assert.Equal(t, "+201001234567", resp.Phone)
	assert.Equal(t, employee.RoleEmployee, resp.Role)
	assert.Equal(t, employee.StatusActive, resp.Status)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte(password)))
}

func TestCreateEmployee_Validation(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), newMemoryListCache())

	_, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{Phone: "12"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestListByStatus_ReadsThroughCache(t *testing.T) {
	repo := newFakeEmployeeRepo()
	cache := newMemoryListCache()
	svc := NewEmployeeService(repo, cache)
	ctx := context.Background()

	_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "A", Phone: "+201000000001"})
	require.NoError(t, err)

	first, err := svc.ListByStatus(ctx, employee.StatusActive)
	require.NoError(t, err)
	second, err := svc.ListByStatus(ctx, employee.StatusActive)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}

func TestUpdateEmployee_InvalidatesCache(t *testing.T) {
	repo := newFakeEmployeeRepo()
	cache := newMemoryListCache()
	svc := NewEmployeeService(repo, cache)
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "A", Phone: "+201000000001"})
	require.NoError(t, err)
	_, err = svc.ListByStatus(ctx, employee.StatusActive)
	require.NoError(t, err)

	inactive := employee.StatusInactive
	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Status: &inactive})
	require.NoError(t, err)

	active, err := svc.ListByStatus(ctx, employee.StatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Equal(t, 2, cache.invalidated)
}

func TestDeleteEmployee_NotFound(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), newMemoryListCache())

	err := svc.DeleteEmployee(context.Background(), "01900000-0000-7000-8000-000000000009")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
