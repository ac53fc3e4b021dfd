package redis

import (
	"context"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/cache"
	goredis "github.com/redis/go-redis/v9"
)

const employeeListPrefix = "shrms:employees:"

// employeeListStatuses are every key the cache may hold; "" is the unfiltered list.
var employeeListStatuses = []employee.Status{
	"",
	employee.StatusActive,
	employee.StatusInactive,
	employee.StatusSuspended,
}

type employeeListCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewEmployeeListCache(rdb *goredis.Client, ttl time.Duration) employee.ListCache {
	return &employeeListCache{rdb: rdb, ttl: ttl}
}

func employeeListKey(status employee.Status) string {
	if status == "" {
		return employeeListPrefix + "all"
	}
	return employeeListPrefix + string(status)
}

func (c *employeeListCache) Get(ctx context.Context, status employee.Status) ([]employee.Employee, bool, error) {
	var employees []employee.Employee
	found, err := cache.GetJSON(ctx, c.rdb, employeeListKey(status), &employees)
	if err != nil || !found {
		return nil, false, err
	}
	return employees, true, nil
}

func (c *employeeListCache) Set(ctx context.Context, status employee.Status, employees []employee.Employee) error {
	stripped := make([]employee.Employee, len(employees))
	for i, e := range employees {
		e.PasswordHash = nil
		stripped[i] = e
	}
	return cache.SetJSON(ctx, c.rdb, employeeListKey(status), stripped, c.ttl)
}

func (c *employeeListCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(employeeListStatuses))
	for _, s := range employeeListStatuses {
		keys = append(keys, employeeListKey(s))
	}
	return cache.Delete(ctx, c.rdb, keys...)
}

type noopEmployeeListCache struct{}

// NewNoopEmployeeListCache returns a cache that always misses.
func NewNoopEmployeeListCache() employee.ListCache {
	return noopEmployeeListCache{}
}

func (noopEmployeeListCache) Get(context.Context, employee.Status) ([]employee.Employee, bool, error) {
	return nil, false, nil
}

func (noopEmployeeListCache) Set(context.Context, employee.Status, []employee.Employee) error {
	return nil
}

func (noopEmployeeListCache) Invalidate(context.Context) error {
	return nil
}
