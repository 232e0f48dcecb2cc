package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StoreAPI persists attendance. OpenDay and CloseDay must be atomic
// compare-and-set writes: the bool reports whether this call set the column.
type StoreAPI interface {
	OpenDay(ctx context.Context, employeeID string, day, at time.Time) (Record, bool, error)
	CloseDay(ctx context.Context, employeeID string, day, at time.Time) (Record, bool, error)
	Get(ctx context.Context, employeeID string, day time.Time) (Record, error)
	SetStatus(ctx context.Context, employeeID string, day time.Time, status Status, overtime decimal.Decimal) (Record, error)
	ListDay(ctx context.Context, day time.Time) ([]Record, error)
	ListClientDay(ctx context.Context, clientID string, day time.Time) ([]Record, error)
	ListEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	ListRange(ctx context.Context, from, to time.Time) ([]Record, error)
	CountRosterEmployees(ctx context.Context) (int, error)
}

var _ StoreAPI = (*Store)(nil)
