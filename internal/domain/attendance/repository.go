package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, att *Attendance) error
	GetByID(ctx context.Context, id string) (*Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	List(ctx context.Context, filter *ListFilter) ([]Attendance, int, error)
	Update(ctx context.Context, att *Attendance) error

	// CreateIfAbsent inserts a row relying on the (employee_id, date)
	// unique constraint; returns false when a row already existed.
	CreateIfAbsent(ctx context.Context, att *Attendance) (bool, error)

	// SummarizeMonth aggregates attendance counts per status for one
	// employee over a calendar month.
	SummarizeMonth(ctx context.Context, employeeID string, month time.Month, year int) (*MonthlySummary, error)
}
