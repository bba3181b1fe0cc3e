package attendance

import (
	"context"

	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

type Actor struct {
	UserID     string
	EmployeeID *string
	Role       user.Role
}

type AttendanceService interface {
	CheckIn(ctx context.Context, actor *Actor) (*Attendance, error)
	CheckOut(ctx context.Context, actor *Actor) (*Attendance, error)
	Mark(ctx context.Context, actor *Actor, req *MarkAttendanceRequest) (*Attendance, error)
	List(ctx context.Context, actor *Actor, filter *ListFilter) ([]Attendance, int, error)
	GetMyToday(ctx context.Context, actor *Actor) (*Attendance, error)
}
