package department

import "time"

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	ManagerID   *string   `json:"manager_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined for responses.
	ManagerName   *string `json:"manager_name,omitempty"`
	EmployeeCount *int64  `json:"employee_count,omitempty"`
}
