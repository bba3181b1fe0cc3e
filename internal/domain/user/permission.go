package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Leave Management
	PermissionLeaveViewOwn       Permission = "leave.view_own"
	PermissionLeaveCreate        Permission = "leave.create"
	PermissionLeaveViewAll       Permission = "leave.view_all"
	PermissionLeaveApprove       Permission = "leave.approve"
	PermissionLeaveManageTypes   Permission = "leave.manage_types"
	PermissionLeaveManageBalance Permission = "leave.manage_balance"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Department Management
	PermissionDepartmentView   Permission = "department.view"
	PermissionDepartmentManage Permission = "department.manage"

	// Payroll
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionPayrollViewAll  Permission = "payroll.view_all"
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollApprove  Permission = "payroll.approve"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionLeaveManageBalance,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionDepartmentView,
		PermissionDepartmentManage,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollGenerate,
		PermissionPayrollApprove,
		PermissionUserManage,
	},
	RoleHR: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionLeaveManageBalance,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionDepartmentView,
		PermissionDepartmentManage,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollGenerate,
	},
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionDepartmentView,
		PermissionPayrollViewOwn,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionPayrollViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
