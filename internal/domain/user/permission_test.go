package user

import "testing"

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleAdmin, PermissionUserManage, true},
		{RoleAdmin, PermissionPayrollApprove, true},
		{RoleHR, PermissionUserManage, false},
		{RoleHR, PermissionPayrollApprove, false},
		{RoleHR, PermissionPayrollGenerate, true},
		{RoleHR, PermissionLeaveManageBalance, true},
		{RoleHR, PermissionEmployeeManage, true},
		{RoleManager, PermissionLeaveApprove, true},
		{RoleManager, PermissionEmployeeManage, false},
		{RoleManager, PermissionAttendanceManage, false},
		{RoleEmployee, PermissionLeaveCreate, true},
		{RoleEmployee, PermissionLeaveApprove, false},
		{Role("unknown"), PermissionLeaveCreate, false},
	}

	for _, c := range cases {
		if got := HasPermission(c.role, c.permission); got != c.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", c.role, c.permission, got, c.want)
		}
	}
}

// Every role named in the permission table must be a valid role, so a
// renamed role cannot silently strand its grants.
func TestRolePermissionsKeysAreValidRoles(t *testing.T) {
	for role := range RolePermissions {
		if !role.Valid() {
			t.Errorf("RolePermissions contains invalid role %q", role)
		}
	}
}
