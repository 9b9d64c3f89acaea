package access

// Capability names. Stores and engines never check these themselves;
// the calling layer gates entry points with them.
const (
	PermCreateSurvey    = "create_survey"
	PermEditSurvey      = "edit_survey"
	PermDeleteSurvey    = "delete_survey"
	PermViewAnalytics   = "view_analytics"
	PermManageUsers     = "manage_users"
	PermExportData      = "export_data"
	PermViewAllSurveys  = "view_all_surveys"
	PermViewTeamSurveys = "view_team_surveys"
	PermViewOwnSurveys  = "view_own_surveys"
	PermPublishSurvey   = "publish_survey"
)

// Checker is the capability-check contract consumed from the
// authentication collaborator.
type Checker interface {
	HasPermission(name string) bool
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermCreateSurvey,
		PermEditSurvey,
		PermDeleteSurvey,
		PermViewAnalytics,
		PermManageUsers,
		PermExportData,
		PermViewAllSurveys,
		PermPublishSurvey,
	},
	RoleManager: {
		PermCreateSurvey,
		PermEditSurvey,
		PermDeleteSurvey,
		PermViewAnalytics,
		PermExportData,
		PermViewTeamSurveys,
		PermPublishSurvey,
	},
	RoleUser: {
		PermCreateSurvey,
		PermEditSurvey,
		PermViewAnalytics,
		PermViewOwnSurveys,
	},
}

// RoleChecker is the default Checker: a fixed permission set per
// role. An unknown role gets the user set.
type RoleChecker struct {
	role  Role
	perms map[string]bool
}

func ForRole(role Role) RoleChecker {
	perms, ok := rolePermissions[role]
	if !ok {
		role = RoleUser
		perms = rolePermissions[RoleUser]
	}

	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return RoleChecker{role: role, perms: set}
}

func (c RoleChecker) HasPermission(name string) bool {
	return c.perms[name]
}

func (c RoleChecker) HasRole(role Role) bool {
	return c.role == role
}
