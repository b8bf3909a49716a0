package identity

import "slices"

// Identity is the authenticated user snapshot taken at login. It is passed by value and
// never refreshed until the user logs in again.
type Identity struct {
	UserID      int64    `json:"userID"`
	Username    string   `json:"username"`
	TenantID    int64    `json:"tenantID"`
	TenantName  string   `json:"tenantName"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// New copies roles and permissions so callers cannot mutate the snapshot afterwards.
func New(userID int64, username string, tenantID int64, tenantName string, roles, permissions []string) Identity {
	return Identity{
		UserID:      userID,
		Username:    username,
		TenantID:    tenantID,
		TenantName:  tenantName,
		Roles:       append([]string{}, roles...),
		Permissions: append([]string{}, permissions...),
	}
}

func (i Identity) HasPermission(permission string) bool {
	return slices.Contains(i.Permissions, permission)
}
