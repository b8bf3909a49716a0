package user

// Rows of the identity tables. Table and column names are the fixed schema contract.

type Tenant struct {
	TenantID   int64  `gorm:"column:TenantID;primaryKey;autoIncrement"`
	TenantName string `gorm:"column:TenantName;not null"`
}

func (Tenant) TableName() string { return "Tenants" }

type User struct {
	UserID       int64  `gorm:"column:UserID;primaryKey;autoIncrement" db:"UserID"`
	Username     string `gorm:"column:Username;uniqueIndex;not null" db:"Username"`
	PasswordHash string `gorm:"column:PasswordHash;not null" db:"PasswordHash"`
	TenantID     int64  `gorm:"column:TenantID;not null" db:"TenantID"`
}

func (User) TableName() string { return "Users" }

type Role struct {
	RoleID   int64  `gorm:"column:RoleID;primaryKey;autoIncrement"`
	RoleName string `gorm:"column:RoleName;uniqueIndex;not null"`
}

func (Role) TableName() string { return "Roles" }

type Permission struct {
	PermissionID   int64  `gorm:"column:PermissionID;primaryKey;autoIncrement"`
	PermissionName string `gorm:"column:PermissionName;uniqueIndex;not null"`
}

func (Permission) TableName() string { return "Permissions" }

type UserRole struct {
	UserID int64 `gorm:"column:UserID;primaryKey"`
	RoleID int64 `gorm:"column:RoleID;primaryKey"`
}

func (UserRole) TableName() string { return "UserRoles" }

type RolePermission struct {
	RoleID       int64 `gorm:"column:RoleID;primaryKey"`
	PermissionID int64 `gorm:"column:PermissionID;primaryKey"`
}

func (RolePermission) TableName() string { return "RolePermissions" }

// UserWithTenant is the login lookup row.
type UserWithTenant struct {
	UserID       int64  `db:"UserID"`
	Username     string `db:"Username"`
	PasswordHash string `db:"PasswordHash"`
	TenantID     int64  `db:"TenantID"`
	TenantName   string `db:"TenantName"`
}
