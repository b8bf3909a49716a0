package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/pos-management/internal/auth"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed tenants, roles, permissions, users and items for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if err := seed(cmd.Context(), db, cfg.Security.BCryptCost, clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Println("Database seeded successfully")
	},
}

type seedUser struct {
	Username string
	Password string
	Tenant   string
	Role     string
}

var (
	seedTenants = []string{"Main Store", "Downtown Branch"}

	seedRolePermissions = map[string][]string{
		"Admin":   {auth.PermReadItem, auth.PermCreateItem, auth.PermUpdateItem, auth.PermDeleteItem},
		"Manager": {auth.PermReadItem, auth.PermCreateItem, auth.PermUpdateItem},
		"Cashier": {auth.PermReadItem},
	}

	seedUsers = []seedUser{
		{"admin", "admin123", "Main Store", "Admin"},
		{"manager", "manager123", "Main Store", "Manager"},
		{"cashier1", "cashier123", "Main Store", "Cashier"},
		{"cashier2", "cashier123", "Downtown Branch", "Cashier"},
	}

	seedItems = []struct {
		Name     string
		Category string
		Quantity int
		Price    float64
	}{
		{"Pen", "Stationery", 100, 1.50},
		{"Notebook", "Stationery", 50, 3.25},
		{"Stapler", "Office", 20, 7.99},
		{"Coffee Beans 1kg", "Pantry", 15, 18.00},
		{"USB Cable", "Electronics", 4, 5.49},
	}
)

const clearSeedData = `TRUNCATE "TransactionDetails", "TransactionMaster", "Items",
	"RolePermissions", "UserRoles", "Users", "Permissions", "Roles", "Tenants" RESTART IDENTITY CASCADE`

func seed(ctx context.Context, db *sqlx.DB, bcryptCost int, clear bool) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if clear {
		if _, err := tx.ExecContext(ctx, clearSeedData); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
		fmt.Println("Cleared existing data")
	}

	tenantIDs := make(map[string]int64, len(seedTenants))
	for _, name := range seedTenants {
		var id int64
		err := tx.GetContext(ctx, &id, `INSERT INTO "Tenants" ("TenantName") VALUES ($1)
			ON CONFLICT ("TenantName") DO UPDATE SET "TenantName" = EXCLUDED."TenantName"
			RETURNING "TenantID"`, name)
		if err != nil {
			return fmt.Errorf("seed tenant %s: %w", name, err)
		}
		tenantIDs[name] = id
	}

	permissionIDs := make(map[string]int64)
	for _, perm := range []string{auth.PermReadItem, auth.PermCreateItem, auth.PermUpdateItem, auth.PermDeleteItem} {
		var id int64
		err := tx.GetContext(ctx, &id, `INSERT INTO "Permissions" ("PermissionName") VALUES ($1)
			ON CONFLICT ("PermissionName") DO UPDATE SET "PermissionName" = EXCLUDED."PermissionName"
			RETURNING "PermissionID"`, perm)
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", perm, err)
		}
		permissionIDs[perm] = id
	}

	roleIDs := make(map[string]int64, len(seedRolePermissions))
	for role, perms := range seedRolePermissions {
		var id int64
		err := tx.GetContext(ctx, &id, `INSERT INTO "Roles" ("RoleName") VALUES ($1)
			ON CONFLICT ("RoleName") DO UPDATE SET "RoleName" = EXCLUDED."RoleName"
			RETURNING "RoleID"`, role)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
		roleIDs[role] = id

		for _, perm := range perms {
			if _, err := tx.ExecContext(ctx, `INSERT INTO "RolePermissions" ("RoleID", "PermissionID") VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, id, permissionIDs[perm]); err != nil {
				return fmt.Errorf("grant %s to %s: %w", perm, role, err)
			}
		}
	}

	for _, u := range seedUsers {
		hash, err := auth.HashPassword(u.Password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Username, err)
		}

		var id int64
		err = tx.GetContext(ctx, &id, `INSERT INTO "Users" ("Username", "PasswordHash", "TenantID") VALUES ($1, $2, $3)
			ON CONFLICT ("Username") DO UPDATE SET "TenantID" = EXCLUDED."TenantID"
			RETURNING "UserID"`, u.Username, hash, tenantIDs[u.Tenant])
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO "UserRoles" ("UserID", "RoleID") VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, id, roleIDs[u.Role]); err != nil {
			return fmt.Errorf("assign %s to %s: %w", u.Role, u.Username, err)
		}
		fmt.Printf("Seeded user %s (%s, %s)\n", u.Username, u.Role, u.Tenant)
	}

	for _, it := range seedItems {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM "Items" WHERE "ItemName" = $1`, it.Name)
		if err != nil {
			return fmt.Errorf("check item %s: %w", it.Name, err)
		}
		if exists > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO "Items" ("ItemName", "Category", "Quantity", "Price", "TenantID")
			VALUES ($1, $2, $3, $4, $5)`, it.Name, it.Category, it.Quantity, it.Price, tenantIDs["Main Store"]); err != nil {
			return fmt.Errorf("seed item %s: %w", it.Name, err)
		}
		fmt.Printf("Seeded item: %s\n", it.Name)
	}

	return tx.Commit()
}
