package cmd

import (
	"fmt"

	"github.com/frahmantamala/pos-management/internal/auth"
	authPostgres "github.com/frahmantamala/pos-management/internal/auth/postgres"
	"github.com/frahmantamala/pos-management/pkg/logger"
	"github.com/spf13/cobra"
)

var migratePasswordsCmd = &cobra.Command{
	Use:   "migrate-passwords",
	Short: "Rehash plaintext passwords with bcrypt",
	Long:  `Replace every stored password that is not a bcrypt hash with its bcrypt hash. Already hashed rows are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := authService()
		if err != nil {
			return err
		}
		defer closeDB()

		n, err := svc.MigratePasswords(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("migrated %d password(s)\n", n)
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd [username] [password]",
	Short: "Set a user's password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := authService()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := svc.SetPassword(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("set password for %s: %w", args[0], err)
		}
		fmt.Printf("password updated for %s\n", args[0])
		return nil
	},
}

func authService() (*auth.Service, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Configure(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	svc := auth.NewService(authPostgres.NewRepository(db), logger.LoggerWrapper(), cfg.Security.BCryptCost)
	return svc, func() { _ = db.Close() }, nil
}
