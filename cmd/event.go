package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/frahmantamala/pos-management/internal/core/events"
	"github.com/frahmantamala/pos-management/internal/item"
	itemPostgres "github.com/frahmantamala/pos-management/internal/item/postgres"
	"github.com/frahmantamala/pos-management/internal/transaction"
	transactionPostgres "github.com/frahmantamala/pos-management/internal/transaction/postgres"
	"github.com/frahmantamala/pos-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect and re-run the handlers attached to domain events`,
}

var replayEventCmd = &cobra.Command{
	Use:   "replay [transaction-id]",
	Short: "Publish transaction.created again for a stored transaction",
	Long:  `Load a transaction and run the inventory handlers for it, e.g. to re-check low stock after a restock`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		return replayTransactionEvent(cmd.Context(), id)
	},
}

func replayTransactionEvent(ctx context.Context, transactionID int64) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Configure(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus(lg)
	item.NewEventHandler(itemPostgres.NewItemRepository(gormDB), cfg.Inventory.LowStockThreshold, lg).
		RegisterEventHandlers(eventBus)

	svc := transaction.NewService(transactionPostgres.NewTransactionRepository(gormDB), syncPublisher{eventBus}, lg, transaction.Options{})
	if err := svc.ReplayCreated(ctx, transactionID); err != nil {
		return fmt.Errorf("replay transaction %d: %w", transactionID, err)
	}

	lg.Info("transaction event replayed", "transaction_id", transactionID)
	return nil
}

// syncPublisher runs handlers before the command exits.
type syncPublisher struct {
	bus *events.EventBus
}

func (p syncPublisher) Publish(ctx context.Context, event events.Event) error {
	return p.bus.PublishSync(ctx, event)
}

func init() {
	eventCmd.AddCommand(replayEventCmd)
	rootCmd.AddCommand(eventCmd)
}
