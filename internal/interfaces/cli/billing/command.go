package billing

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subledger-inc/subledger/internal/application/subscription/usecases"
	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/infrastructure/config"
	"github.com/subledger-inc/subledger/internal/infrastructure/database"
	"github.com/subledger-inc/subledger/internal/infrastructure/repository"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Billing and revenue tools",
		Long:  `One-shot billing operations: run a billing sweep, list due subscriptions, or print the MRR report.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newRunCommand(),
		newDueCommand(),
		newMRRCommand(),
	)

	return cmd
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Bill every due subscription",
		Long:  `Run a single billing sweep: every active subscription whose next charge date has arrived is billed and its schedule advanced.`,
		RunE:  runSweep,
	}
}

func newDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List subscriptions due for billing",
		RunE:  runDue,
	}
}

func newMRRCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mrr",
		Short: "Print the monthly recurring revenue report",
		RunE:  runMRR,
	}
}

type cliEnv struct {
	repo       subscription.SubscriptionRepository
	dispatcher *events.InMemoryEventDispatcher
	clock      biztime.Clock
	log        logger.Interface
}

func initEnv() (*cliEnv, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	dispatcher := events.NewInMemoryEventDispatcher(100)
	if err := dispatcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start event dispatcher: %w", err)
	}

	log := logger.NewLogger()

	return &cliEnv{
		repo:       repository.NewSubscriptionRepository(database.Get(), log),
		dispatcher: dispatcher,
		clock:      biztime.SystemClock{},
		log:        log,
	}, nil
}

func (e *cliEnv) close() {
	if err := e.dispatcher.Stop(); err != nil {
		e.log.Warnw("event dispatcher stop failed", "error", err)
	}
	database.Close()
	logger.Sync()
}

func runSweep(cmd *cobra.Command, args []string) error {
	e, err := initEnv()
	if err != nil {
		return err
	}
	defer e.close()

	uc := usecases.NewProcessBillingUseCase(e.repo, e.dispatcher, e.clock, e.log)

	report, err := uc.RunSweep(context.Background())
	if err != nil {
		return fmt.Errorf("billing sweep failed: %w", err)
	}

	fmt.Printf("\nBilling Sweep Report (%s)\n", report.RunAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Due:    %d\n", report.DueCount)
	fmt.Printf("  Billed: %d\n", len(report.Billed))
	fmt.Printf("  Failed: %d\n", len(report.Failed))
	for _, f := range report.Failed {
		fmt.Printf("    %s (%s): %s\n", f.SubscriptionID, f.CustomerRef, f.Reason)
	}

	return nil
}

func runDue(cmd *cobra.Command, args []string) error {
	e, err := initEnv()
	if err != nil {
		return err
	}
	defer e.close()

	uc := usecases.NewListDueSubscriptionsUseCase(e.repo, e.clock, e.log)

	due, err := uc.Execute(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list due subscriptions: %w", err)
	}

	if len(due) == 0 {
		fmt.Println("No subscriptions due for billing.")
		return nil
	}

	fmt.Printf("\n%d subscription(s) due for billing:\n", len(due))
	for _, sub := range due {
		next := ""
		if sub.NextChargeDate != nil {
			next = biztime.FormatDate(*sub.NextChargeDate)
		}
		fmt.Printf("  %s  %-20s %-16s %s %s  next: %s\n",
			sub.ID, sub.CustomerRef, sub.Plan, sub.Amount, sub.Cadence, next)
	}

	return nil
}

func runMRR(cmd *cobra.Command, args []string) error {
	e, err := initEnv()
	if err != nil {
		return err
	}
	defer e.close()

	uc := usecases.NewCalculateMRRUseCase(e.repo, e.clock, e.log)

	report, err := uc.Execute(context.Background())
	if err != nil {
		return fmt.Errorf("failed to calculate MRR: %w", err)
	}

	fmt.Printf("\nMonthly Recurring Revenue\n")
	fmt.Printf("  Total:         %s\n", report.Total)
	fmt.Printf("  Active count:  %d\n", report.ActiveCount)
	for cadence, amount := range report.ByCadence {
		fmt.Printf("  %-14s %s\n", cadence+":", amount)
	}

	return nil
}
