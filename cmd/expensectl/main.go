package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"expense-ledger-go/internal/common"
	"expense-ledger-go/internal/config"
	"expense-ledger-go/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg           *models.Config
	services      *common.Services
	loggerCleanup = func() {}

	rootCmd = &cobra.Command{
		Use:   "expensectl",
		Short: "Log expenses and query the expense ledger",
		Long: `expensectl drives the expense ledger from the command line: register
users, log expenses with AI category suggestions, and read summaries,
recent listings and reports.`,
		SilenceUsage:      true,
		PersistentPreRunE: initServices,
	}
)

func init() {
	rootCmd.AddCommand(addUserCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(recentCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(feedbackCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		zap.L().Info("Received interrupt signal, shutting down")
		cancel()
	}()

	err := execute(ctx, os.Args[1:])
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs one command and releases the database and logger whether or
// not the command succeeded. Cobra skips post-run hooks after an error.
func execute(ctx context.Context, args []string) error {
	defer shutdown()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func shutdown() {
	if services != nil {
		services.Close()
		services = nil
	}
	loggerCleanup()
	loggerCleanup = func() {}
}

func initServices(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	_, loggerCleanup = common.InitializeLogger()

	services, err = common.InitializeServices(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return nil
}
