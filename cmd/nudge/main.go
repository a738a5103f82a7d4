package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris/nudge/config"
	"github.com/chris/nudge/internal/app"
	"github.com/chris/nudge/internal/logger"
	"github.com/chris/nudge/internal/service"
)

var (
	sendTo     int64
	sendDryRun bool
	histLimit  int
)

var rootCmd = &cobra.Command{
	Use:           "nudge",
	Short:         "Personal Telegram bot: chat through an LLM and timezone-aware reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot (polling or webhook, per RUN_MODE)",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, _ []string) error {
		return a.Run(ctx)
	}),
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant from the terminal",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, _ []string) error {
		return a.Chat(ctx, os.Stdin, os.Stdout)
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the smoke-free status report",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, _ []string) error {
		return a.Stats(ctx, os.Stdout)
	}),
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List scheduled reminders and their next fire time",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, a *app.App, _ []string) error {
		return a.Jobs(os.Stdout)
	}),
}

var sendCmd = &cobra.Command{
	Use:       "send <smoking|water|medicine|french>",
	Short:     "Send one family's reminder now",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"smoking", "water", "medicine", "french"},
	RunE: withApp(func(ctx context.Context, a *app.App, args []string) error {
		return a.Send(ctx, args[0], sendTo, sendDryRun, os.Stdout)
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history [job-id]",
	Short: "Show the delivery log",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app.App, args []string) error {
		jobID := ""
		if len(args) == 1 {
			jobID = args[0]
		}
		return a.Deliveries(ctx, jobID, histLimit, os.Stdout)
	}),
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the background service (launchd on macOS, systemd --user elsewhere)",
}

func serviceAction(use, short string, fn func(*service.Manager) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return fn(service.New())
		},
	}
}

func init() {
	sendCmd.Flags().Int64Var(&sendTo, "to", 0, "Recipient chat id (defaults to the family's configured recipient)")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Print the message instead of sending it")
	historyCmd.Flags().IntVarP(&histLimit, "limit", "n", 20, "Number of rows to show")

	serviceCmd.AddCommand(
		serviceAction("install", "Install the binary and load the service", (*service.Manager).Install),
		serviceAction("uninstall", "Unload the service and remove the binary", (*service.Manager).Uninstall),
		serviceAction("start", "Start the service", (*service.Manager).Start),
		serviceAction("stop", "Stop the service", (*service.Manager).Stop),
		serviceAction("restart", "Restart the service", (*service.Manager).Restart),
		serviceAction("status", "Show service status", (*service.Manager).Status),
		serviceAction("logs", "Follow the service log", (*service.Manager).Logs),
	)
	rootCmd.AddCommand(runCmd, chatCmd, statsCmd, jobsCmd, sendCmd, historyCmd, serviceCmd)
}

// withApp loads config and the logger, builds the app and closes it after fn.
func withApp(fn func(ctx context.Context, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("logger init: %w", err)
		}
		defer func() { _ = log.Sync() }()

		a, err := app.New(cfg, log)
		if err != nil {
			log.Error("app init failed", zap.Error(err))
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, args)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
