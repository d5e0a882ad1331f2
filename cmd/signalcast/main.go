package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/signalcast"
	"github.com/raykavin/signalcast/core"
	"github.com/raykavin/signalcast/notification"
	"github.com/raykavin/signalcast/source"
	"github.com/raykavin/signalcast/storage"
	"github.com/spf13/cobra"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Environment variable names
const (
	envTelegramToken  = "SIGNALCAST_TELEGRAM_TOKEN"
	envTelegramUsers  = "SIGNALCAST_TELEGRAM_USERS"
	envTelegramAdmins = "SIGNALCAST_TELEGRAM_ADMINS"
)

// Command line flags
var (
	// Run command flags
	databaseFile   string
	reportInterval string
	feedInterval   string

	// Simulate command flags
	subscribers []int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "signalcast",
		Short:   "Trading signal dispatch and acknowledgement bot",
		Version: "1.0.0",
	}

	rootCmd.AddCommand(buildRunCmd())
	rootCmd.AddCommand(buildSimulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Telegram bot",
		RunE:  runBot,
	}

	runCmd.Flags().StringVarP(&databaseFile, "db", "d", "signalcast.db", "Dispatch record database file")
	runCmd.Flags().StringVarP(&reportInterval, "report-interval", "r", "24h", "Profit summary interval (e.g. 24h, 30m)")
	runCmd.Flags().StringVarP(&feedInterval, "feed-interval", "f", "", "Emit a simulated signal every interval (disabled when empty)")

	return runCmd
}

func runBot(cmd *cobra.Command, args []string) error {
	settings, err := settingsFromEnv()
	if err != nil {
		return err
	}

	interval, err := str2duration.ParseDuration(reportInterval)
	if err != nil {
		return fmt.Errorf("invalid report interval: %w", err)
	}
	settings.Report = core.ReportSettings{Enabled: true, Interval: interval}

	store, err := storage.FromFile(databaseFile, signalcast.DefaultLog)
	if err != nil {
		return err
	}

	options := []signalcast.Option{
		signalcast.WithStorage(store),
	}

	if feedInterval != "" {
		every, err := str2duration.ParseDuration(feedInterval)
		if err != nil {
			return fmt.Errorf("invalid feed interval: %w", err)
		}
		options = append(options, signalcast.WithSignalSource(source.NewSimulated(every, signalcast.DefaultLog)))
	}

	bot, err := signalcast.NewBot(settings, options...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return bot.Run(ctx)
}

func buildSimulateCmd() *cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Fan out the sample signals in memory and print the dispatch ledger",
		RunE:  runSimulate,
	}

	simulateCmd.Flags().Int64SliceVarP(&subscribers, "subscribers", "s", []int64{1, 2}, "Subscriber IDs to fan out to")

	return simulateCmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	store, err := storage.FromMemory(signalcast.DefaultLog)
	if err != nil {
		return err
	}

	settings := &core.Settings{Subscribers: subscribers}

	bot, err := signalcast.NewBot(settings,
		signalcast.WithStorage(store),
		signalcast.WithNotifier(notification.NewConsole(os.Stdout)),
	)
	if err != nil {
		return err
	}

	var records []*core.DispatchRecord
	for _, market := range core.Markets() {
		sample, ok := source.Sample(market)
		if !ok {
			continue
		}

		created, failures, err := bot.Submit(cmd.Context(), sample)
		if err != nil {
			return err
		}
		for _, failure := range failures {
			fmt.Fprintln(os.Stderr, failure)
		}
		records = append(records, created...)
	}

	printRecords(records)
	return nil
}

// printRecords renders the dispatch ledger as a table
func printRecords(records []*core.DispatchRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Record", "Signal", "Subscriber", "Symbol", "Direction", "Status"})

	for _, record := range records {
		table.Append([]string{
			strconv.FormatInt(record.ID, 10),
			strconv.FormatInt(record.SignalID, 10),
			strconv.FormatInt(record.RecipientID, 10),
			record.Symbol,
			string(record.Direction),
			string(record.Status),
		})
	}

	table.Render()
}

// settingsFromEnv builds the bot settings from environment variables
func settingsFromEnv() (*core.Settings, error) {
	token := os.Getenv(envTelegramToken)
	if token == "" {
		return nil, fmt.Errorf("%s is not set", envTelegramToken)
	}

	users, err := parseIDList(os.Getenv(envTelegramUsers))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envTelegramUsers, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%s is not set", envTelegramUsers)
	}

	admins, err := parseIDList(os.Getenv(envTelegramAdmins))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envTelegramAdmins, err)
	}

	return &core.Settings{
		Subscribers: users,
		Telegram: core.TelegramSettings{
			Enabled: true,
			Token:   token,
			Users:   users,
			Admins:  admins,
		},
	}, nil
}

// parseIDList parses a comma-separated list of numeric IDs
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
