// Package notification provides implementations for the signal
// notification channel
package notification

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"slices"

	"github.com/jpillora/backoff"
	"github.com/raykavin/signalcast/core"
	"github.com/raykavin/signalcast/preference"
	"github.com/raykavin/signalcast/profit"
	"github.com/raykavin/signalcast/source"
	"github.com/raykavin/signalcast/track"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Constants and regex patterns
const (
	pollingTimeout  = 10 * time.Second
	maxSendAttempts = 3
)

var (
	profitRegexp = regexp.MustCompile(`/profit\s+(?P<amount>\d+(?:\.\d+)?)`)
	goalRegexp   = regexp.MustCompile(`/addprofit\s+(?P<amount>\d+(?:\.\d+)?)`)
)

// Inline buttons attached to dispatched signals and settings menus. The
// Unique values route callbacks back to their handlers.
var (
	btnConfirm      = tb.InlineButton{Unique: "sig_confirm", Text: "✅ Confirm"}
	btnIgnore       = tb.InlineButton{Unique: "sig_ignore", Text: "❌ Ignore"}
	btnToggleMarket = tb.InlineButton{Unique: "toggle_market"}
)

// SignalSubmitter accepts a signal for validation and fan-out. The bot
// implements it; the admin simulation commands feed it.
type SignalSubmitter interface {
	Submit(ctx context.Context, signal core.Signal) ([]*core.DispatchRecord, []*core.DeliveryError, error)
}

// Telegram implements core.NotifierWithStart and the core.Alerter side
// channel over the Telegram Bot API
type Telegram struct {
	settings  *core.Settings
	client    *tb.Bot
	menu      *tb.ReplyMarkup
	prefs     *preference.Store
	tracker   *track.Tracker
	ledger    *profit.Ledger
	submitter SignalSubmitter
	log       core.Logger
}

// Option is a function that configures a telegram instance
type Option func(telegram *Telegram)

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(
	settings *core.Settings,
	prefs *preference.Store,
	tracker *track.Tracker,
	ledger *profit.Ledger,
	log core.Logger,
	options ...Option,
) (*Telegram, error) {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: pollingTimeout}
	userMiddleware := newAuthMiddleware(poller, settings, log)

	client, err := tb.NewBot(tb.Settings{
		Token:  settings.Telegram.Token,
		Poller: userMiddleware,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	setupKeyboard(menu)
	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &Telegram{
		settings: settings,
		client:   client,
		menu:     menu,
		prefs:    prefs,
		tracker:  tracker,
		ledger:   ledger,
		log:      log,
	}

	// Apply custom options if provided
	for _, option := range options {
		option(bot)
	}

	registerHandlers(client, bot)

	return bot, nil
}

// SetSubmitter wires the admin simulation commands to the bot's ingestion
func (t *Telegram) SetSubmitter(submitter SignalSubmitter) {
	t.submitter = submitter
}

// newAuthMiddleware creates a middleware to validate authorized users
func newAuthMiddleware(poller *tb.LongPoller, settings *core.Settings, log core.Logger) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		sender := updateSender(u)
		if sender == nil {
			log.Error("update has no sender ", u)
			return false
		}

		if slices.Contains(settings.Telegram.Users, sender.ID) {
			return true
		}

		log.Error("unauthorized user ", sender.ID)
		return false
	})
}

// updateSender extracts the sender from either a message or a callback
func updateSender(u *tb.Update) *tb.User {
	if u.Message != nil {
		return u.Message.Sender
	}
	if u.Callback != nil {
		return u.Callback.Sender
	}
	return nil
}

// setupKeyboard configures the reply keyboard layout
func setupKeyboard(menu *tb.ReplyMarkup) {
	var (
		marketsBtn = menu.Text("/markets")
		pendingBtn = menu.Text("/pending")
		profitsBtn = menu.Text("/profits")
		goalBtn    = menu.Text("/goal")
	)

	menu.Reply(
		menu.Row(marketsBtn, pendingBtn),
		menu.Row(profitsBtn, goalBtn),
	)
}

// setupCommands configures available bot commands
func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "/help", Description: "Display help instructions"},
		{Text: "/markets", Description: "Toggle market visibility"},
		{Text: "/strategyfilter", Description: "Toggle the strategy filter"},
		{Text: "/compliancefilter", Description: "Toggle the compliance filter"},
		{Text: "/pending", Description: "List signals awaiting your response"},
		{Text: "/profit", Description: "Log a profit amount"},
		{Text: "/profits", Description: "Show your total logged profits"},
		{Text: "/goal", Description: "Show your profit goal and progress"},
		{Text: "/addprofit", Description: "Set your profit goal"},
	})
}

// registerHandlers registers all command and callback handlers
func registerHandlers(client *tb.Bot, bot *Telegram) {
	client.Handle("/start", bot.StartHandle)
	client.Handle("/help", bot.HelpHandle)
	client.Handle("/markets", bot.MarketsHandle)
	client.Handle("/strategyfilter", bot.StrategyFilterHandle)
	client.Handle("/compliancefilter", bot.ComplianceFilterHandle)
	client.Handle("/pending", bot.PendingHandle)
	client.Handle("/profit", bot.ProfitLogHandle)
	client.Handle("/profits", bot.ProfitsHandle)
	client.Handle("/goal", bot.GoalHandle)
	client.Handle("/addprofit", bot.AddGoalHandle)

	// Admin-only signal simulation, one command per market
	client.Handle("/forex", bot.simulateHandle(core.MarketForex))
	client.Handle("/crypto", bot.simulateHandle(core.MarketCrypto))
	client.Handle("/stocks", bot.simulateHandle(core.MarketStocks))
	client.Handle("/memecoins", bot.simulateHandle(core.MarketMemecoins))
	client.Handle("/prediction", bot.simulateHandle(core.MarketPrediction))

	client.Handle(&btnConfirm, bot.confirmCallback)
	client.Handle(&btnIgnore, bot.ignoreCallback)
	client.Handle(&btnToggleMarket, bot.toggleMarketCallback)
}

// Start begins the Telegram bot and notifies all authorized users
func (t *Telegram) Start() {
	go t.client.Start()
	t.sendMessageWithOptions("Bot initialized.", t.menu)
}

// Notification methods
// -------------------

// Send implements core.Notifier. The rendered actions become inline
// buttons; their callbacks later reach the acknowledgement tracker.
func (t *Telegram) Send(_ context.Context, recipientID int64, message core.RenderedMessage) error {
	confirm := btnConfirm
	confirm.Data = encodeConfirmData(message.Actions[0])

	ignore := btnIgnore
	ignore.Data = strconv.FormatInt(message.Actions[1].SignalID, 10)

	markup := &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{{confirm, ignore}},
	}

	retry := &backoff.Backoff{Min: 100 * time.Millisecond, Max: 2 * time.Second, Factor: 2}

	var err error
	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(retry.Duration())
		}
		_, err = t.client.Send(&tb.User{ID: recipientID}, message.Text, markup)
		if err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to send signal message: %w", err)
}

// Notify sends a message to all authorized users
func (t *Telegram) Notify(text string) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: user}, text)
		if err != nil {
			t.log.WithError(err).Error("failed to send notification")
		}
	}
}

// OnError notifies users about errors
func (t *Telegram) OnError(err error) {
	var sb strings.Builder
	sb.WriteString("🛑 ERROR\n")

	var deliveryError *core.DeliveryError
	if errors.As(err, &deliveryError) {
		sb.WriteString("-----\n")
		fmt.Fprintf(&sb, "Signal: %d\n", deliveryError.SignalID)
		fmt.Fprintf(&sb, "Subscriber: %d\n", deliveryError.RecipientID)
		sb.WriteString("-----\n")
		sb.WriteString(deliveryError.Err.Error())
		t.Notify(sb.String())
		return
	}

	sb.WriteString("-----\n")
	sb.WriteString(err.Error())

	t.Notify(sb.String())
}

// Alert implements the best-effort core.Alerter side channel. Failures are
// logged and swallowed; an alert can never affect a dispatch.
func (t *Telegram) Alert(recipientID int64, kind core.AlertKind) {
	text := alertText(kind)
	if text == "" {
		return
	}

	if _, err := t.client.Send(&tb.User{ID: recipientID}, text); err != nil {
		t.log.WithError(err).Warn("failed to send alert")
	}
}

// alertText mirrors the short spoken-alert phrases of the voice channel
func alertText(kind core.AlertKind) string {
	switch kind {
	case core.AlertSignal:
		return "🔔 New signal detected."
	case core.AlertProfit:
		return "💰 Profit logged."
	}
	return ""
}

// sendMessageWithOptions sends a message to all authorized users with additional options
func (t *Telegram) sendMessageWithOptions(text string, options ...any) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: user}, text, options...)
		if err != nil {
			t.log.WithError(err).Error("failed to send notification with options")
		}
	}
}

// sendMessage sends a message to a specific user
func (t *Telegram) sendMessage(to *tb.User, text string, options ...any) {
	_, err := t.client.Send(to, text, options...)
	if err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}

// Command handlers
// ---------------

// StartHandle greets the user and initializes their preferences
func (t *Telegram) StartHandle(m *tb.Message) {
	t.prefs.Get(m.Sender.ID)
	t.sendMessage(m.Sender,
		"Welcome! I forward trading signals filtered by your preferences.\nType /help to see available commands.",
		t.menu)
}

// HelpHandle displays available commands
func (t *Telegram) HelpHandle(m *tb.Message) {
	commands, err := t.client.GetCommands()
	if err != nil {
		t.log.WithError(err).Error("failed to get commands")
		t.OnError(err)
		return
	}

	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("%s - %s", command.Text, command.Description))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// MarketsHandle shows the market visibility settings with toggle buttons
func (t *Telegram) MarketsHandle(m *tb.Message) {
	prefs := t.prefs.Get(m.Sender.ID)

	var rows [][]tb.InlineButton
	for _, market := range core.Markets() {
		btn := btnToggleMarket
		btn.Text = fmt.Sprintf("Toggle %s", market)
		btn.Data = string(market)
		rows = append(rows, []tb.InlineButton{btn})
	}

	t.sendMessage(m.Sender, formatVisibility(prefs), &tb.ReplyMarkup{InlineKeyboard: rows})
}

// StrategyFilterHandle toggles the strategy filter and reports the new state
func (t *Telegram) StrategyFilterHandle(m *tb.Message) {
	enabled := t.prefs.ToggleStrategyFilter(m.Sender.ID)
	t.sendMessage(m.Sender, fmt.Sprintf(
		"Strategy filter is now %s. Only signals with liquidity, an order block, or a fair value gap will be sent.",
		onOff(enabled)))
}

// ComplianceFilterHandle toggles the compliance filter and reports the new state
func (t *Telegram) ComplianceFilterHandle(m *tb.Message) {
	enabled := t.prefs.ToggleComplianceFilter(m.Sender.ID)
	t.sendMessage(m.Sender, fmt.Sprintf(
		"Compliance filter for crypto/memecoin signals is now %s.", onOff(enabled)))
}

// PendingHandle lists the sender's pending dispatches, most recent first
func (t *Telegram) PendingHandle(m *tb.Message) {
	records, err := t.tracker.PendingFor(context.Background(), m.Sender.ID)
	if err != nil {
		t.OnError(err)
		return
	}

	if len(records) == 0 {
		t.sendMessage(m.Sender, "No signals awaiting your response.")
		return
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, fmt.Sprintf("#%d %s %s (%s)",
			record.ID, strings.ToUpper(string(record.Direction)), record.Symbol,
			record.CreatedAt.Format("2006-01-02 15:04")))
	}

	t.sendMessage(m.Sender, "Awaiting your response:\n"+strings.Join(lines, "\n"))
}

// ProfitLogHandle logs a profit amount for the sender (admins only)
func (t *Telegram) ProfitLogHandle(m *tb.Message) {
	if !t.settings.Telegram.IsAdmin(m.Sender.ID) {
		t.sendMessage(m.Sender, "You are not authorized to use this command.")
		return
	}

	match := profitRegexp.FindStringSubmatch(m.Text)
	if len(match) == 0 {
		t.sendMessage(m.Sender, "Invalid command.\nExample of usage:\n`/profit 100`")
		return
	}

	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		t.sendMessage(m.Sender, "Invalid amount")
		return
	}

	total := t.ledger.Log(m.Sender.ID, amount)
	t.sendMessage(m.Sender, fmt.Sprintf("Profit of $%.2f logged for today. Total profit: $%.2f", amount, total))
	t.Alert(m.Sender.ID, core.AlertProfit)
}

// ProfitsHandle shows the sender's total logged profits
func (t *Telegram) ProfitsHandle(m *tb.Message) {
	t.sendMessage(m.Sender, fmt.Sprintf("Your total logged profits: $%.2f", t.ledger.Total(m.Sender.ID)))
}

// GoalHandle shows the sender's profit goal and progress
func (t *Telegram) GoalHandle(m *tb.Message) {
	goal, ok := t.ledger.Goal(m.Sender.ID)
	if !ok {
		t.sendMessage(m.Sender, "You haven't set a profit goal yet. Use /addprofit to set one.")
		return
	}

	progress, _ := t.ledger.Progress(m.Sender.ID)
	t.sendMessage(m.Sender, fmt.Sprintf(
		"Your profit goal: $%.2f\nCurrent profit: $%.2f\nProgress: %.2f%%",
		goal, t.ledger.Total(m.Sender.ID), progress))
}

// AddGoalHandle sets the sender's profit goal
func (t *Telegram) AddGoalHandle(m *tb.Message) {
	match := goalRegexp.FindStringSubmatch(m.Text)
	if len(match) == 0 {
		t.sendMessage(m.Sender, "Invalid command.\nExample of usage:\n`/addprofit 500`")
		return
	}

	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		t.sendMessage(m.Sender, "Invalid amount")
		return
	}

	if err := t.ledger.SetGoal(m.Sender.ID, amount); err != nil {
		t.sendMessage(m.Sender, "Please enter a positive amount for your profit goal.")
		return
	}

	t.sendMessage(m.Sender, fmt.Sprintf("Your profit goal has been set to $%.2f.", amount))
}

// simulateHandle builds the admin-only handler submitting the canned
// signal of one market
func (t *Telegram) simulateHandle(market core.Market) func(m *tb.Message) {
	return func(m *tb.Message) {
		if !t.settings.Telegram.IsAdmin(m.Sender.ID) {
			t.sendMessage(m.Sender, "You are not authorized to use this command.")
			return
		}

		if t.submitter == nil {
			t.sendMessage(m.Sender, "Signal submission is not available.")
			return
		}

		signal, ok := source.Sample(market)
		if !ok {
			t.sendMessage(m.Sender, fmt.Sprintf("No sample signal for market %s.", market))
			return
		}

		records, failures, err := t.submitter.Submit(context.Background(), signal)
		if err != nil {
			t.OnError(err)
			return
		}

		t.log.Infof("simulated %s signal dispatched to %d subscribers, %d failures",
			market, len(records), len(failures))
	}
}

// Callback handlers
// ----------------

// confirmCallback records a confirm response and echoes the original
// symbol and direction back for audit
func (t *Telegram) confirmCallback(c *tb.Callback) {
	t.respondCallback(c, core.ResponseConfirm)
}

// ignoreCallback records an ignore response
func (t *Telegram) ignoreCallback(c *tb.Callback) {
	t.respondCallback(c, core.ResponseIgnore)
}

func (t *Telegram) respondCallback(c *tb.Callback, action core.ResponseAction) {
	defer func() {
		_ = t.client.Respond(c, &tb.CallbackResponse{})
	}()

	signalID, ok := decodeSignalID(c.Data)
	if !ok {
		t.log.Errorf("malformed callback data %q", c.Data)
		return
	}

	ctx := context.Background()
	record, err := t.tracker.RecordFor(ctx, c.Sender.ID, signalID)
	if err != nil {
		// Unknown records are logged and dropped, never propagated
		t.log.WithError(err).Warnf("response for unknown signal %d from %d", signalID, c.Sender.ID)
		return
	}

	previous, current, err := t.tracker.RecordResponse(ctx, record.ID, action)
	if err != nil {
		t.log.WithError(err).Error("failed to record response")
		return
	}

	// Duplicate presses report the terminal state they hit first
	if previous == current {
		t.sendMessage(c.Sender, fmt.Sprintf("Already %s.", current))
		return
	}

	switch current {
	case core.DispatchStatusConfirmed:
		t.editCallbackMessage(c, fmt.Sprintf("✅ You confirmed %s for %s. (Action recorded)",
			strings.ToUpper(string(record.Direction)), record.Symbol))
	case core.DispatchStatusIgnored:
		t.editCallbackMessage(c, "❌ Signal ignored.")
	}
}

// toggleMarketCallback flips one market's visibility for the sender
func (t *Telegram) toggleMarketCallback(c *tb.Callback) {
	defer func() {
		_ = t.client.Respond(c, &tb.CallbackResponse{})
	}()

	market := core.Market(strings.TrimSpace(c.Data))
	if !market.Valid() {
		t.log.Errorf("toggle for unknown market %q", c.Data)
		return
	}

	visible := t.prefs.ToggleMarketVisible(c.Sender.ID, market)
	status := "hidden"
	if visible {
		status = "visible"
	}

	t.editCallbackMessage(c, fmt.Sprintf("%s signals are now %s.\n\n%s",
		market, status, formatVisibility(t.prefs.Get(c.Sender.ID))))
}

func (t *Telegram) editCallbackMessage(c *tb.Callback, text string) {
	if _, err := t.client.Edit(c.Message, text); err != nil {
		t.log.WithError(err).Error("failed to edit message")
	}
}

// Helper methods
// -------------

// encodeConfirmData packs the confirm action payload into callback data
func encodeConfirmData(action core.Action) string {
	return fmt.Sprintf("%d|%s|%s", action.SignalID, action.Symbol, action.Direction)
}

// decodeSignalID extracts the signal ID from either callback payload form
func decodeSignalID(data string) (int64, bool) {
	raw := data
	if i := strings.Index(data, "|"); i >= 0 {
		raw = data[:i]
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// formatVisibility renders the market visibility summary
func formatVisibility(prefs core.Preferences) string {
	var sb strings.Builder
	sb.WriteString("Current market visibility:\n")

	for _, market := range core.Markets() {
		state := "❌ Hidden"
		if prefs.MarketVisible(market) {
			state = "✅ Visible"
		}
		fmt.Fprintf(&sb, "%s: %s\n", market, state)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
