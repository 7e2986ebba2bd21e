package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/restocktime/nfl-ncaa-analytics/internal/picks"
)

// Notifier delivers operator-facing alerts
type Notifier interface {
	GoldmineAlert(ctx context.Context, props []picks.Prop) error
	PollFailure(ctx context.Context, sport string, consecutive int, err error) error
	PollRecovered(ctx context.Context, sport string) error
}

// SlackNotifier posts alerts to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
	logger     *slog.Logger
}

// NewSlackNotifier creates a Slack notifier
func NewSlackNotifier(webhookURL string, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		logger:     logger.With("component", "slack_notifier"),
	}
}

// GoldmineAlert posts the current goldmine slate
func (n *SlackNotifier) GoldmineAlert(ctx context.Context, props []picks.Prop) error {
	if len(props) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":moneybag: Goldmine scan found %d props\n", len(props))
	for _, prop := range props {
		fmt.Fprintf(&b, "• %s (%s, %s) %s %.1f | projected %.1f, edge +%.1f [%s]\n",
			prop.PlayerName, prop.TeamAbbr, prop.Position,
			prop.StatType, prop.Line, prop.Projection, prop.Edge, prop.Tier)
	}

	return n.post(ctx, b.String())
}

// PollFailure escalates consecutive live-poll failures
func (n *SlackNotifier) PollFailure(ctx context.Context, sport string, consecutive int, err error) error {
	msg := fmt.Sprintf(":rotating_light: Live polling for %s has failed %d times in a row, serving cached/fallback data. Last error: %v",
		sport, consecutive, err)
	return n.post(ctx, msg)
}

// PollRecovered announces recovery after an escalated failure
func (n *SlackNotifier) PollRecovered(ctx context.Context, sport string) error {
	return n.post(ctx, fmt.Sprintf(":white_check_mark: Live polling for %s recovered", sport))
}

func (n *SlackNotifier) post(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		n.logger.Error("slack webhook post failed", "error", err)
		return fmt.Errorf("posting slack webhook: %w", err)
	}
	return nil
}

// NopNotifier drops all alerts. Used when no webhook is configured.
type NopNotifier struct{}

func (NopNotifier) GoldmineAlert(ctx context.Context, props []picks.Prop) error { return nil }

func (NopNotifier) PollFailure(ctx context.Context, sport string, consecutive int, err error) error {
	return nil
}

func (NopNotifier) PollRecovered(ctx context.Context, sport string) error { return nil }
