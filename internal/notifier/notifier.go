// Package notifier delivers newly selected bets to subscribers.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/esports-edge/internal/models"
	"github.com/yourusername/esports-edge/internal/selector"
)

// FormatCandidate renders one bet as a chat message.
func FormatCandidate(c *models.BetCandidate) string {
	var b strings.Builder
	b.WriteString("New Bet Added!\n")
	fmt.Fprintf(&b, "Date: %s\n", c.Date)
	fmt.Fprintf(&b, "League: %s\n", c.League)
	fmt.Fprintf(&b, "Team 1: %s\n", c.T1)
	fmt.Fprintf(&b, "Team 2: %s\n\n", c.T2)
	fmt.Fprintf(&b, "TIP: %s - %s\n", c.Side, c.BetLine())
	fmt.Fprintf(&b, "ROI: %s\n", c.ROIString())
	fmt.Fprintf(&b, "Fair Odds: %s\n", c.FairOddsString())
	fmt.Fprintf(&b, "Odds: %s\n", c.OddsString())
	fmt.Fprintf(&b, "Betting House: %s", c.House)
	if c.URL != "" {
		fmt.Fprintf(&b, "\n%s", c.URL)
	}
	return b.String()
}

// LogNotifier writes new bets to the log instead of a chat.
type LogNotifier struct {
	logger *logrus.Entry
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithField("component", "notifier")}
}

// Name implements selector.Sink.
func (n *LogNotifier) Name() string {
	return "log"
}

// Publish logs every new bet, best ROI first.
func (n *LogNotifier) Publish(_ context.Context, result *selector.RunResult) error {
	for _, c := range result.Ranked() {
		n.logger.WithFields(logrus.Fields{
			"run_id":    result.RunID,
			"date":      c.Date,
			"t1":        c.T1,
			"t2":        c.T2,
			"bet_type":  string(c.Side),
			"bet_line":  c.BetLine(),
			"roi":       c.ROIString(),
			"fair_odds": c.FairOddsString(),
			"odds":      c.OddsString(),
			"house":     c.House,
		}).Info("New bet")
	}
	return nil
}
