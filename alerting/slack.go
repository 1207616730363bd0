package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nanzhong/neotest"
	"github.com/nlopes/slack"
)

const maxSlackFailures = 10

type slackOptions struct {
	username string
}

type SlackOption func(*slackOptions)

func WithSlackUsername(username string) SlackOption {
	return func(opts *slackOptions) {
		opts.username = username
	}
}

type SlackAlerter struct {
	username   string
	webhookURL string
}

var _ Alerter = (*SlackAlerter)(nil)

func NewSlackAlerter(webhookURL string, opts ...SlackOption) *SlackAlerter {
	defOpts := &slackOptions{
		username: "neotest",
	}

	for _, opt := range opts {
		opt(defOpts)
	}

	return &SlackAlerter{
		username:   defOpts.username,
		webhookURL: webhookURL,
	}
}

func (a *SlackAlerter) Fire(ctx context.Context, alert *Alert) error {
	report := alert.Report
	failed := report.Failed()
	counts := report.Counts()

	name := report.Name
	if name == "" {
		name = report.ID.String()
	}

	err := slack.PostWebhook(a.webhookURL, &slack.WebhookMessage{
		Username: a.username,
		Attachments: []slack.Attachment{
			{
				Color:     "#ff005f",
				Fallback:  fmt.Sprintf("%s with ID %s failed (%d of %d).\n%s", name, report.ID, len(failed), report.Results.Len(), alert.URL),
				Title:     name,
				TitleLink: alert.URL,
				Text:      slackFailures(failed),
				Fields: []slack.AttachmentField{
					{
						Title: "Report ID",
						Value: report.ID.String(),
						Short: true,
					},
					{
						Title: "Failed",
						Value: fmt.Sprintf("%d of %d", counts[neotest.StatusFailed], report.Results.Len()),
						Short: true,
					},
				},

				Footer:     "neotest",
				FooterIcon: "",
				Ts:         json.Number(strconv.FormatInt(report.CreatedAt.Unix(), 10)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("firing slack alert: %w", err)
	}
	return nil
}

func slackFailures(failed []string) string {
	var b strings.Builder
	for i, id := range failed {
		if i == maxSlackFailures {
			fmt.Fprintf(&b, "… and %d more\n", len(failed)-maxSlackFailures)
			break
		}
		fmt.Fprintf(&b, "• `%s`\n", id)
	}
	return b.String()
}
