package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	redis "github.com/go-redis/redis/v7"
	"github.com/nanzhong/neotest"
	"github.com/nanzhong/neotest/alerting"
	"github.com/nanzhong/neotest/output"
	"github.com/nanzhong/neotest/reporter"
	"github.com/nanzhong/neotest/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "report results for an event stream",
	Long:  "report reads an event stream from a file, stdin or a redis list and writes the flattened results",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runReport(ctx, cfg, cmd.InOrStdin())
	},
}

func init() {
	reportCmd.Flags().String("name", "", "The name recorded on the report")
	viper.BindPFlag("name", reportCmd.Flags().Lookup("name"))
	reportCmd.Flags().StringP("input", "i", "-", "The file to read events from, - for stdin")
	viper.BindPFlag("input", reportCmd.Flags().Lookup("input"))
	reportCmd.Flags().StringP("output", "o", "", "The file to write results to, stdout if empty")
	viper.BindPFlag("output", reportCmd.Flags().Lookup("output"))
	reportCmd.Flags().StringP("format", "f", string(output.FormatJSON), "The output format (json, yaml, table)")
	viper.BindPFlag("format", reportCmd.Flags().Lookup("format"))

	reportCmd.Flags().String("redis-addr", "", "The redis address to read events from instead of --input")
	viper.BindPFlag("redis-addr", reportCmd.Flags().Lookup("redis-addr"))
	reportCmd.Flags().String("redis-key", "", "The name of the redis event stream")
	viper.BindPFlag("redis-key", reportCmd.Flags().Lookup("redis-key"))
	reportCmd.Flags().Duration("redis-idle-timeout", 0, "End the redis stream after it was idle this long, 0 waits for the end marker")
	viper.BindPFlag("redis-idle-timeout", reportCmd.Flags().Lookup("redis-idle-timeout"))
}

func runReport(ctx context.Context, cfg *config, stdin io.Reader) error {
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	src, closeSrc, err := openSource(cfg, stdin)
	if err != nil {
		return err
	}
	defer closeSrc()

	w := output.NewFileWriter(format, cfg.Output)
	defer w.Close()

	rep := reporter.New(reporter.WithName(cfg.Name))
	report, err := rep.Report(ctx, src, w)
	if err != nil {
		slog.Error("failed to report event stream", "error", err)
		return err
	}

	if cfg.SlackWebhookURL != "" && len(report.Failed()) > 0 {
		alertManager := alerting.NewAlertManager(cfg.AlertURL, []alerting.Alerter{
			alerting.NewSlackAlerter(cfg.SlackWebhookURL),
		})
		if err := alertManager.Fire(ctx, &alerting.Alert{Report: report}); err != nil {
			slog.Error("failed to fire alert", "report_id", report.ID, "error", err)
		}
	}
	logCounts(report)
	return nil
}

func openSource(cfg *config, stdin io.Reader) (reporter.EventSource, func(), error) {
	if cfg.RedisAddr != "" {
		if cfg.RedisKey == "" {
			return nil, nil, fmt.Errorf("--redis-key is required when reading from redis")
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		src := source.NewRedis(client, cfg.RedisKey, source.WithIdleTimeout(cfg.RedisIdleTimeout))
		return src, func() { client.Close() }, nil
	}

	if cfg.Input == "" || cfg.Input == "-" {
		return reporter.NewDecoder(stdin), func() {}, nil
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return reporter.NewDecoder(f), func() { f.Close() }, nil
}

func logCounts(report *neotest.Report) {
	counts := report.Counts()
	attrs := []any{"report_id", report.ID}
	for _, status := range []neotest.Status{
		neotest.StatusPassed,
		neotest.StatusFailed,
		neotest.StatusSkipped,
		neotest.StatusTodo,
		neotest.StatusStarted,
	} {
		if n := counts[status]; n > 0 {
			attrs = append(attrs, status.String(), n)
		}
	}
	slog.Debug("report summary", attrs...)
}
