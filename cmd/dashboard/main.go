package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"feedback-backend/internal/logger"
	"feedback-backend/internal/poller"
)

var (
	serverFlag   string
	intervalFlag time.Duration
	onceFlag     bool
	tzFlag       string
	feedFlag     int
	logLevelFlag string

	rootCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Follow the feedback feed and print live insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func main() {
	rootCmd.Flags().StringVarP(&serverFlag, "server", "s", "http://localhost:8080", "Feedback backend base URL")
	rootCmd.Flags().DurationVarP(&intervalFlag, "interval", "i", poller.DefaultInterval, "Polling interval")
	rootCmd.Flags().BoolVar(&onceFlag, "once", false, "Fetch once, print, and exit")
	rootCmd.Flags().StringVar(&tzFlag, "tz", "Local", "Display time zone (IANA name)")
	rootCmd.Flags().IntVarP(&feedFlag, "feed", "n", 5, "Number of newest submissions to print")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "warn", "Log level")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger.Init(logger.NewWithWriter(os.Stderr, "feedback-dashboard", logLevelFlag))

	loc, err := time.LoadLocation(tzFlag)
	if err != nil {
		return fmt.Errorf("invalid --tz %q: %w", tzFlag, err)
	}

	fetcher, err := poller.NewHTTPFetcher(serverFlag)
	if err != nil {
		return err
	}

	p, err := poller.New(fetcher,
		poller.WithInterval(intervalFlag),
		poller.WithLocation(loc),
		poller.WithOnUpdate(func(s poller.Snapshot) {
			printSnapshot(os.Stdout, s, feedFlag)
		}),
	)
	if err != nil {
		return err
	}

	if onceFlag {
		p.Refresh(ctx)
		return p.LastError()
	}

	p.Run(ctx)
	return nil
}
