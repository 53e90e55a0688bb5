package main

import (
	"agent-staffing/config"
	"agent-staffing/formatter"
	"agent-staffing/logger"
	"agent-staffing/metrics"
	"agent-staffing/server"
	"agent-staffing/service"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/urfave/cli/v2"
)

// pushJobName is the Pushgateway job the CLI reports under.
const pushJobName = "agent_staffing"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "agent-staffing",
		Usage: "Compute hourly agent staffing from call requirements CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Path to input CSV file (required)",
			},
			&cli.Float64Flag{
				Name:    "utilization",
				Aliases: []string{"u"},
				Value:   1.0,
				Usage:   "Agent utilization in (0,1], e.g. 0.8 for 80%. Lower utilization means more agents",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text|json|csv",
			},
			&cli.IntFlag{
				Name:  "capacity",
				Value: 0,
				Usage: "Maximum agent capacity per hour (0 = unlimited)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Address to expose Prometheus metrics (e.g., :9090)",
			},
			&cli.StringFlag{
				Name:  "push-url",
				Usage: "Pushgateway URL to push metrics to (e.g., http://localhost:9091)",
			},
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "Keep process running after completion to allow for metric scraping",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.Config{
				Level:  c.String("log-level"),
				Format: c.String("log-format"),
				Output: c.App.ErrWriter,
			})
			return nil
		},
		Action: runSchedule,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP upload service (configured from the environment)",
				Action: runServe,
			},
		},
	}
}

func runSchedule(c *cli.Context) error {
	input := c.String("input")
	if input == "" {
		return errors.New("--input is required")
	}

	format := c.String("format")
	switch format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", format)
	}

	if addr := c.String("metrics-addr"); addr != "" {
		go serveMetrics(addr)
	}

	planner := service.New(slog.Default())
	schedule, err := planner.BuildFromFile(input, service.Options{
		Utilization: c.Float64("utilization"),
		Capacity:    c.Int("capacity"),
	})
	if err != nil {
		return err
	}

	var out string
	switch format {
	case "json":
		out = formatter.FormatJSON(schedule)
	case "csv":
		out = formatter.FormatCSV(schedule)
	default:
		out = formatter.FormatText(schedule)
	}
	fmt.Fprintln(c.App.Writer, out)

	if url := c.String("push-url"); url != "" {
		if err := push.New(url, pushJobName).Gatherer(metrics.Registry).Push(); err != nil {
			slog.Error("pushing metrics to Pushgateway", "url", url, "error", err)
		} else {
			slog.Info("metrics pushed to Pushgateway", "url", url)
		}
	}

	switch {
	case c.Bool("wait") && c.String("metrics-addr") != "":
		slog.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
	case c.String("metrics-addr") != "" && c.String("push-url") == "":
		// Small delay to allow a final scrape; batch jobs should use the
		// Pushgateway or --wait.
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	slog.Info("metrics server listening", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("metrics server error", "error", err)
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: c.App.ErrWriter,
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, service.New(log), log)
	return srv.Run(ctx)
}
