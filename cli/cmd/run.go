package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/fenceline-io/fenceline/adapter"
	"github.com/fenceline-io/fenceline/adapter/redis"
	"github.com/fenceline-io/fenceline/adapter/webhook"
	"github.com/fenceline-io/fenceline/classify"
	"github.com/fenceline-io/fenceline/cli/render"
	"github.com/fenceline-io/fenceline/config"
	"github.com/fenceline-io/fenceline/extract"
	"github.com/fenceline-io/fenceline/iox"
	"github.com/fenceline-io/fenceline/log"
	"github.com/fenceline-io/fenceline/metrics"
	"github.com/fenceline-io/fenceline/runtime"
	"github.com/fenceline-io/fenceline/sink"
	"github.com/fenceline-io/fenceline/types"
)

// Exit codes for fenceline run.
const (
	// exitClean: every runnable block passed, no malformed documents.
	exitClean = 0
	// exitBlockProblem: at least one block failed or errored.
	exitBlockProblem = 1
	// exitInternal: the harness itself broke (incomplete report, sink failure).
	exitInternal = 2
	// exitMalformed: malformed documents only, all executed blocks clean.
	exitMalformed = 3
)

// RunCommand returns the run command, the only command that executes
// snippets.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Extract, classify, and execute code blocks under a directory",
		ArgsUsage: "[root]",
		Flags: append([]cli.Flag{
			ConfigFlag,
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Only execute blocks of this language; others are skipped",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-snippet execution timeout (overrides config)",
			},
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "Documents processed concurrently (overrides config)",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Report destination: file path, '-' for stdout, or s3://bucket/key",
			},
			&cli.StringFlag{
				Name:  "report-format",
				Usage: "Report encoding: json, yaml, msgpack (default: from path extension)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress result rendering on stdout",
			},
		}, OutputFlags()...),
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for run (use inspect)", exitInternal)
	}

	root := c.Args().First()
	if root == "" {
		root = "."
	}

	cfg, err := loadRunConfig(c, root)
	if err != nil {
		return cli.Exit(err.Error(), exitInternal)
	}

	renderer, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInternal)
	}

	invocationID := uuid.NewString()
	logger := log.NewLogger(invocationID)
	collector := metrics.NewCollector(invocationID, root)
	startedAt := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Scan and classify.
	scan, err := extract.ScanDir(root)
	if err != nil {
		return cli.Exit(fmt.Sprintf("scan failed: %v", err), exitInternal)
	}

	agg := runtime.NewAggregator()
	for _, malformed := range scan.Malformed {
		collector.IncDocumentScanned()
		collector.IncDocumentMalformed()
		logger.Warn("malformed document", map[string]any{
			"document": malformed.Path,
			"line":     malformed.Line,
		})
		agg.RecordMalformed(malformed.Path, malformed.Error())
	}

	toolchains := cfg.ResolveToolchains()
	langFilter := ""
	if lang := c.String("language"); lang != "" {
		langFilter = classify.Canonical(lang)
	}

	timeout := cfg.EffectiveTimeout()
	if c.Duration("timeout") > 0 {
		timeout = c.Duration("timeout")
	}
	parallel := cfg.EffectiveParallel()
	if c.Int("parallel") > 0 {
		parallel = c.Int("parallel")
	}

	warner := runtime.NewToolchainWarner()
	warnMissingToolchains(logger, warner, toolchains, langFilter)

	runners := make([]*runtime.DocumentRunner, 0, len(scan.Documents))
	for _, doc := range scan.Documents {
		collector.IncDocumentScanned()
		classified := classify.ClassifyAll(doc.Blocks)

		byClass := make(map[string]int64, 4)
		for _, cb := range classified {
			byClass[string(cb.Class)]++
		}
		collector.AddBlocks(len(classified), byClass)
		agg.ExpectDocument(doc.Path, len(classified))

		runner, err := runtime.NewDocumentRunner(&runtime.DocumentConfig{
			Path:           doc.Path,
			Blocks:         classified,
			Toolchains:     toolchains,
			Timeout:        timeout,
			Rule:           cfg.RuleFor(doc.Path),
			LanguageFilter: langFilter,
			Logger:         logger,
			Collector:      collector,
			Warner:         warner,
		})
		if err != nil {
			return cli.Exit(fmt.Sprintf("cannot prepare %s: %v", doc.Path, err), exitInternal)
		}
		runners = append(runners, runner)
	}

	pool := runtime.NewPool(parallel, agg, logger)
	if err := pool.Run(ctx, runners); err != nil {
		return cli.Exit(fmt.Sprintf("execution failed: %v", err), exitInternal)
	}

	docs, summary, err := agg.Finalize()
	if err != nil {
		return cli.Exit(fmt.Sprintf("report aggregation failed: %v", err), exitInternal)
	}

	duration := time.Since(startedAt)
	collector.AbsorbSummary(summary.Passed, summary.Failed, summary.Errored, summary.Skipped)
	snap := collector.Snapshot()
	report := runtime.BuildReport(invocationID, root, startedAt, duration, summary, docs, &snap)

	if !c.Bool("quiet") {
		if err := renderer.RenderReport(report); err != nil {
			return cli.Exit(fmt.Sprintf("render failed: %v", err), exitInternal)
		}
	}

	reportPath := c.String("report")
	if reportPath == "" {
		reportPath = cfg.Report.Path
	}
	if reportPath != "" {
		if err := writeReport(ctx, c, cfg, collector, logger, report, reportPath); err != nil {
			return cli.Exit(fmt.Sprintf("report write failed: %v", err), exitInternal)
		}
	}

	publishCompletion(ctx, cfg, logger, report, reportPath, duration)

	return cli.Exit("", exitCodeFor(summary))
}

// warnMissingToolchains reports configured-but-absent toolchains before
// execution starts, seeding the warner so block-level sightings do not
// repeat the warning. A --language filter naming a language with no
// toolchain at all gets its own warning, since every matching block
// would otherwise be skipped silently.
func warnMissingToolchains(logger *log.Logger, warner *runtime.ToolchainWarner, toolchains *config.ResolvedToolchains, langFilter string) {
	for _, lang := range toolchains.Missing {
		if warner.FirstSighting(lang) {
			logger.Warn("toolchain not found, blocks will be marked errored", map[string]any{
				"language": lang,
			})
		}
	}
	if langFilter != "" && !toolchains.Has(langFilter) && !toolchains.IsMissing(langFilter) {
		logger.Warn("no toolchain configured for requested language", map[string]any{
			"language": langFilter,
		})
	}
}

// exitCodeFor maps the aggregate summary to the run exit code. Block
// problems take precedence over malformed documents.
func exitCodeFor(summary types.Summary) int {
	if summary.Failed > 0 || summary.Errored > 0 {
		return exitBlockProblem
	}
	if summary.Malformed > 0 {
		return exitMalformed
	}
	return exitClean
}

// loadRunConfig resolves the config file: an explicit --config is
// required to exist, the implicit lookup in the scan root is optional.
func loadRunConfig(c *cli.Context, root string) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOptional(filepath.Join(root, config.DefaultConfigFile))
}

// writeReport encodes the report and delivers it to the configured sink.
func writeReport(ctx context.Context, c *cli.Context, cfg *config.Config, collector *metrics.Collector, logger *log.Logger, report *runtime.Report, reportPath string) error {
	formatStr := c.String("report-format")
	if formatStr == "" {
		formatStr = cfg.Report.Format
	}

	var format runtime.ReportFormat
	if formatStr != "" {
		parsed, err := runtime.ParseReportFormat(formatStr)
		if err != nil {
			return err
		}
		format = parsed
	} else {
		format = runtime.FormatFromPath(reportPath)
	}

	body, err := report.Encode(format)
	if err != nil {
		collector.IncSinkWriteFailure()
		return err
	}

	dest, err := buildSink(ctx, cfg, reportPath, format)
	if err != nil {
		collector.IncSinkWriteFailure()
		return err
	}

	if err := dest.Write(ctx, body); err != nil {
		collector.IncSinkWriteFailure()
		return err
	}
	collector.IncSinkWriteSuccess()
	logger.Info("report written", map[string]any{
		"destination": dest.Destination(),
		"format":      string(format),
		"bytes":       len(body),
	})
	return nil
}

// buildSink constructs the report sink for the destination path.
func buildSink(ctx context.Context, cfg *config.Config, reportPath string, format runtime.ReportFormat) (sink.Sink, error) {
	if !sink.IsS3Path(reportPath) {
		return sink.NewFSSink(reportPath), nil
	}

	bucket, key, err := sink.ParseS3Path(reportPath)
	if err != nil {
		return nil, err
	}
	return sink.NewS3Sink(ctx, sink.S3Config{
		Bucket:       bucket,
		Key:          key,
		Region:       cfg.Report.Region,
		Endpoint:     cfg.Report.Endpoint,
		UsePathStyle: cfg.Report.S3PathStyle,
		ContentType:  contentTypeFor(format),
	})
}

func contentTypeFor(format runtime.ReportFormat) string {
	switch format {
	case runtime.FormatYAML:
		return "application/yaml"
	case runtime.FormatMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// publishCompletion notifies the configured adapter, best-effort.
// Publish failures are logged, never fatal: the report is the source
// of truth, the event is a convenience.
func publishCompletion(ctx context.Context, cfg *config.Config, logger *log.Logger, report *runtime.Report, reportPath string, duration time.Duration) {
	pub, err := buildAdapter(cfg)
	if err != nil {
		logger.Error("adapter configuration invalid", map[string]any{"error": err.Error()})
		return
	}
	if pub == nil {
		return
	}
	defer iox.DiscardClose(pub)

	s := report.Summary
	event := &adapter.HarnessCompletedEvent{
		EventType:    adapter.EventTypeCompleted,
		InvocationID: report.InvocationID,
		Root:         report.Root,
		Documents:    s.Documents,
		Malformed:    s.Malformed,
		Blocks:       s.Blocks,
		Passed:       s.Passed,
		Failed:       s.Failed,
		Errored:      s.Errored,
		Skipped:      s.Skipped,
		Clean:        s.Clean(),
		ReportPath:   reportPath,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		DurationMs:   duration.Milliseconds(),
	}

	if err := pub.Publish(ctx, event); err != nil {
		logger.Error("completion publish failed", map[string]any{"error": err.Error()})
		return
	}
	logger.Info("completion published", map[string]any{"adapter": cfg.Adapter.Type})
}

// buildAdapter constructs the completion adapter from config, or nil
// when none is configured.
func buildAdapter(cfg *config.Config) (adapter.Adapter, error) {
	retries := -1
	if cfg.Adapter.Retries != nil {
		retries = *cfg.Adapter.Retries
	}

	switch cfg.Adapter.Type {
	case "":
		return nil, nil
	case "webhook":
		wcfg := webhook.Config{
			URL:     cfg.Adapter.URL,
			Headers: cfg.Adapter.Headers,
			Timeout: cfg.Adapter.Timeout.Duration,
			Retries: webhook.DefaultRetries,
		}
		if retries >= 0 {
			wcfg.Retries = retries
		}
		return webhook.New(wcfg)
	case "redis":
		rcfg := redis.Config{
			URL:     cfg.Adapter.URL,
			Channel: cfg.Adapter.Channel,
			Timeout: cfg.Adapter.Timeout.Duration,
			Retries: redis.DefaultRetries,
		}
		if retries >= 0 {
			rcfg.Retries = retries
		}
		return redis.New(rcfg)
	default:
		return nil, fmt.Errorf("unknown adapter type %q (must be webhook or redis)", cfg.Adapter.Type)
	}
}
