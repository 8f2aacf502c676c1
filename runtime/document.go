package runtime

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fenceline-io/fenceline/classify"
	"github.com/fenceline-io/fenceline/config"
	"github.com/fenceline-io/fenceline/iox"
	"github.com/fenceline-io/fenceline/log"
	"github.com/fenceline-io/fenceline/metrics"
	"github.com/fenceline-io/fenceline/types"
)

// DocumentConfig configures the execution of one document's blocks.
type DocumentConfig struct {
	// Path is the document path relative to the scan root.
	Path string
	// Blocks are the document's classified blocks in ordinal order.
	Blocks []types.ClassifiedBlock
	// Toolchains holds the resolved language runners for this invocation.
	Toolchains *config.ResolvedToolchains
	// Timeout bounds each snippet's wall-clock time.
	Timeout time.Duration
	// Rule is the matched per-document execution rule, zero when none matched.
	Rule config.DocumentRule
	// LanguageFilter restricts execution to one canonical language when
	// non-empty; other runnable blocks are skipped.
	LanguageFilter string
	// Logger for per-block diagnostics.
	Logger *log.Logger
	// Collector for execution metrics; may be nil.
	Collector *metrics.Collector
	// ExecutorFactory creates executors; nil uses SnippetExecutor.
	ExecutorFactory ExecutorFactory
	// Warner deduplicates missing-toolchain warnings across documents;
	// may be nil, in which case the runner allocates its own.
	Warner *ToolchainWarner
}

// DocumentRunner executes all blocks of one document and produces its
// report. Runnable blocks run in ordinal order; blocks that cannot run
// still produce a record so every extracted block appears exactly once.
type DocumentRunner struct {
	config *DocumentConfig
	logger *log.Logger
}

// NewDocumentRunner creates a runner for one document.
func NewDocumentRunner(cfg *DocumentConfig) (*DocumentRunner, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("document config requires a path")
	}
	logger := cfg.Logger
	if logger != nil {
		logger = logger.WithDocument(cfg.Path)
	}
	if cfg.ExecutorFactory == nil {
		cfg.ExecutorFactory = func(ec *ExecConfig) Executor {
			return NewSnippetExecutor(ec)
		}
	}
	if cfg.Warner == nil {
		cfg.Warner = NewToolchainWarner()
	}
	return &DocumentRunner{config: cfg, logger: logger}, nil
}

// Run executes the document's blocks and returns its report. The
// returned report always carries one result per block, in ordinal
// order, regardless of execution mode.
func (r *DocumentRunner) Run(ctx context.Context) *types.DocumentReport {
	report := &types.DocumentReport{
		Document: r.config.Path,
		Blocks:   make([]types.BlockResult, len(r.config.Blocks)),
	}

	if r.config.Rule.Independent && !r.config.Rule.Sequential {
		r.runIndependent(ctx, report)
		return report
	}

	// Sequential documents share one working directory so earlier
	// snippets can leave state for later ones.
	var workDir string
	if r.config.Rule.Sequential {
		dir, err := os.MkdirTemp("", "fenceline-doc-*")
		if err != nil {
			r.logger.Error("failed to create shared working directory", map[string]any{
				"error": err.Error(),
			})
		} else {
			workDir = dir
			defer iox.DiscardRemove(dir)
		}
	}

	for i, cb := range r.config.Blocks {
		report.Blocks[i] = r.runBlock(ctx, cb, workDir)
	}
	return report
}

// runIndependent executes runnable blocks concurrently. Only valid for
// documents declared free of inter-block state.
func (r *DocumentRunner) runIndependent(ctx context.Context, report *types.DocumentReport) {
	g, gctx := errgroup.WithContext(ctx)
	for i, cb := range r.config.Blocks {
		g.Go(func() error {
			report.Blocks[i] = r.runBlock(gctx, cb, "")
			return nil
		})
	}
	// Workers never return errors; failures are per-block records.
	_ = g.Wait()
}

// runBlock produces the result record for a single block.
func (r *DocumentRunner) runBlock(ctx context.Context, cb types.ClassifiedBlock, workDir string) types.BlockResult {
	result := types.BlockResult{
		Document: cb.Document,
		Ordinal:  cb.Ordinal,
		Language: cb.Language,
		Section:  cb.Section,
		Line:     cb.Line,
		Class:    cb.Class,
		ExitCode: -1,
	}

	if !cb.Class.IsRunnable() {
		result.Status = types.StatusSkipped
		result.Reason = types.ReasonNotRunnable
		return result
	}

	lang := classify.Canonical(cb.Language)

	if r.config.LanguageFilter != "" && lang != r.config.LanguageFilter {
		result.Status = types.StatusSkipped
		result.Reason = types.ReasonLanguageFilter
		return result
	}

	tc, ok := r.config.Toolchains.Available[lang]
	if !ok {
		if r.config.Warner.FirstSighting(lang) {
			r.logger.Warn("toolchain not found, blocks will be marked errored", map[string]any{
				"language": lang,
			})
		}
		result.Status = types.StatusErrored
		result.Reason = types.ReasonToolchainMissing
		return result
	}

	executor := r.config.ExecutorFactory(&ExecConfig{
		Toolchain: tc,
		Timeout:   r.config.Timeout,
		WorkDir:   workDir,
	})

	r.config.Collector.IncSnippetLaunched()
	execResult, err := executor.Run(ctx, cb.Text)
	if err != nil {
		r.config.Collector.IncLaunchFailure()
		r.logger.Error("snippet launch failed", map[string]any{
			"ordinal":  cb.Ordinal,
			"language": lang,
			"error":    err.Error(),
		})
		result.Status = types.StatusErrored
		result.Reason = types.ReasonLaunchFailure
		result.Stderr = err.Error()
		return result
	}

	result.Status, result.Reason = StatusFor(execResult)
	result.ExitCode = execResult.ExitCode
	result.Stdout = execResult.Stdout
	result.Stderr = execResult.Stderr
	result.DurationMs = execResult.Duration.Milliseconds()

	if execResult.TimedOut {
		r.config.Collector.IncTimeout()
	}
	if result.Status == types.StatusFailed {
		r.logger.Debug("snippet exited non-zero", map[string]any{
			"ordinal":   cb.Ordinal,
			"language":  lang,
			"exit_code": result.ExitCode,
		})
	}
	return result
}

// ToolchainWarner deduplicates missing-toolchain warnings so each
// absent language is reported once per invocation, not once per block.
type ToolchainWarner struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewToolchainWarner creates an empty warner.
func NewToolchainWarner() *ToolchainWarner {
	return &ToolchainWarner{seen: make(map[string]bool)}
}

// FirstSighting reports whether lang has not been seen before and
// marks it seen. Nil-receiver safe.
func (w *ToolchainWarner) FirstSighting(lang string) bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[lang] {
		return false
	}
	w.seen[lang] = true
	return true
}
