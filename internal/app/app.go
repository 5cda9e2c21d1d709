package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"w8/internal/config"
	"w8/internal/domain"
	"w8/internal/services"
	"w8/internal/state"
	"w8/internal/ui"
)

type Options struct {
	Config config.Config
	Logger *zap.Logger
	Out    io.Writer
	// Clock names the snapshot file; defaults to time.Now.
	Clock  func() time.Time
	Upload bool
	Browse bool
}

type ScanReport struct {
	Result       services.ScanResult
	SnapshotPath string
	Elapsed      time.Duration
	RunID        int64
	ArtifactKey  string
}

// Scan builds the weighted tree, writes the snapshot and prints the summary.
// A scan or snapshot failure aborts the run; ledger and upload failures are
// only logged since the snapshot already exists by then.
func Scan(ctx context.Context, opts Options) (ScanReport, error) {
	opts = withDefaults(opts)
	cfg := opts.Config
	root, err := resolveRoot(cfg.Path)
	if err != nil {
		return ScanReport{}, err
	}

	start := time.Now()
	startedAt := opts.Clock()
	request := scanRequest(cfg, root)
	builder := services.NewTreeBuilder(opts.Logger)
	result, err := builder.Scan(ctx, request)
	if err != nil {
		return ScanReport{Result: result}, fmt.Errorf("scan %s: %w", root, err)
	}

	writer := services.NewSnapshotWriter(cfg.OutDir, services.ParseSnapshotFormat(cfg.Format))
	writer.Clock = opts.Clock
	snapshotPath, err := writer.Write(result.Tree)
	if err != nil {
		return ScanReport{Result: result}, err
	}
	report := ScanReport{Result: result, SnapshotPath: snapshotPath, Elapsed: time.Since(start)}

	if err := ui.PrintWarnings(opts.Out, result.Warnings); err != nil {
		return report, err
	}
	if err := ui.PrintSummary(opts.Out, result.Tree, report.Elapsed); err != nil {
		return report, err
	}

	if cfg.History {
		report.RunID = recordRun(opts, services.RunRecord{
			RootPath:       root,
			StartedAt:      startedAt,
			Duration:       report.Elapsed,
			TotalScore:     result.Tree.Score,
			TotalLines:     result.Tree.LineCount,
			FilesProcessed: result.Tree.FileCount(),
			SnapshotPath:   snapshotPath,
		})
	}
	if opts.Upload || artifactConfig(cfg).Enabled() {
		report.ArtifactKey = uploadSnapshot(ctx, opts, root, snapshotPath)
	}

	if opts.Browse {
		return report, Browse(cfg, result.Tree, builder, request)
	}
	return report, nil
}

// BrowseSnapshot opens a stored snapshot, or the newest one in the output
// directory when path is empty.
func BrowseSnapshot(opts Options, path string) error {
	opts = withDefaults(opts)
	if path == "" {
		latest, err := services.LatestSnapshot(opts.Config.OutDir)
		if err != nil {
			return err
		}
		path = latest
	}
	tree, err := services.LoadSnapshot(path)
	if err != nil {
		return err
	}
	request := scanRequest(opts.Config, tree.Path)
	return Browse(opts.Config, tree, services.NewTreeBuilder(opts.Logger), request)
}

func Browse(cfg config.Config, tree domain.DirectoryNode, scanner services.Scanner, request services.ScanRequest) error {
	appState := state.NewState(cfg)
	appState.SetTree(tree)
	model := ui.NewModel(appState, scanner, request).WithStatus(fmt.Sprintf("Loaded %s", tree.Path))
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}

// History prints the most recent runs from the ledger.
func History(opts Options, limit int) error {
	opts = withDefaults(opts)
	store, err := services.OpenHistoryStore(filepath.Join(opts.Config.OutDir, services.HistoryFileName))
	if err != nil {
		return err
	}
	defer store.Close()
	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}
	return ui.PrintHistory(opts.Out, runs)
}

func recordRun(opts Options, run services.RunRecord) int64 {
	store, err := services.OpenHistoryStore(filepath.Join(opts.Config.OutDir, services.HistoryFileName))
	if err != nil {
		opts.Logger.Warn("history unavailable", zap.Error(err))
		return 0
	}
	defer store.Close()
	return appendRun(opts.Logger, store, run)
}

func appendRun(logger *zap.Logger, ledger services.RunLedger, run services.RunRecord) int64 {
	id, err := ledger.Record(run)
	if err != nil {
		logger.Warn("history not recorded", zap.Error(err))
		return 0
	}
	return id
}

func uploadSnapshot(ctx context.Context, opts Options, root, snapshotPath string) string {
	store, err := services.NewArtifactStore(artifactConfig(opts.Config))
	if err != nil {
		opts.Logger.Warn("artifact upload skipped", zap.Error(err))
		return ""
	}
	return publish(ctx, opts, store, root, snapshotPath)
}

func publish(ctx context.Context, opts Options, uploader services.ArtifactUploader, root, snapshotPath string) string {
	key, err := uploader.Upload(ctx, root, snapshotPath)
	if err != nil {
		opts.Logger.Warn("artifact upload failed", zap.String("snapshot", snapshotPath), zap.Error(err))
		return ""
	}
	fmt.Fprintf(opts.Out, "Uploaded: %s\n", key)
	return key
}

func artifactConfig(cfg config.Config) services.ArtifactConfig {
	return services.ArtifactConfig{
		Endpoint:  cfg.Artifact.Endpoint,
		Region:    cfg.Artifact.Region,
		AccessKey: cfg.Artifact.AccessKey,
		SecretKey: cfg.Artifact.SecretKey,
		Bucket:    cfg.Artifact.Bucket,
		UseSSL:    cfg.Artifact.UseSSL,
	}
}

func scanRequest(cfg config.Config, root string) services.ScanRequest {
	return services.ScanRequest{
		RootPath:        root,
		SkipUnreadable:  cfg.SkipUnreadable,
		LegacyRootTotal: cfg.LegacyRootTotal,
	}
}

// resolveRoot defaults to the working directory.
func resolveRoot(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return wd, nil
}

func withDefaults(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Config.OutDir == "" {
		opts.Config.OutDir = services.DefaultOutputDir
	}
	return opts
}
