package load

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/permit-registry/internal/config"
	"github.com/sells-group/permit-registry/internal/ingest"
	"github.com/sells-group/permit-registry/internal/model"
)

// FileResult is the outcome of loading one source file.
type FileResult struct {
	Source  string              `json:"source"`
	SHA256  string              `json:"sha256,omitempty"`
	Skipped bool                `json:"skipped,omitempty"`
	Records int                 `json:"records"`
	Batches []model.IngestStats `json:"batches,omitempty"`
}

// Loader drives file/URL ingestion: fetch, journal check, parse, map,
// batch into the engine.
type Loader struct {
	engine  *ingest.Engine
	journal *Journal
	http    *HTTPFetcher
	ftp     *FTPFetcher
	cfg     config.LoadConfig
	log     *zap.Logger
}

// NewLoader assembles a loader from config. The journal may be nil, which
// disables file-level idempotence.
func NewLoader(engine *ingest.Engine, journal *Journal, cfg config.LoadConfig) *Loader {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	return &Loader{
		engine:  engine,
		journal: journal,
		http: NewHTTPFetcher(FetchOptions{
			UserAgent:  cfg.UserAgent,
			Timeout:    timeout,
			MaxRetries: cfg.MaxRetries,
		}),
		ftp: NewFTPFetcher(timeout),
		cfg: cfg,
		log: zap.L().With(zap.String("component", "load")),
	}
}

// LoadFiles ingests the given sources (local paths or http(s)/ftp URLs),
// fanning out up to the configured concurrency. Results come back in
// source order; the first hard failure cancels remaining work.
func (l *Loader) LoadFiles(ctx context.Context, mapping *Mapping, sources []string, force bool) ([]FileResult, error) {
	results := make([]FileResult, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	limit := l.cfg.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	// The journal is a single SQLite handle; serialize writes to it.
	var journalMu sync.Mutex

	for i, source := range sources {
		g.Go(func() error {
			res, err := l.loadOne(gCtx, mapping, source, force, &journalMu)
			if err != nil {
				return eris.Wrapf(err, "load: %s", source)
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (l *Loader) loadOne(ctx context.Context, mapping *Mapping, source string, force bool, journalMu *sync.Mutex) (*FileResult, error) {
	localPath, cleanup, err := l.materialize(ctx, source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	paths := []string{localPath}
	if strings.EqualFold(filepath.Ext(localPath), ".zip") {
		extractDir, err := os.MkdirTemp(l.cfg.TempDir, "extract-*")
		if err != nil {
			return nil, eris.Wrap(err, "create extract dir")
		}
		defer os.RemoveAll(extractDir)

		paths, err = ExtractZIP(localPath, extractDir)
		if err != nil {
			return nil, err
		}
	}

	sha, err := fileSHA256(localPath)
	if err != nil {
		return nil, err
	}

	result := &FileResult{Source: source, SHA256: sha}

	if l.journal != nil && !force {
		seen, err := l.journal.Seen(ctx, sha)
		if err != nil {
			return nil, err
		}
		if seen {
			l.log.Info("file already loaded, skipping",
				zap.String("source", source),
				zap.String("sha256", sha),
			)
			result.Skipped = true
			return result, nil
		}
	}

	var records []model.PermitRecord
	for _, p := range paths {
		recs, err := l.parseFile(p, mapping)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	result.Records = len(records)

	// Oversized exports split into maximum-size batches; the wholesale
	// cap applies to API submissions, not operator file loads.
	var batchIDs []string
	for offset := 0; offset < len(records); offset += model.MaxBatchSize {
		end := offset + model.MaxBatchSize
		if end > len(records) {
			end = len(records)
		}
		stats, err := l.engine.IngestBatch(ctx, mapping.Portal, records[offset:end])
		if err != nil {
			return nil, err
		}
		result.Batches = append(result.Batches, *stats)
		batchIDs = append(batchIDs, stats.BatchID)
	}

	if l.journal != nil {
		journalMu.Lock()
		err := l.journal.Record(ctx, sha, source, strings.Join(batchIDs, ","), len(records))
		journalMu.Unlock()
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// materialize returns a local path for the source, downloading URLs into
// the temp dir. The cleanup removes any download.
func (l *Loader) materialize(ctx context.Context, source string) (string, func(), error) {
	noop := func() {}

	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"),
		strings.HasPrefix(source, "ftp://"):
	default:
		if _, err := os.Stat(source); err != nil {
			return "", noop, eris.Wrapf(err, "stat %s", source)
		}
		return source, noop, nil
	}

	if err := os.MkdirAll(l.cfg.TempDir, 0o755); err != nil {
		return "", noop, eris.Wrap(err, "create temp dir")
	}

	name := filepath.Base(strings.SplitN(source, "?", 2)[0])
	if name == "" || name == "." || name == "/" {
		name = "download"
	}
	dir, err := os.MkdirTemp(l.cfg.TempDir, "fetch-*")
	if err != nil {
		return "", noop, eris.Wrap(err, "create download dir")
	}
	localPath := filepath.Join(dir, name)
	cleanup := func() { _ = os.RemoveAll(dir) }

	l.log.Info("downloading export", zap.String("source", source))

	if strings.HasPrefix(source, "ftp://") {
		_, err = l.ftp.DownloadToFile(ctx, source, localPath)
	} else {
		_, err = l.http.DownloadToFile(ctx, source, localPath)
	}
	if err != nil {
		cleanup()
		return "", noop, err
	}
	return localPath, cleanup, nil
}

// parseFile maps one export file to permit records according to the
// mapping's declared format. Files extracted from archives fall back to
// extension detection since a ZIP may mix formats with its manifest.
func (l *Loader) parseFile(path string, mapping *Mapping) ([]model.PermitRecord, error) {
	format := mapping.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		format = "csv"
	case ".xlsx":
		format = "xlsx"
	case ".json":
		format = "json"
	}

	switch format {
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		header, rows, err := ReadCSV(f, mapping.DelimiterRune())
		if err != nil {
			return nil, err
		}
		return l.mapRows(mapping, header, rows)

	case "xlsx":
		header, rows, err := ReadXLSX(path, mapping.Sheet)
		if err != nil {
			return nil, err
		}
		return l.mapRows(mapping, header, rows)

	case "json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		objects, err := ReadJSON(f)
		if err != nil {
			return nil, err
		}
		records := make([]model.PermitRecord, 0, len(objects))
		for _, obj := range objects {
			rec, err := mapping.RecordFromObject(obj)
			if err != nil {
				return nil, err
			}
			records = append(records, *rec)
		}
		return records, nil

	default:
		return nil, eris.Errorf("unsupported export format %q for %s", format, path)
	}
}

func (l *Loader) mapRows(mapping *Mapping, header []string, rows [][]string) ([]model.PermitRecord, error) {
	records := make([]model.PermitRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := mapping.Record(header, row)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// fileSHA256 hashes a file's contents.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", eris.Wrapf(err, "hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
