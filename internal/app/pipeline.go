package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/export"
	"github.com/talkincode/shopgen/internal/generator"
	"github.com/talkincode/shopgen/internal/report"
	"github.com/talkincode/shopgen/internal/validator"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DictionaryFile = "data_dictionary.md"
	ProfileFile    = "data_profile.md"
)

// ErrDigestMismatch is returned by Verify when a regenerated dataset differs
// from the recorded one.
var ErrDigestMismatch = errors.New("dataset digest mismatch")

// RunOptions selects the stages of one pipeline run. Generation and
// validation always happen.
type RunOptions struct {
	Command string
	Params  generator.Params
	Persist bool
	Export  bool
	Reports bool
}

type RunResult struct {
	Record     *RunRecord
	Dataset    *domain.Dataset
	Validation *validator.Report
	Integrity  *IntegrityReport
	Files      []string
}

// Run generates, validates and then optionally persists, exports and
// documents a dataset. Every run, failed or not, is written to the ledger.
func (a *Application) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	// pin the anchor so the ledger entry reproduces this exact dataset
	opts.Params.Anchor = opts.Params.AnchorDate().Time
	rec := &RunRecord{
		Command:   opts.Command,
		Params:    opts.Params,
		StartedAt: time.Now().UTC(),
	}
	res := &RunResult{Record: rec}

	err := a.run(ctx, opts, res)
	rec.FinishedAt = time.Now().UTC()
	rec.Files = res.Files
	if err != nil {
		rec.Status = RunStatusFailed
		rec.Error = err.Error()
	} else {
		rec.Status = RunStatusOK
	}
	if a.ledger != nil {
		if lerr := a.ledger.Record(rec); lerr != nil {
			zap.L().Error("record run failed", zap.String("namespace", "ledger"), zap.Error(lerr))
		}
	}

	if err != nil {
		zap.L().Error("pipeline run failed",
			zap.String("namespace", "pipeline"),
			zap.String("command", opts.Command),
			zap.Error(err))
		return res, err
	}
	zap.L().Info("pipeline run finished",
		zap.String("namespace", "pipeline"),
		zap.String("run_id", rec.ID),
		zap.String("digest", rec.Digest),
		zap.Duration("elapsed", rec.FinishedAt.Sub(rec.StartedAt)))
	return res, nil
}

func (a *Application) run(ctx context.Context, opts RunOptions, res *RunResult) error {
	ds, err := generator.Generate(opts.Params, a.stageHook())
	if err != nil {
		return err
	}
	res.Dataset = ds
	res.Record.Counts = ds.Counts()
	res.Record.Digest = ds.Digest()

	res.Validation = validator.Validate(ds)
	if err := res.Validation.Err(); err != nil {
		return err
	}

	if opts.Persist {
		db := a.gormDB
		if db == nil {
			return errors.New("no database configured")
		}
		batch := a.appConfig.Generator.BatchSize
		if err := LoadDataset(ctx, db, ds, batch); err != nil {
			return err
		}
		res.Record.Database = db.Dialector.Name()
		integrity, err := CheckIntegrity(db.WithContext(ctx))
		if err != nil {
			return err
		}
		res.Integrity = integrity
		if err := integrity.Err(); err != nil {
			return err
		}
	}

	if opts.Export {
		files, err := export.Run(ctx, a.appConfig.Export, a.appConfig.GetDataDir(), ds)
		if err != nil {
			return err
		}
		res.Files = append(res.Files, files...)
	}

	if opts.Reports {
		files, err := a.WriteReports(ds)
		if err != nil {
			return err
		}
		res.Files = append(res.Files, files...)
	}
	return nil
}

// WriteReports writes the column profile of ds and, when a database is
// configured, the data dictionary into the report directory.
func (a *Application) WriteReports(ds *domain.Dataset) ([]string, error) {
	dir := a.appConfig.GetReportDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create report dir %s", dir)
	}
	var files []string

	profiles, err := report.Profile(ds)
	if err != nil {
		return nil, err
	}
	profileFile := filepath.Join(dir, ProfileFile)
	if err := os.WriteFile(profileFile, []byte(report.ProfileMarkdown(profiles)), 0o644); err != nil {
		return nil, errors.Wrapf(err, "write %s", profileFile)
	}
	files = append(files, profileFile)

	if a.gormDB != nil {
		dictFile, err := a.WriteDataDictionary()
		if err != nil {
			return nil, err
		}
		files = append(files, dictFile)
	}
	return files, nil
}

// WriteDataDictionary documents the current database schema.
func (a *Application) WriteDataDictionary() (string, error) {
	md, err := report.DataDictionary(a.gormDB, time.Now())
	if err != nil {
		return "", err
	}
	dir := a.appConfig.GetReportDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create report dir %s", dir)
	}
	file := filepath.Join(dir, DictionaryFile)
	if err := os.WriteFile(file, []byte(md), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", file)
	}
	return file, nil
}

type VerifyResult struct {
	Run    *RunRecord `json:"run"`
	Digest string     `json:"digest"`
	Match  bool       `json:"match"`
}

// Verify regenerates the dataset of a recorded run from its parameters and
// compares digests. An empty runID verifies the latest successful run.
func (a *Application) Verify(ctx context.Context, runID string) (*VerifyResult, error) {
	if a.ledger == nil {
		return nil, errors.New("run ledger is not open")
	}
	var (
		rec *RunRecord
		err error
	)
	if runID == "" {
		rec, err = a.ledger.Latest()
	} else {
		rec, err = a.ledger.Get(runID)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := generator.Generate(rec.Params)
	if err != nil {
		return nil, err
	}
	res := &VerifyResult{Run: rec, Digest: ds.Digest()}
	res.Match = res.Digest == rec.Digest
	if !res.Match {
		return res, errors.Wrapf(ErrDigestMismatch, "run %s: recorded %s, regenerated %s", rec.ID, rec.Digest, res.Digest)
	}
	return res, nil
}

type AuditResult struct {
	Integrity     *IntegrityReport  `json:"integrity"`
	Validation    *validator.Report `json:"validation"`
	Digest        string            `json:"digest"`
	LedgerDigest  string            `json:"ledger_digest,omitempty"`
	DigestMatches bool              `json:"digest_matches"`
}

// OK reports a clean store. A digest that differs from the last recorded
// load is a problem only when such a load exists.
func (r *AuditResult) OK() bool {
	return r.Integrity.OK() && r.Validation.OK() && (r.LedgerDigest == "" || r.DigestMatches)
}

// AuditStore reads the stored dataset back, runs both the SQL integrity
// checks and the full validator over it and compares its digest with the
// latest persisted run.
func (a *Application) AuditStore(ctx context.Context) (*AuditResult, error) {
	if a.gormDB == nil {
		return nil, errors.New("no database configured")
	}
	db := a.gormDB.WithContext(ctx)
	integrity, err := CheckIntegrity(db)
	if err != nil {
		return nil, err
	}
	ds, err := LoadStoredDataset(ctx, a.gormDB)
	if err != nil {
		return nil, err
	}
	res := &AuditResult{
		Integrity:  integrity,
		Validation: validator.Validate(ds),
		Digest:     ds.Digest(),
	}
	if a.ledger != nil {
		runs, err := a.ledger.List(0)
		if err != nil {
			return nil, err
		}
		for _, run := range runs {
			if run.Status == RunStatusOK && run.Database != "" {
				res.LedgerDigest = run.Digest
				break
			}
		}
	}
	res.DigestMatches = res.LedgerDigest == res.Digest
	return res, nil
}

// Summary renders a short human readable report of a run.
func Summary(res *RunResult) string {
	p := message.NewPrinter(language.English)
	rec := res.Record
	out := p.Sprintf("run %s (%s): %s\n", rec.ID, rec.Command, rec.Status)
	if res.Dataset != nil {
		for _, table := range domain.TableNames {
			out += p.Sprintf("  %-12s %8d rows\n", table, rec.Counts[table])
		}
		out += p.Sprintf("  digest       %s\n", rec.Digest)
	}
	if res.Validation != nil {
		out += p.Sprintf("  validation   %s\n", res.Validation.Summary())
	}
	if res.Integrity != nil {
		status := "passed"
		if !res.Integrity.OK() {
			status = p.Sprintf("%v", res.Integrity.Problems())
		}
		out += p.Sprintf("  integrity    %s\n", status)
	}
	for _, f := range res.Files {
		out += p.Sprintf("  wrote        %s\n", f)
	}
	rss, _ := processStats()
	out += p.Sprintf("  memory       %d KiB RSS, %v elapsed\n", rss/1024, rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
	return out
}
