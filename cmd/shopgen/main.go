package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/talkincode/shopgen/config"
	"github.com/talkincode/shopgen/internal/adminapi"
	"github.com/talkincode/shopgen/internal/app"
	"github.com/talkincode/shopgen/internal/generator"
	"github.com/talkincode/shopgen/internal/validator"
	"github.com/talkincode/shopgen/internal/webserver"
	"go.uber.org/zap"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "", "config yaml file")
	seed     = flag.Int64("seed", -1, "override the generator seed")
	sample   = flag.Bool("sample", false, "generate the small sample dataset")
	workdir  = flag.String("w", "", "override the working directory")
)

const usage = `Usage: shopgen [-c config.yml] [-seed N] [-sample] <command> [args]

Commands:
  generate   generate, validate and export csv/xlsx files
  load       generate, validate and persist into the database
  run        load, export and write the data dictionary and profile
  serve      serve the read api and run the integrity audit job
  docs       write the data dictionary of the current database
  profile    profile the dataset stored in the database
  initdb     drop and recreate all tables
  verify     regenerate a recorded run and compare digests [run-id]
  audit      check the stored dataset against the latest load
  runs       list recorded runs
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *h || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		exitf("load config: %v", err)
	}
	if *workdir != "" {
		cfg.System.Workdir = *workdir
	}
	if err := cfg.Prepare(); err != nil {
		exitf("prepare workdir: %v", err)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		exitf("init: %v", err)
	}
	defer application.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, application, flag.Arg(0), flag.Args()[1:]); err != nil {
		logViolations(err)
		application.Release()
		exitf("%s: %v", flag.Arg(0), err)
	}
}

func dispatch(ctx context.Context, a *app.Application, command string, args []string) error {
	switch command {
	case "generate", "load", "run":
		return runPipeline(ctx, a, command)
	case "serve":
		return serve(ctx, a)
	case "docs":
		file, err := a.WriteDataDictionary()
		if err != nil {
			return err
		}
		fmt.Println("wrote", file)
		return nil
	case "profile":
		ds, err := app.LoadStoredDataset(ctx, a.DB())
		if err != nil {
			return err
		}
		files, err := a.WriteReports(ds)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println("wrote", f)
		}
		return nil
	case "initdb":
		a.InitDb()
		fmt.Println("database initialized")
		return nil
	case "verify":
		var runID string
		if len(args) > 0 {
			runID = args[0]
		}
		res, err := a.Verify(ctx, runID)
		if res != nil {
			fmt.Printf("run %s seed=%d recorded=%s regenerated=%s match=%v\n",
				res.Run.ID, res.Run.Params.Seed, res.Run.Digest, res.Digest, res.Match)
		}
		return err
	case "audit":
		res, err := a.AuditStore(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("integrity: %v\nvalidation: %s\ndigest: %s (latest load %s)\n",
			res.Integrity.Problems(), res.Validation.Summary(), res.Digest, res.LedgerDigest)
		if !res.OK() {
			return errors.New("stored dataset failed the audit")
		}
		return nil
	case "runs":
		runs, err := a.Ledger().List(20)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  %-8s %-6s %s  %s\n", r.ID, r.Command, r.Status,
				r.StartedAt.Format("2006-01-02 15:04:05"), r.Digest)
		}
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runPipeline(ctx context.Context, a *app.Application, command string) error {
	params, err := app.GeneratorParams(a.Config().Generator)
	if err != nil {
		return err
	}
	if *sample {
		preset := generator.SampleParams()
		preset.Seed, preset.Anchor = params.Seed, params.Anchor
		params = preset
	}
	if *seed >= 0 {
		params.Seed = *seed
	}

	opts := app.RunOptions{Command: command, Params: params}
	switch command {
	case "generate":
		opts.Export = true
	case "load":
		opts.Persist = true
	case "run":
		opts.Persist, opts.Export, opts.Reports = true, true, true
	}
	res, err := a.Run(ctx, opts)
	if res != nil && res.Record != nil {
		fmt.Print(app.Summary(res))
	}
	return err
}

func serve(ctx context.Context, a *app.Application) error {
	if err := a.StartBackgroundJobs(); err != nil {
		return err
	}
	adminapi.Init()
	return webserver.NewWebServer(a).Start(ctx)
}

func logViolations(err error) {
	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, v := range verr.Report.Violations {
		zap.L().Error("validation violation", zap.String("namespace", "validator"), zap.String("violation", v.String()))
	}
}

func exitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
