// Command uncorpora filters translation memory exchange (TMX) documents from
// the United Nations parallel corpus. It keeps a chosen set of languages,
// can drop voting records and can reduce segments to plain text, streaming
// the document one translation unit at a time.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	apperrors "github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/pipeline"
	"github.com/arafalov/uncorpora/core/rewrite"
	"github.com/arafalov/uncorpora/core/sqlite"
	"github.com/arafalov/uncorpora/core/tmx"
	"github.com/arafalov/uncorpora/core/xml"
	"github.com/arafalov/uncorpora/internal/archive"
	"github.com/arafalov/uncorpora/internal/digest"
	"github.com/arafalov/uncorpora/internal/ledger"
	"github.com/arafalov/uncorpora/internal/logging"
	"github.com/arafalov/uncorpora/internal/validation"
)

const version = "0.4.0"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel  string          `name:"log-level" enum:"debug,info,warn,error" default:"info" help:"Log level (${enum})"`
	LogFormat string          `name:"log-format" enum:"text,json" default:"text" help:"Log format (${enum})"`
	Profile   kong.ConfigFlag `help:"YAML profile supplying flag defaults"`
}

// setupLogging points the global logger at w with the chosen settings.
func (g *Globals) setupLogging(w io.Writer) error {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return err
	}
	logging.SetLogger(logging.NewLogger(w, level, format))
	return nil
}

// CLI defines the command-line interface for uncorpora.
type CLI struct {
	Globals

	Filter  FilterCmd  `cmd:"" default:"withargs" help:"Filter a TMX document (default command)"`
	Audit   AuditCmd   `cmd:"" help:"Count units, variants and markup in a TMX document"`
	Runs    RunsGroup  `cmd:"" help:"Inspect recorded filter runs"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// RunsGroup contains run ledger operations.
type RunsGroup struct {
	List RunsListCmd `cmd:"" help:"List recorded runs, newest first"`
	Show RunsShowCmd `cmd:"" help:"Show one recorded run"`
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("uncorpora"),
		kong.Description("Streaming filter for UN corpus TMX documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(loadProfile),
		kong.Vars{"langs": strings.Join(tmx.Languages, ",")},
	}
	return kong.New(cli, append(base, opts...)...)
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli,
		kong.Writers(stdout, stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if err := cli.setupLogging(stderr); err != nil {
		return err
	}
	return kctx.Run(&cli.Globals)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "uncorpora: error: %v\n", err)
		os.Exit(1)
	}
}

// FilterCmd streams a document through the rewriter.
type FilterCmd struct {
	Input     string `arg:"" optional:"" default:"-" help:"TMX document (.tmx, .gz or .xz; - for stdin)"`
	Output    string `short:"o" default:"-" help:"Output path; a .xz or .gz suffix compresses (- for stdout)"`
	Langs     string `default:"${langs}" help:"Comma-separated languages to keep (${langs})"`
	NoVote    bool   `name:"novote" help:"Drop translation units that record a vote"`
	Plaintext bool   `help:"Remove footnotes and flatten inline markers"`
	Sessions  string `help:"Comma-separated session numbers (55-62); checked but not yet applied"`
	Ledger    string `help:"SQLite database to record the run in"`
}

// options parses and validates the flags before any stream is opened.
func (c *FilterCmd) options() (validation.FilterOptions, error) {
	opts := validation.FilterOptions{
		Input:     c.Input,
		Output:    c.Output,
		Ledger:    c.Ledger,
		NoVote:    c.NoVote,
		Plaintext: c.Plaintext,
	}

	langs, err := validation.ParseCodes("langs", c.Langs)
	if err != nil {
		return opts, err
	}
	opts.Langs = langs

	if strings.TrimSpace(c.Sessions) != "" {
		sessions, err := validation.ParseCodes("sessions", c.Sessions)
		if err != nil {
			return opts, err
		}
		opts.Sessions = sessions
	}

	return opts, validation.ValidateOptions(opts)
}

func (c *FilterCmd) Run(ctx context.Context) error {
	opts, err := c.options()
	if err != nil {
		return err
	}

	rw, err := rewrite.New(rewrite.Config{
		KeepLanguages: opts.Langs,
		AllLanguages:  tmx.Languages,
		DropVoteUnits: opts.NoVote,
		Plaintext:     opts.Plaintext,
		KeepSessions:  opts.Sessions,
	})
	if err != nil {
		return err
	}

	rec := &ledger.Run{
		ID:     ledger.NewID(),
		Input:  opts.Input,
		Output: opts.Output,
		Settings: ledger.Settings{
			Langs:     opts.Langs,
			NoVote:    opts.NoVote,
			Plaintext: opts.Plaintext,
			Sessions:  opts.Sessions,
		},
		StartedAt: time.Now().UTC(),
	}
	ctx = logging.WithRunID(ctx, rec.ID)
	log := logging.LoggerFromContext(ctx)

	if len(opts.Sessions) > 0 {
		log.Warn("session filtering is not applied", "sessions", strings.Join(opts.Sessions, ","))
	}
	logging.RunStart(ctx, opts.Input, opts.Output,
		"langs", strings.Join(opts.Langs, ","),
		"removed", strings.Join(rw.Removed(), ","),
		"novote", opts.NoVote,
		"plaintext", opts.Plaintext,
	)

	runErr := filter(ctx, rw, rec)
	rec.FinishedAt = time.Now().UTC()
	if runErr != nil {
		rec.Status, rec.Error = ledger.StatusFailed, runErr.Error()
		logging.RunFailed(ctx, runErr, "units", rec.Stats.Units)
	} else {
		rec.Status = ledger.StatusOK
		logging.RunEnd(ctx, rec.Stats.Units, rec.Stats.Dropped, rec.Duration(),
			"bytes", rec.Bytes,
			"blake3", rec.Digest.BLAKE3,
		)
	}

	if c.Ledger != "" {
		if err := recordRun(ctx, c.Ledger, rec); err != nil {
			if runErr != nil {
				log.Error("could not record failed run", "error", err)
				return runErr
			}
			return err
		}
	}
	return runErr
}

// filter runs the pipeline from rec.Input to rec.Output and fills in the
// run's statistics and output digest.
func filter(ctx context.Context, rw *rewrite.Rewriter, rec *ledger.Run) (err error) {
	in, err := archive.OpenInput(rec.Input)
	if err != nil {
		return apperrors.NewIO("open", rec.Input, err)
	}
	defer in.Close()

	out, err := archive.CreateOutput(rec.Output)
	if err != nil {
		return apperrors.NewIO("create", rec.Output, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = apperrors.NewIO("close", rec.Output, cerr)
		}
	}()

	dw := digest.NewWriter(out)
	w := xml.NewWriter(dw)
	p := pipeline.New(rw, pipeline.WithLogger(logging.LoggerFromContext(ctx)))

	rec.Stats, err = p.RunContext(ctx, xml.NewReader(in), w)
	if err != nil {
		return apperrors.Wrapf(err, "filter %s", rec.Input)
	}
	if err := w.Flush(); err != nil {
		return apperrors.NewIO("write", rec.Output, err)
	}
	rec.Digest = dw.Sum()
	rec.Bytes = dw.Size()
	return nil
}

func recordRun(ctx context.Context, path string, rec *ledger.Run) error {
	l, err := ledger.Open(ctx, path)
	if err != nil {
		return err
	}
	defer l.Close()

	if _, err := l.Record(ctx, rec); err != nil {
		return apperrors.Wrapf(err, "record run in %s", path)
	}
	logging.LoggerFromContext(ctx).Debug("run_recorded", "ledger", path)
	return nil
}

// AuditCmd reports what a document contains without changing it.
type AuditCmd struct {
	Input        string `arg:"" optional:"" default:"-" help:"TMX document (.tmx, .gz or .xz; - for stdin)"`
	RequireLangs string `name:"require-langs" help:"Fail unless every unit has a variant in each of these languages"`
	JSON         bool   `help:"Print the report as JSON"`
}

func (c *AuditCmd) Run(kctx *kong.Context) error {
	var want []string
	if strings.TrimSpace(c.RequireLangs) != "" {
		codes, err := validation.ParseCodes("require-langs", c.RequireLangs)
		if err != nil {
			return err
		}
		want = codes
	}
	if !archive.IsStdio(c.Input) {
		if err := validation.ValidatePath(c.Input); err != nil {
			return apperrors.NewValidation("input", err.Error())
		}
	}

	in, err := archive.OpenInput(c.Input)
	if err != nil {
		return apperrors.NewIO("open", c.Input, err)
	}
	defer in.Close()

	report, err := xml.Audit(in)
	if err != nil {
		return err
	}

	if c.JSON {
		if err := printJSON(kctx.Stdout, report); err != nil {
			return err
		}
	} else {
		printReport(kctx.Stdout, report)
	}

	if missing := report.Incomplete(want); len(missing) > 0 {
		return apperrors.NewValidation("require-langs",
			fmt.Sprintf("some units lack variants in: %s", strings.Join(missing, ",")))
	}
	return nil
}

func printReport(w io.Writer, r *xml.Report) {
	fmt.Fprintf(w, "Units:      %s\n", humanize.Comma(int64(r.Units)))
	fmt.Fprintf(w, "Vote units: %s\n", humanize.Comma(int64(r.VoteUnits)))
	fmt.Fprintf(w, "Footnotes:  %s\n", humanize.Comma(int64(r.Footnotes)))
	fmt.Fprintf(w, "Markers:    %s\n", humanize.Comma(int64(r.Markers)))
	fmt.Fprintln(w, "Variants:")
	for _, code := range r.Languages() {
		fmt.Fprintf(w, "  %-4s %s\n", code, humanize.Comma(int64(r.Variants[code])))
	}
}

// RunsListCmd lists runs from a ledger.
type RunsListCmd struct {
	Ledger string `required:"" type:"existingfile" help:"SQLite run database"`
	Limit  int    `default:"20" help:"Maximum number of runs to show (0 for all)"`
	JSON   bool   `help:"Print runs as JSON"`
}

func (c *RunsListCmd) Run(ctx context.Context, kctx *kong.Context) error {
	l, err := ledger.OpenReadOnly(c.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()

	runs, err := l.List(ctx, c.Limit)
	if err != nil {
		return err
	}
	if c.JSON {
		if runs == nil {
			runs = []*ledger.Run{}
		}
		return printJSON(kctx.Stdout, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(kctx.Stdout, "No runs recorded.")
		return nil
	}
	const row = "%-8s  %-20s  %-6s  %10s  %8s  %9s  %s\n"
	fmt.Fprintf(kctx.Stdout, row, "ID", "STARTED", "STATUS", "UNITS", "DROPPED", "SIZE", "INPUT")
	for _, r := range runs {
		fmt.Fprintf(kctx.Stdout, row,
			shortID(r.ID),
			r.StartedAt.Format(time.RFC3339),
			r.Status,
			humanize.Comma(int64(r.Stats.Units)),
			humanize.Comma(int64(r.Stats.Dropped)),
			humanize.Bytes(uint64(r.Bytes)),
			r.Input,
		)
	}
	return nil
}

// RunsShowCmd prints one run.
type RunsShowCmd struct {
	ID     string `arg:"" help:"Run ID or unique prefix"`
	Ledger string `required:"" type:"existingfile" help:"SQLite run database"`
	JSON   bool   `help:"Print the run as JSON"`
}

func (c *RunsShowCmd) Run(ctx context.Context, kctx *kong.Context) error {
	l, err := ledger.OpenReadOnly(c.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()

	r, err := l.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(kctx.Stdout, r)
	}

	w := kctx.Stdout
	fmt.Fprintf(w, "Run:       %s\n", r.ID)
	fmt.Fprintf(w, "Status:    %s\n", r.Status)
	fmt.Fprintf(w, "Input:     %s\n", r.Input)
	fmt.Fprintf(w, "Output:    %s\n", r.Output)
	fmt.Fprintf(w, "Languages: %s\n", strings.Join(r.Settings.Langs, ","))
	fmt.Fprintf(w, "No vote:   %t\n", r.Settings.NoVote)
	fmt.Fprintf(w, "Plaintext: %t\n", r.Settings.Plaintext)
	if len(r.Settings.Sessions) > 0 {
		fmt.Fprintf(w, "Sessions:  %s\n", strings.Join(r.Settings.Sessions, ","))
	}
	fmt.Fprintf(w, "Started:   %s (%s)\n", r.StartedAt.Format(time.RFC3339), humanize.Time(r.StartedAt))
	fmt.Fprintf(w, "Duration:  %s\n", r.Duration())
	fmt.Fprintf(w, "Units:     %s (%s dropped)\n", humanize.Comma(int64(r.Stats.Units)), humanize.Comma(int64(r.Stats.Dropped)))
	fmt.Fprintf(w, "Variants:  %s removed\n", humanize.Comma(int64(r.Stats.Variants)))
	fmt.Fprintf(w, "Footnotes: %s removed\n", humanize.Comma(int64(r.Stats.Footnotes)))
	fmt.Fprintf(w, "Markers:   %s flattened\n", humanize.Comma(int64(r.Stats.Markers)))
	if r.Status == ledger.StatusFailed {
		fmt.Fprintf(w, "Error:     %s\n", r.Error)
		return nil
	}
	fmt.Fprintf(w, "Size:      %s\n", humanize.Bytes(uint64(r.Bytes)))
	fmt.Fprintf(w, "SHA-256:   %s\n", r.Digest.SHA256)
	fmt.Fprintf(w, "BLAKE3:    %s\n", r.Digest.BLAKE3)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(kctx *kong.Context) error {
	fmt.Fprintf(kctx.Stdout, "uncorpora version %s\n", version)
	fmt.Fprintf(kctx.Stdout, "sqlite driver: %s\n", sqlite.GetInfo())
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
