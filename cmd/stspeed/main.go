// Command stspeed plans a speed profile for one scenario file and reports
// the result as a table and optional plots, recording it in the run
// database when -db is set. "stspeed -db runs.db migrate <action>" manages
// the database schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/banshee-data/velocity.plan/internal/config"
	"github.com/banshee-data/velocity.plan/internal/db"
	"github.com/banshee-data/velocity.plan/internal/monitoring"
	"github.com/banshee-data/velocity.plan/internal/report"
	"github.com/banshee-data/velocity.plan/internal/scenario"
	"github.com/banshee-data/velocity.plan/internal/stspeed"
	"github.com/banshee-data/velocity.plan/internal/units"
	"github.com/banshee-data/velocity.plan/internal/version"
)

var (
	scenarioPath = flag.String("scenario", "", "Path to a scenario JSON file (required)")
	configPath   = flag.String("config", config.DefaultConfigPath, "Path to the tuning config JSON file")
	dbPath       = flag.String("db", "", "SQLite database to record the run in (disabled if empty)")
	pngDir       = flag.String("png", "", "Directory to write PNG plots to (disabled if empty)")
	htmlPath     = flag.String("html", "", "File to write the HTML chart page to (disabled if empty)")
	unitsFlag    = flag.String("units", units.MPS, "Display units: "+units.GetValidUnitsString())
	every        = flag.Int("every", 20, "Print every Nth sample in the table")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

// options collects the flag values so run can be driven from tests.
type options struct {
	Scenario string
	Config   string
	DB       string
	PNGDir   string
	HTML     string
	Units    string
	Every    int
}

func (o options) validate() error {
	if o.Scenario == "" {
		return errors.New("-scenario is required")
	}
	if err := units.Validate(o.Units); err != nil {
		return err
	}
	if o.Every < 1 {
		return fmt.Errorf("-every must be positive, got %d", o.Every)
	}
	return nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	monitoring.SetDebug(*debug)

	if flag.NArg() > 0 && flag.Arg(0) == "migrate" {
		if err := db.RunMigrateCommand(flag.Args()[1:], *dbPath, os.Stdout); err != nil {
			log.Fatalf("stspeed: %v", err)
		}
		return
	}

	opts := options{
		Scenario: *scenarioPath,
		Config:   *configPath,
		DB:       *dbPath,
		PNGDir:   *pngDir,
		HTML:     *htmlPath,
		Units:    strings.ToLower(*unitsFlag),
		Every:    *every,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("stspeed: %v", err)
	}
}

// run loads the inputs, plans once, and writes every requested output. A
// failed search is still recorded before its error is returned.
func run(ctx context.Context, o options, out io.Writer) error {
	if err := o.validate(); err != nil {
		return err
	}

	tuning, err := config.LoadTuningConfig(o.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	sc, err := scenario.Load(o.Scenario)
	if err != nil {
		return err
	}
	in, err := sc.ToInput()
	if err != nil {
		return err
	}

	planner := stspeed.NewPlanner(stspeed.ConfigFromTuning(tuning))
	data, stats, searchErr := planner.SearchWithStats(ctx, in)

	if o.DB != "" {
		if err := recordRun(ctx, o.DB, sc.Name, data, stats, searchErr); err != nil {
			return err
		}
	}
	if searchErr != nil {
		return fmt.Errorf("search failed: %w", searchErr)
	}

	printSummary(out, sc.Name, data, stats, o.Units, o.Every)

	if o.PNGDir != "" {
		if _, err := report.WritePlots(o.PNGDir, sc.Name, data, in.Boundaries); err != nil {
			return err
		}
	}
	if o.HTML != "" {
		if err := writeHTML(o.HTML, sc.Name, data, o.Units); err != nil {
			return err
		}
	}
	return nil
}

func recordRun(ctx context.Context, path, name string, data *stspeed.SpeedData, stats stspeed.CycleStats, searchErr error) error {
	store, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	// Record against a fresh context so an interrupted search is still saved.
	recordCtx := context.WithoutCancel(ctx)
	id, err := store.RecordRun(recordCtx, db.RunFromSearch(name, data, stats, searchErr), data.Points())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	monitoring.Logf("Recorded run %s for %s", id, name)
	return nil
}

func writeHTML(path, title string, data *stspeed.SpeedData, unit string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create html file: %w", err)
	}
	if err := report.RenderHTML(f, title, data, unit); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, name string, data *stspeed.SpeedData, stats stspeed.CycleStats, unit string, every int) {
	speedLabel := units.SpeedLabel(unit)
	distLabel := units.DistanceLabel(unit)

	fmt.Fprintf(w, "scenario %s: %d samples over %.2fs, distance %.2f%s, max speed %.2f%s\n",
		name, data.Len(), data.TotalTime(),
		units.ConvertDistance(data.TotalDistance(), unit), distLabel,
		units.ConvertSpeed(data.MaxSpeed(), unit), speedLabel)
	fmt.Fprintf(w, "solve %s (%d iterations), total %s\n", stats.Solve, stats.Iterations, stats.Total)
	fmt.Fprintf(w, "%8s %10s %10s %10s %10s\n", "t(s)", "s("+distLabel+")", "v("+speedLabel+")", "a", "jerk")

	points := data.Points()
	for i, p := range points {
		if i%every != 0 && i != len(points)-1 {
			continue
		}
		fmt.Fprintf(w, "%8.2f %10.3f %10.3f %10.3f %10.3f\n",
			p.T, units.ConvertDistance(p.S, unit), units.ConvertSpeed(p.V, unit), p.A, p.Da)
	}
}
