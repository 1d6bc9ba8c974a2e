// Package command provides main command line interface
package command

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/genes3e7/Group-Balancer/internal/report"
	"github.com/genes3e7/Group-Balancer/internal/roster"
	"github.com/genes3e7/Group-Balancer/pkg/balancer"
)

// CLI main command line interface
type CLI struct {
	Roster    string        `arg:"" help:"Path to the roster file (.csv, .json or .jsonl)"`
	Groups    int           `short:"g" long:"groups" required:"" help:"Number of groups to create"`
	Budget    time.Duration `short:"t" long:"budget" default:"30s" help:"Wall-clock search budget"`
	OutputDir string        `short:"o" long:"output-dir" default:"./balanced-groups" help:"Directory to write report files"`
	Marker    string        `long:"marker" default:"*" help:"Name suffix flagging advantaged participants"`
	Seed      int64         `long:"seed" help:"Base random seed (0: time-based)"`
	Workers   int           `long:"workers" help:"Number of search workers (0: all CPUs)"`
	Template  string        `short:"T" long:"template" help:"Path to a summary template file (optional)"`

	Version kong.VersionFlag `short:"v" long:"version" help:"Print version and exit"`

	// Runtime context
	participants []balancer.Participant `kong:"-"`
	template     string                 `kong:"-"`
}

// Run run the command line
func (c *CLI) Run() error {
	if err := c.loadRoster(); err != nil {
		return err
	}
	if err := c.loadTemplate(); err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	// Early Ctrl+C stops the search and keeps the best found so far.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Launching dual parallel search for %s (press Ctrl+C to stop early)", c.Budget)

	params := balancer.Params{
		Workers:    c.Workers,
		Seed:       c.Seed,
		OnProgress: progressLogger(),
	}
	outcome, err := balancer.Solve(ctx, c.participants, c.Groups, c.Budget, params)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	w := &report.Writer{Dir: c.OutputDir, Template: c.template}
	if err := w.Write(c.Roster, outcome.Constrained, outcome.Unconstrained); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	summary, err := report.RenderSummary(c.template, report.BuildSummary(c.Roster, outcome.Constrained, outcome.Unconstrained))
	if err != nil {
		return err
	}
	fmt.Print(summary)
	fmt.Printf("Reports written to %s\n", c.OutputDir)
	return nil
}

func (c *CLI) loadRoster() error {
	entries, err := roster.Load(c.Roster)
	if err != nil {
		return fmt.Errorf("failed to load roster from %s: %w", c.Roster, err)
	}
	c.participants = roster.Classify(entries, c.Marker)

	stars := 0
	for _, p := range c.participants {
		if p.Advantaged {
			stars++
		}
	}
	log.Printf("Loaded %d participants (%d advantaged) from %s", len(c.participants), stars, c.Roster)

	if c.Groups > 0 && len(c.participants) < c.Groups*2 && len(c.participants) >= c.Groups {
		log.Printf("Warning: %d groups from %d participants makes very small groups (average %.1f per group)",
			c.Groups, len(c.participants), float64(len(c.participants))/float64(c.Groups))
	}
	return nil
}

func (c *CLI) loadTemplate() (err error) {
	if c.Template != "" {
		data, err := os.ReadFile(c.Template)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		c.template = string(data)
	}
	return
}

func progressLogger() func(balancer.Progress) {
	return func(p balancer.Progress) {
		log.Printf("Elapsed: %s | Best Constr: %s | Best Unconstr: %s",
			p.Elapsed.Truncate(time.Second), formatBest(p.BestConstrained), formatBest(p.BestUnconstrained))
	}
}

func formatBest(std float64) string {
	if math.IsInf(std, 1) {
		return "Init..."
	}
	return fmt.Sprintf("%.4f", std)
}
