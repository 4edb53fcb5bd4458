// Command poolbench measures submit-to-completion throughput of the
// worker pool across several pool sizes and renders a comparison
// table.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"hellopool/pool"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

type result struct {
	workers   int
	total     time.Duration
	perSecond float64
}

func main() {
	var (
		jobs  = flag.Int("jobs", 1000, "number of jobs per run")
		sizes = flag.String("sizes", "1,2,4,8", "comma-separated pool sizes to compare")
		work  = flag.Duration("work", time.Millisecond, "simulated duration of one job")
	)
	flag.Parse()

	workerCounts, err := parseSizes(*sizes)
	if err != nil {
		red.Fprintf(os.Stderr, "invalid -sizes: %v\n", err)
		os.Exit(1)
	}

	bold.Printf("poolbench: %d jobs of %v each\n\n", *jobs, *work)

	results := make([]result, 0, len(workerCounts))
	for _, n := range workerCounts {
		r, err := runOnce(n, *jobs, *work)
		if err != nil {
			red.Fprintf(os.Stderr, "pool size %d: %v\n", n, err)
			os.Exit(1)
		}
		results = append(results, r)
	}

	fmt.Println()
	renderResults(results)
}

// runOnce drives one pool through the full workload and measures the
// wall time from first submit to complete drain.
func runOnce(workers, jobs int, work time.Duration) (result, error) {
	p, err := pool.New(workers, pool.WithQueueCapacity(jobs))
	if err != nil {
		return result{}, err
	}

	bar := progressbar.NewOptions(jobs,
		progressbar.OptionSetDescription(fmt.Sprintf("%2d workers", workers)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	)

	start := time.Now()
	for i := 0; i < jobs; i++ {
		err := p.SubmitFunc(func() {
			time.Sleep(work)
			_ = bar.Add(1)
		})
		if err != nil {
			p.Close()
			return result{}, err
		}
	}
	p.Close() // drains every submitted job
	total := time.Since(start)
	_ = bar.Finish()
	fmt.Println()

	return result{
		workers:   workers,
		total:     total,
		perSecond: float64(jobs) / total.Seconds(),
	}, nil
}

func renderResults(results []result) {
	baseline := results[0].total

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Workers", "Total Time", "Jobs/sec", "Speedup")
	for _, r := range results {
		speedup := float64(baseline) / float64(r.total)
		_ = table.Append(
			strconv.Itoa(r.workers),
			r.total.Round(time.Millisecond).String(),
			fmt.Sprintf("%.0f", r.perSecond),
			fmt.Sprintf("%.2fx", speedup),
		)
	}
	if err := table.Render(); err != nil {
		red.Fprintln(os.Stderr, "failed to render results table")
		return
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.total < best.total {
			best = r
		}
	}
	green.Printf("\nfastest: %d workers (%v)\n", best.workers, best.total.Round(time.Millisecond))
}

func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("pool size must be at least 1, got %d", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	return sizes, nil
}
