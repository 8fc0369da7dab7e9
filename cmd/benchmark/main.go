package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/delaneyj/editorstate/pkg/statetree"
	"github.com/delaneyj/editorstate/pkg/ui"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const iterationsKey = "iterations"

var (
	bursts = []int{1, 10, 100, 1_000}
	shapes = []struct{ width, depth int }{
		{1, 10}, {2, 4}, {2, 8}, {4, 4}, {10, 2}, {10, 3},
	}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Benchmark batched state changes and render passes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  iterationsKey,
				Usage: "Iterations per configuration",
				Value: 100,
			},
		},
		Action: benchmark,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func benchmark(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting benchmark, please wait...")
	defer log.Print("Finished benchmark")

	iters := int(cmd.Int(iterationsKey))
	if err := benchmarkDebounce(iters); err != nil {
		return err
	}
	return benchmarkRenderTree(iters)
}

// labelView renders one label per host re-render.
type labelView struct {
	count *statetree.Cell[int]
}

func (v *labelView) Init(h *statetree.Host) error {
	var err error
	v.count, err = statetree.NewCell(h, 0)
	return err
}

func (v *labelView) Render(h *statetree.Host) error {
	h.Anchor().Add(ui.NewLabel(strconv.Itoa(v.count.Get())))
	return nil
}

// fakeClock only moves when told to, so the debounce deadline is exact.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func benchmarkDebounce(iters int) error {
	tbl := table.NewWriter()
	tbl.SetTitle("Debounced state changes")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"burst", "re-renders", "avg", "min", "p75", "p99", "max"})

	for _, burst := range bursts {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		renders := 0

		for i := 0; i < iters; i++ {
			clock := &fakeClock{now: time.Unix(0, 0)}
			view := &labelView{}
			h, err := statetree.NewHost(statetree.NewContext(), "bench", ui.NewBox("root"), view,
				statetree.WithClock(clock.Now))
			if err != nil {
				return err
			}
			if err := h.Open(); err != nil {
				return err
			}

			start := time.Now()
			for j := 0; j < burst; j++ {
				view.count.Set(j + 1)
			}
			clock.now = clock.now.Add(h.Scheduler().Delay())
			if err := h.Tick(clock.now); err != nil {
				return err
			}
			tach.AddTime(time.Since(start))

			renders += h.RenderCount()
			if err := h.Close(); err != nil {
				return err
			}
		}

		if renders != iters {
			return fmt.Errorf("burst of %d: expected %d re-renders, got %d", burst, iters, renders)
		}

		calc := tach.Calc()
		tbl.AppendRow(table.Row{
			burst,
			renders / iters,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		})
	}
	tbl.Render()
	return nil
}

// branch adds width children under itself until depth is reached. Each child
// anchors to a fresh slot under its parent's anchor.
type branch struct {
	width, depth int
}

func (b *branch) Init(n *statetree.Node) error {
	if b.depth == 0 {
		return nil
	}
	for i := 0; i < b.width; i++ {
		slot := ui.NewBox("")
		n.Anchor().Add(slot)
		if _, err := n.AddComponent(slot, &branch{width: b.width, depth: b.depth - 1}); err != nil {
			return err
		}
	}
	return nil
}

func (b *branch) Render(n *statetree.Node) (statetree.Element, error) {
	return ui.NewLabel(strconv.FormatUint(n.ID(), 16)), nil
}

type branchView struct {
	width, depth int
}

func (v *branchView) Init(h *statetree.Host) error { return nil }

func (v *branchView) Render(h *statetree.Host) error {
	_, err := h.AddComponent(h.Anchor(), &branch{width: v.width, depth: v.depth})
	return err
}

func benchmarkRenderTree(iters int) error {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"shape", "nodes", "passes", "best pass", "nodes/ms"})

	for _, shape := range shapes {
		log.Printf("Running %dx%d render tree", shape.width, shape.depth)
		h, err := statetree.NewHost(statetree.NewContext(), "bench", ui.NewBox("root"),
			&branchView{width: shape.width, depth: shape.depth},
			statetree.WithRenderTree(true), statetree.WithBatching(false))
		if err != nil {
			return err
		}
		if err := h.Open(); err != nil {
			return err
		}

		nodes := 0
		h.Tree().Walk(func(*statetree.Node) bool {
			nodes++
			return true
		})

		best := time.Hour
		for i := 0; i < iters; i++ {
			h.Tree().Walk(func(n *statetree.Node) bool {
				n.MarkDirty()
				return true
			})
			start := time.Now()
			if err := h.Tree().Render(); err != nil {
				return err
			}
			if d := time.Since(start); d < best {
				best = d
			}
		}

		rate := float64(nodes) / (float64(best) / float64(time.Millisecond))
		tw.Append([]string{
			fmt.Sprintf("%dx%d", shape.width, shape.depth),
			humanize.Comma(int64(nodes)),
			humanize.Comma(int64(h.Tree().Passes())),
			fmt.Sprint(best),
			humanize.Comma(int64(rate)),
		})
		if err := h.Close(); err != nil {
			return err
		}
	}
	tw.Render()
	return nil
}
