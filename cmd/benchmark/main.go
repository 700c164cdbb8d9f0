package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/aron/lazy/fixture"
	"github.com/aron/lazy/stamp"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Compare the fixture and stamp property engines",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Measurement samples per scenario",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to default.pgo",
				Value: true,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	ww = []int{1, 10, 100}
	hh = []int{1, 10, 100}
)

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(itersKey))

	if cmd.Bool(profileKey) {
		f, err := os.Create("default.pgo")
		if err != nil {
			return err
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkFixture(10, false)
	benchmarkStamp(10, false)

	benchmarkFixture(iters, true)
	benchmarkStamp(iters, true)
	return nil
}

// declareFixtureChains installs w chains of h derived properties, each
// factory reading its predecessor, and returns the leaf names.
func declareFixtureChains(set *fixture.Binder, w, h int) []string {
	leaves := make([]string, w)
	for i := 0; i < w; i++ {
		prev := fmt.Sprintf("p_%d_0", i)
		if err := set.Set(prev, i); err != nil {
			log.Fatal(err)
		}
		for j := 1; j < h; j++ {
			name := fmt.Sprintf("p_%d_%d", i, j)
			dep := prev
			err := set.Set(name, func(c *fixture.Context) (any, error) {
				v, err := fixture.Get[int](c, dep)
				if err != nil {
					return nil, err
				}
				return v + 1, nil
			})
			if err != nil {
				log.Fatal(err)
			}
			prev = name
		}
		leaves[i] = prev
	}
	return leaves
}

func benchmarkFixture(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("fixture (flag-based), %s samples", humanize.Comma(int64(iters))))
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	sum := 0
	for _, w := range ww {
		for _, h := range hh {
			ctx := fixture.New()
			set := ctx.Binder(fixture.DefaultMethod)

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				leaves := declareFixtureChains(set, w, h)
				for _, leaf := range leaves {
					sum += ctx.MustGet(leaf).(int)
				}
				set.Restore()
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("declare+resolve: %d * %d", w, h), tach)

			leaves := declareFixtureChains(set, w, h)
			for _, leaf := range leaves {
				sum += ctx.MustGet(leaf).(int)
			}
			tach = tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				for _, leaf := range leaves {
					sum += ctx.MustGet(leaf).(int)
				}
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("memoized read: %d * %d", w, h), tach)
			set.Restore()

			tach = tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				declareFixtureChains(set, w, h)
				set.Restore()
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("declare+restore: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
		log.Printf("checksum %d", sum)
	}
}

// declareStampChains mirrors declareFixtureChains for the stamp engine.
func declareStampChains(set *stamp.Binder, w, h int) []string {
	leaves := make([]string, w)
	for i := 0; i < w; i++ {
		prev := fmt.Sprintf("p_%d_0", i)
		if err := set.Set(prev, i); err != nil {
			log.Fatal(err)
		}
		for j := 1; j < h; j++ {
			name := fmt.Sprintf("p_%d_%d", i, j)
			dep := prev
			err := set.Set(name, func(c *stamp.Context) (any, error) {
				v, err := stamp.Get[int](c, dep)
				if err != nil {
					return nil, err
				}
				return v + 1, nil
			})
			if err != nil {
				log.Fatal(err)
			}
			prev = name
		}
		leaves[i] = prev
	}
	return leaves
}

func benchmarkStamp(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("stamp (self-rewriting), %s samples", humanize.Comma(int64(iters))))
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	sum := 0
	for _, w := range ww {
		for _, h := range hh {
			ctx := stamp.New()
			set := ctx.Binder(stamp.DefaultMethod)

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				leaves := declareStampChains(set, w, h)
				for _, leaf := range leaves {
					sum += ctx.MustGet(leaf).(int)
				}
				set.Restore()
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("declare+resolve: %d * %d", w, h), tach)

			leaves := declareStampChains(set, w, h)
			for _, leaf := range leaves {
				sum += ctx.MustGet(leaf).(int)
			}
			tach = tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				for _, leaf := range leaves {
					sum += ctx.MustGet(leaf).(int)
				}
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("memoized read: %d * %d", w, h), tach)
			set.Restore()

			tach = tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				declareStampChains(set, w, h)
				set.Restore()
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("declare+restore: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
		log.Printf("checksum %d", sum)
	}
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}
