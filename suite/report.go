package suite

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

type Result struct {
	Name     string
	Err      error
	Duration time.Duration
	Leaked   []string // properties that outlived the restore
	Missing  []string // pre-existing properties the case removed
}

func (r Result) Ok() bool {
	return r.Err == nil
}

func (r Result) Clean() bool {
	return len(r.Leaked) == 0 && len(r.Missing) == 0
}

type Report struct {
	Suite   string
	RunID   string
	Started time.Time
	Elapsed time.Duration
	Results []Result
}

func (r *Report) Passed() int {
	passed := 0
	for _, res := range r.Results {
		if res.Ok() {
			passed++
		}
	}
	return passed
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

func (r *Report) Ok() bool {
	return r.Failed() == 0
}

// Render writes one row per case plus a totals footer.
func (r *Report) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	// keep the footer verbatim, the run id must stay greppable against the logs
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"case", "status", "time", "hygiene"})

	for _, res := range r.Results {
		status := "pass"
		if res.Err != nil {
			status = "fail: " + res.Err.Error()
		}
		hygiene := "clean"
		if !res.Clean() {
			hygiene = fmt.Sprintf("leaked %d, missing %d", len(res.Leaked), len(res.Missing))
		}
		table.Append([]string{res.Name, status, res.Duration.String(), hygiene})
	}

	table.SetFooter([]string{
		r.Suite,
		fmt.Sprintf("%d/%d passed", r.Passed(), len(r.Results)),
		r.Elapsed.String(),
		r.RunID,
	})
	table.Render() // Send output
}
