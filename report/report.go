// Package report renders the console output of a simulation: the muster of
// the strategies, their results and the dice history.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
	"github.com/luca-patrignani/crapsim/simulation"
)

// Context carries the state of one report. The caller owns it and passes it
// to every section it prints, so that headers are shown once.
type Context struct {
	w       io.Writer
	printer *message.Printer
	headers map[craps.Measure]bool
}

// NewContext returns a report writing to w with numbers formatted for tag.
func NewContext(w io.Writer, tag language.Tag) *Context {
	return &Context{w: w, printer: message.NewPrinter(tag), headers: make(map[craps.Measure]bool)}
}

func (c *Context) int(n int) string {
	return c.printer.Sprintf("%d", n)
}

func (c *Context) percent(f float64) string {
	return c.printer.Sprintf("%.2f", f)
}

func (c *Context) write(s string) error {
	_, err := io.WriteString(c.w, s)
	return err
}

// Banner prints the simulation summary line.
func (c *Context) Banner(id string, runs, strategies, workers int) error {
	return c.write(pterm.DefaultSection.Sprint(
		c.printer.Sprintf("Simulation %s: %d runs of %d strategies on %d workers", id, runs, strategies, workers)))
}

// Muster prints every setting of every strategy.
func (c *Context) Muster(musters []simulation.StrategyMuster) error {
	if err := c.write(pterm.DefaultSection.Sprint("Muster")); err != nil {
		return err
	}
	for _, m := range musters {
		data := pterm.TableData{{"Setting", "Value"}}
		for _, s := range m.Settings {
			data = append(data, []string{s.Key, s.Value})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return fmt.Errorf("render muster of %q: %w", m.Name, err)
		}
		if err := c.write(pterm.DefaultSection.WithLevel(2).Sprint(m.Name) + table + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// TallyLine formats the progress of a running simulation.
func (c *Context) TallyLine(done, total int) string {
	return c.printer.Sprintf("Completed %d out of %d runs", done, total)
}

// Results prints the statistics of every strategy, one table per measure.
func (c *Context) Results(res *simulation.Result) error {
	if err := c.write(pterm.DefaultSection.Sprint("Results")); err != nil {
		return err
	}
	for _, m := range []craps.Measure{craps.MeasureRolls, craps.MeasureBankroll} {
		var rows [][]string
		for _, sr := range res.Strategies {
			if sr.Measure() == m {
				rows = append(rows, c.resultRow(sr))
			}
		}
		if len(rows) == 0 {
			continue
		}
		data := pterm.TableData{}
		if !c.headers[m] {
			c.headers[m] = true
			data = append(data, c.resultHeader(m))
		}
		data = append(data, rows...)
		table, err := pterm.DefaultTable.WithHasHeader(len(data) > len(rows)).WithRightAlignment().WithData(data).Srender()
		if err != nil {
			return fmt.Errorf("render results: %w", err)
		}
		if err := c.write(table + "\n"); err != nil {
			return err
		}
	}
	return c.write(c.printer.Sprintf("%d runs in %s\n", res.Runs, res.Elapsed.Round(time.Millisecond)))
}

func (c *Context) resultHeader(m craps.Measure) []string {
	return []string{
		"Name", "Runs", "Wins", "Losses", "Win %",
		m.String() + " at Win Avg", "Min", "Max",
		m.String() + " at Loss Avg", "Min", "Max",
		"Max Bankroll", "Pushes", "Returns",
	}
}

func (c *Context) resultRow(sr simulation.StrategyResult) []string {
	st := sr.Statistics
	return []string{
		sr.Name(),
		c.int(st.Runs),
		c.int(st.Wins),
		c.int(st.Losses),
		c.percent(st.WinPercent()),
		c.int(int(st.WinAverage())),
		c.int(st.WinMin),
		c.int(st.WinMax),
		c.int(int(st.LossAverage())),
		c.int(st.LossMin),
		c.int(st.LossMax),
		c.int(st.MaxBankroll),
		c.int(st.Pushes),
		c.int(st.Returns),
	}
}

// Dice prints how often each value came up.
func (c *Context) Dice(h dice.Histogram) error {
	if err := c.write(pterm.DefaultSection.Sprint("Dice History")); err != nil {
		return err
	}
	data := pterm.TableData{{"Value", "Rolled", "%"}}
	bars := make(pterm.Bars, 0, 11)
	for v := 2; v <= 12; v++ {
		data = append(data, []string{strconv.Itoa(v), c.int(h.Count(v)), c.percent(h.Percent(v))})
		bars = append(bars, pterm.Bar{Label: strconv.Itoa(v), Value: h.Count(v)})
	}
	total := 0.0
	if h.Total() > 0 {
		total = 100
	}
	data = append(data, []string{"Total", c.int(h.Total()), c.percent(total)})
	table, err := pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render dice history: %w", err)
	}
	if err := c.write(table + "\n"); err != nil {
		return err
	}
	if h.Total() == 0 {
		return nil
	}
	chart, err := pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Srender()
	if err != nil {
		return fmt.Errorf("render dice chart: %w", err)
	}
	return c.write(chart + "\n")
}

// Report prints the results followed by the dice history.
func (c *Context) Report(res *simulation.Result) error {
	if err := c.Results(res); err != nil {
		return err
	}
	return c.Dice(res.Dice)
}
