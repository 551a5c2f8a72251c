package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/export"
	"go.uber.org/zap"
)

// topValues is how many most frequent values a string column profile keeps.
const topValues = 3

// NumericProfile summarizes an int or float column.
type NumericProfile struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// ValueCount is one distinct value and its frequency.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TextProfile summarizes a string column.
type TextProfile struct {
	Distinct int          `json:"distinct"`
	Top      []ValueCount `json:"top"`
}

type ColumnProfile struct {
	Name    string          `json:"name"`
	Kind    string          `json:"kind"`
	Numeric *NumericProfile `json:"numeric,omitempty"`
	Text    *TextProfile    `json:"text,omitempty"`
}

type TableProfile struct {
	Table   string          `json:"table"`
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Profile computes a column profile of every table of ds. Tables are
// profiled concurrently on a bounded worker pool; the result keeps table order.
func Profile(ds *domain.Dataset) ([]TableProfile, error) {
	pool, err := ants.NewPool(len(domain.TableNames))
	if err != nil {
		return nil, errors.Wrap(err, "create profile pool")
	}
	defer pool.Release()

	profiles := make([]TableProfile, len(domain.TableNames))
	errs := make([]error, len(domain.TableNames))
	var wg sync.WaitGroup
	for i, table := range domain.TableNames {
		i, table := i, table
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			profiles[i], errs[i] = profileTable(ds, table)
		}); err != nil {
			wg.Done()
			errs[i] = errors.Wrapf(err, "submit %s", table)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	zap.L().Debug("dataset profiled", zap.String("namespace", "report"), zap.Int("tables", len(profiles)))
	return profiles, nil
}

func profileTable(ds *domain.Dataset, table string) (TableProfile, error) {
	data, err := export.TableCSV(ds, table)
	if err != nil {
		return TableProfile{}, err
	}
	tp := TableProfile{Table: table}
	if ds.Counts()[table] == 0 {
		return tp, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data))
	if df.Err != nil {
		return TableProfile{}, errors.Wrapf(df.Err, "read %s", table)
	}
	tp.Rows = df.Nrow()
	for _, name := range df.Names() {
		col := df.Col(name)
		cp := ColumnProfile{Name: name, Kind: string(col.Type())}
		switch col.Type() {
		case series.Int, series.Float:
			np, err := numericProfile(col.Float())
			if err != nil {
				return TableProfile{}, errors.Wrapf(err, "profile %s.%s", table, name)
			}
			cp.Numeric = np
		default:
			cp.Text = textProfile(col.Records())
		}
		tp.Columns = append(tp.Columns, cp)
	}
	return tp, nil
}

func numericProfile(values []float64) (*NumericProfile, error) {
	data := stats.Float64Data(values)
	np := &NumericProfile{Count: data.Len()}
	var err error
	if np.Min, err = data.Min(); err != nil {
		return nil, err
	}
	if np.Max, err = data.Max(); err != nil {
		return nil, err
	}
	if np.Mean, err = data.Mean(); err != nil {
		return nil, err
	}
	if np.Median, err = data.Median(); err != nil {
		return nil, err
	}
	if np.StdDev, err = data.StandardDeviation(); err != nil {
		return nil, err
	}
	if np.P25, err = data.Percentile(25); err != nil {
		return nil, err
	}
	if np.P75, err = data.Percentile(75); err != nil {
		return nil, err
	}
	return np, nil
}

func textProfile(values []string) *TextProfile {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	top := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		top = append(top, ValueCount{Value: v, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Value < top[j].Value
	})
	if len(top) > topValues {
		top = top[:topValues]
	}
	return &TextProfile{Distinct: len(counts), Top: top}
}

// ProfileMarkdown renders profiles as one markdown section per table.
func ProfileMarkdown(profiles []TableProfile) string {
	var b strings.Builder
	b.WriteString("# E-commerce Data Profile\n\n")
	for _, tp := range profiles {
		fmt.Fprintf(&b, "## %s\n\n**Rows:** %d\n\n", tp.Table, tp.Rows)

		var numeric, text []ColumnProfile
		for _, c := range tp.Columns {
			if c.Numeric != nil {
				numeric = append(numeric, c)
			} else {
				text = append(text, c)
			}
		}
		if len(numeric) > 0 {
			b.WriteString("| Column | Count | Min | P25 | Median | Mean | P75 | Max | StdDev |\n")
			b.WriteString("|--------|-------|-----|-----|--------|------|-----|-----|--------|\n")
			for _, c := range numeric {
				n := c.Numeric
				fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
					c.Name, n.Count, n.Min, n.P25, n.Median, n.Mean, n.P75, n.Max, n.StdDev)
			}
			b.WriteString("\n")
		}
		if len(text) > 0 {
			b.WriteString("| Column | Distinct | Top values |\n")
			b.WriteString("|--------|----------|------------|\n")
			for _, c := range text {
				top := make([]string, 0, len(c.Text.Top))
				for _, vc := range c.Text.Top {
					top = append(top, fmt.Sprintf("%s (%d)", vc.Value, vc.Count))
				}
				fmt.Fprintf(&b, "| %s | %d | %s |\n", c.Name, c.Text.Distinct, strings.Join(top, ", "))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
