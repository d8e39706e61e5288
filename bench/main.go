// Command bench times the two axes spec.md's performance-sensitive paths
// live on — scalar multiplication policy (fast wNAF vs constant-time safe
// window) and modular reduction strategy (plain, Crandall, Barrett,
// Montgomery) — and renders the results as an HTML bar chart, adapting the
// teacher's go-echarts sweep-plotting approach
// (Additionnals/plot_pacs_sweep.go) from a parameter-search scatter plot to
// a fixed-axis timing comparison.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"stb34101/bign"
	"stb34101/ecp"
	"stb34101/prof"
	"stb34101/rng"
	"stb34101/zz"
)

func main() {
	iterations := flag.Int("iterations", 64, "samples per measured configuration")
	out := flag.String("out", "bench/sweep.html", "output HTML path")
	flag.Parse()

	log.Printf("[bench] scalar-mult sweep over %d iterations", *iterations)
	scalarRows := scalarMulSweep(*iterations)

	log.Printf("[bench] reduction-strategy sweep over %d iterations", *iterations)
	reduceRows := reductionSweep(*iterations)

	scalarChart := barChart("scalar multiplication, fast vs. constant-time policy", "microseconds/op", scalarRows)
	reduceChart := barChart("modular reduction strategy", "microseconds/op", reduceRows)

	page := components.NewPage().SetPageTitle("scalar-mult and reduction timing sweep")
	page.AddCharts(scalarChart, reduceChart)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("bench: create output: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("bench: render: %v", err)
	}
	log.Printf("[bench] wrote %s", *out)
}

type timingRow struct {
	label string
	us    float64
}

func scalarMulSweep(iterations int) []timingRow {
	for _, spec := range []struct {
		oid    string
		policy ecp.Policy
		label  string
	}{
		{bign.OID128, ecp.DefaultPolicy(), "l128-fast"},
		{bign.OID128, ecp.SafePolicy(), "l128-safe"},
		{bign.OID192, ecp.DefaultPolicy(), "l192-fast"},
		{bign.OID192, ecp.SafePolicy(), "l192-safe"},
	} {
		c, err := bign.Start(spec.oid, spec.policy)
		if err != nil {
			log.Printf("[bench] skip %s: %v", spec.label, err)
			continue
		}
		scalars := make([]zz.Int, iterations)
		for i := range scalars {
			kp, err := bign.GenKeypair(c, rng.System)
			if err != nil {
				log.Printf("[bench] skip %s: genkey: %v", spec.label, err)
				continue
			}
			scalars[i] = kp.D
		}
		g := c.BasePoint()
		for _, k := range scalars {
			opStart := time.Now()
			_ = c.ScalarMul(k, g)
			prof.Track(opStart, spec.label)
		}
	}
	return averageByLabel(prof.SnapshotAndReset())
}

func reductionSweep(iterations int) []timingRow {
	p256, err := bign.StdParams(bign.OID128)
	if err != nil {
		log.Fatalf("bench: load P256 params: %v", err)
	}
	mod := zz.FromOctets(reverseOctets(p256.P))
	n := mod.Hi()

	plain := zz.NewPlainReducer(mod)
	barrett := zz.NewBarrettReducer(mod)
	montgomery, err := zz.NewMontgomeryReducer(mod)
	if err != nil {
		log.Printf("[bench] skip montgomery: %v", err)
		montgomery = nil
	}

	crandallMod := zz.New(n)
	for i := range crandallMod {
		crandallMod[i] = ^zz.Word(0)
	}
	crandallMod[0] -= 188
	crandall, err := zz.NewCrandallReducer(crandallMod, 189)
	if err != nil {
		log.Printf("[bench] skip crandall: %v", err)
		crandall = nil
	}

	samples := make([]zz.Int, iterations)
	for i := range samples {
		buf := make([]byte, n*8*2)
		_ = rng.System.Read(buf)
		samples[i] = zz.FromOctets(buf)
	}

	bench := func(label string, r *zz.Reducer) {
		if r == nil {
			return
		}
		out := zz.New(n)
		for _, x := range samples {
			opStart := time.Now()
			_ = r.Reduce(out, x)
			prof.Track(opStart, label)
		}
	}
	bench("plain", plain)
	bench("barrett", barrett)
	bench("montgomery", montgomery)
	bench("crandall", crandall)
	return averageByLabel(prof.SnapshotAndReset())
}

// reverseOctets converts bign's big-endian Params wire encoding into zz's
// little-endian Int encoding.
func reverseOctets(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// averageByLabel collapses prof's per-operation entries into one row per
// label, in first-seen order, the way the raw samples were produced.
func averageByLabel(entries []prof.Entry) []timingRow {
	var order []string
	sums := make(map[string]time.Duration)
	counts := make(map[string]int)
	for _, e := range entries {
		if counts[e.Label] == 0 {
			order = append(order, e.Label)
		}
		sums[e.Label] += e.Dur
		counts[e.Label]++
	}
	rows := make([]timingRow, 0, len(order))
	for _, label := range order {
		avg := sums[label] / time.Duration(counts[label])
		rows = append(rows, timingRow{label: label, us: float64(avg.Microseconds())})
	}
	return rows
}

func barChart(title, yName string, rows []timingRow) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "configuration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	var labels []string
	var data []opts.BarData
	for _, r := range rows {
		labels = append(labels, r.label)
		data = append(data, opts.BarData{Value: r.us})
	}
	bar.SetXAxis(labels).AddSeries("us/op", data)
	return bar
}
