// dictbench times inserts of every record of a dictionary file, as written
// by gendict, into Go's map and into open-addressing tables with linear,
// quadratic and double-hash probing.
//
//	dictbench [-summary] <dictionary-file>
//
// Without -summary it prints one "<label> <nanoseconds>" line per insert.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"

	"gendict/dict"
	"gendict/hashtable"
	"gendict/utils"
)

const APP_NAME = "dictbench"

type putter interface {
	put(r dict.Record, v int)
}

type stdMap map[dict.Record]int

func (m stdMap) put(r dict.Record, v int) {
	m[r] = v
}

type customMap struct {
	*hashtable.Table[dict.Record, int]
}

func (m customMap) put(r dict.Record, v int) {
	m.Put(r, v)
}

type stats struct {
	count int
	total time.Duration
	worst time.Duration
}

func newMaps() map[string]putter {
	byName := dict.NameHash(hashtable.StringHash)
	byEmail := dict.EmailHash(hashtable.StringHash)
	return map[string]putter{
		"standard": stdMap{},
		"linear": customMap{hashtable.New[dict.Record, int](
			byName, hashtable.Linear[dict.Record]())},
		"quadratic": customMap{hashtable.New[dict.Record, int](
			byName, hashtable.Quadratic[dict.Record]())},
		"double": customMap{hashtable.New[dict.Record, int](
			byName, hashtable.DoubleHash[dict.Record](byEmail))},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(APP_NAME, flag.ContinueOnError)
	flags.SetOutput(stderr)
	param_debug := flags.Bool("D", false, "debug")
	param_summary := flags.Bool("summary", false, "print totals per map with a progress bar instead of every insert")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	level := "info"
	if *param_debug {
		level = "debug"
	}
	if err := utils.InitConsoleLog(stderr, level); err != nil {
		fmt.Fprintf(stderr, "%s: %s\n", APP_NAME, err)
		return 1
	}

	if flags.NArg() < 1 {
		fmt.Fprintln(stderr, "no dictionary given")
		return 1
	}
	filename := flags.Arg(0)
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(stderr, "could not open file %s\n", filename)
		return 1
	}
	defer f.Close()

	var bar *pb.ProgressBar
	if *param_summary {
		if st, err := f.Stat(); err == nil {
			bar = pb.New64(st.Size()).SetTemplate(pb.Full).Set(pb.Bytes, true).SetWriter(stderr).Start()
		}
	}

	maps := newMaps()
	labels := make([]string, 0, len(maps))
	for label := range maps {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	results := make(map[string]*stats, len(maps))
	for _, label := range labels {
		results[label] = &stats{}
	}

	reader := dict.NewReader(f)
	reader.OnSkip = func(line string, err error) {
		log.Warnf("ignoring line: %s (%v)", line, err)
		if bar != nil {
			bar.Add(len(line) + 1)
		}
	}

	out := stdout
	if *param_summary {
		out = io.Discard
	}

	for r := range reader.Records() {
		for _, label := range labels {
			t1 := time.Now()
			maps[label].put(r, 42)
			d := time.Since(t1)

			s := results[label]
			s.count++
			s.total += d
			s.worst = max(s.worst, d)
			fmt.Fprintf(out, "%s %d\n", label, d.Nanoseconds())
		}
		if bar != nil {
			bar.Add(len(r.Line()) + 1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	if err = reader.Err(); err != nil {
		log.Errorf("read '%s' failed: %v", filename, err)
		return 1
	}
	log.Debugf("skipped %d lines of '%s'", reader.Skipped(), filename)

	if *param_summary {
		printSummary(stdout, labels, results)
	}
	return 0
}

func printSummary(w io.Writer, labels []string, results map[string]*stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "map\tputs\ttotal\tavg\tworst")
	for _, label := range labels {
		s := results[label]
		var avg time.Duration
		if s.count > 0 {
			avg = s.total / time.Duration(s.count)
		}
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\n", label, s.count, s.total, avg, s.worst)
	}
	tw.Flush()
}
