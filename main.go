// gendict writes N random person records, one per line as name;age;email,
// for use as sample data.
//
//	gendict [-D] [-v] [-seed S] <N>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"gendict/dict"
	"gendict/utils"
)

const APP_NAME = "gendict"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 on success, 1 on a bad N or a
// failed write.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(APP_NAME, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	param_debug := flags.Bool("D", false, "debug")
	param_version := flags.Bool("v", false, "version")
	param_seed := flags.Uint64("seed", 0, "random seed, 0 for a new random sequence each run")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [options] <N>\n", APP_NAME)
		flags.PrintDefaults()
	}

	// a negative N such as -5 or -2.5 would reach the flag parser as an
	// unknown flag
	if i := countIndex(flags, args); i >= 0 && strings.HasPrefix(args[i], "-") {
		fmt.Fprintf(stderr, "%s: %s, got '%s'\n", APP_NAME, dict.ErrInvalidArgument, args[i])
		return 1
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flags.SetOutput(stderr)
			flags.Usage()
			return 0
		}
		fmt.Fprintf(stderr, "%s: %s\n", APP_NAME, err)
		return 1
	}
	if *param_version {
		fmt.Fprintln(stdout, utils.Version(APP_NAME))
		return 0
	}

	level := "warn"
	if *param_debug {
		level = "debug"
	}
	if err := utils.InitConsoleLog(stderr, level); err != nil {
		fmt.Fprintf(stderr, "%s: %s\n", APP_NAME, err)
		return 1
	}

	n, err := dict.ParseCount(flags.Args())
	if err != nil {
		fmt.Fprintf(stderr, "%s: %s\n", APP_NAME, err)
		return 1
	}

	start := time.Now()
	g := dict.NewGenerator(*param_seed)
	log.Debugf("generate %d records, seed=%d", n, g.Seed())

	lines, err := dict.WriteAll(stdout, g.Records(n))
	if err != nil {
		fmt.Fprintf(stderr, "%s: write failed after %d lines: %s\n", APP_NAME, lines, err)
		return 1
	}
	log.Debugf("wrote %d lines in %v", lines, time.Since(start))
	return 0
}

// countIndex returns the index of the first argument that is not a
// defined flag or a flag value, or -1 when there is none. Arguments after
// "--" are never flags, so they are left to ParseCount.
func countIndex(flags *flag.FlagSet, args []string) int {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return -1
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			return i
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name == "h" || name == "help" {
			continue
		}
		f := flags.Lookup(name)
		if f == nil {
			return i
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			continue
		}
		if !hasValue {
			i++ // skip the value
		}
	}
	return -1
}
