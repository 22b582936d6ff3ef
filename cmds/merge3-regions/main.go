// merge3-regions prints the intermediate results of a three-way merge of
// MINE BASE OTHER: the blocks of base matched in mine and in other, the sync
// regions, the merge regions, and the unconflicted ranges of base. Useful
// for seeing why a merge came out the way it did.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	"github.com/jamessynge/merge3/m3"
	"github.com/jamessynge/merge3/textfile"
)

var (
	pCherrypickFlag = pflag.Bool(
		"cherrypick", false, "Compute the regions of a cherry-pick of OTHER onto MINE.")
	pMatcherFlag = pflag.String(
		"matcher", "difflib", "How lines are matched (difflib, patience or lcs).")
)

func FailWithMessage(showUsage bool, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	glog.Error(msg)
	fmt.Fprintln(os.Stderr, msg)
	if showUsage {
		pflag.Usage()
	}
	glog.Flush()
	os.Exit(2)
}

func printSection[T any](w io.Writer, title string, items []T) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(items))
	for n, item := range items {
		fmt.Fprintf(w, "%d: %v\n", n, item)
	}
	fmt.Fprintln(w)
}

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	_ = flag.CommandLine.Parse(nil)

	if pflag.NArg() != 3 {
		FailWithMessage(true, "Expected 3 file arguments (MINE BASE OTHER), not %d", pflag.NArg())
	}
	files, err := textfile.ReadFiles(pflag.Args()...)
	if err != nil {
		FailWithMessage(false, "%s", err)
	}
	mine, base, other := files[0], files[1], files[2]

	matcher, err := m3.MatcherByName(*pMatcherFlag)
	if err != nil {
		FailWithMessage(true, "%s", err)
	}
	m, err := m3.New(m3.Bytes, base.Lines, mine.Lines, other.Lines,
		m3.Config{Cherrypick: *pCherrypickFlag, Matcher: matcher})
	if err != nil {
		FailWithMessage(false, "%s", err)
	}
	printRegions(os.Stdout, m)
	glog.Flush()
}

func printRegions(w io.Writer, m *m3.Merge3[[]byte]) {
	aMatches, bMatches := m.MatchingBlocks()
	printSection(w, "Blocks of base matched in mine", aMatches)
	printSection(w, "Blocks of base matched in other", bMatches)
	printSection(w, "Sync regions", m.FindSyncRegions())

	var regions []m3.Region
	for r := range m.MergeRegions() {
		regions = append(regions, r)
	}
	printSection(w, "Merge regions", regions)

	var reprocessed []m3.Region
	for r := range m.ReprocessRegions(m.MergeRegions()) {
		reprocessed = append(reprocessed, r)
	}
	printSection(w, "Reprocessed regions", reprocessed)

	printSection(w, "Unconflicted ranges of base", m.FindUnconflicted())
}
