// merge3 merges two descendants of a common ancestor, in the manner of
// diff3 -m and merge. The arguments are, in that order, MINE BASE OTHER.
//
// The merge is line based: each file is split into lines (keeping their line
// endings, which may be "\n", "\r\n" or "\r"), and the lines of mine and of
// other are each matched against those of base. Wherever only one side has
// changed a section of base, that change is taken; where both have made the
// same change, it is taken once; otherwise the section is a conflict, and is
// written between markers:
//
//	<<<<<<< MINE
//	lines from mine
//	=======
//	lines from other
//	>>>>>>> OTHER
//
// Several refinements are available:
//
//  1. --reprocess shrinks conflicts by re-matching the two sides of each
//     conflict against each other, so that lines both sides agree on are
//     written once, outside of the markers.
//
//  2. --cherrypick treats the merge as applying the changes in other to mine;
//     sections of other that still match base don't produce conflicts.
//
//  3. --base-marker shows the lines from base within each conflict, as
//     diff3 -m does.
//
//  4. --matcher chooses how lines are matched; patience (unique lines as
//     anchors) is often better than the default at aligning added functions.
//
// The exit status is 0 if the merge is clean, 1 if there are conflicts, and 2
// if there was an error.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jamessynge/merge3/m3"
	"github.com/jamessynge/merge3/textfile"
)

type CmdStatus int

const (
	NoConflicts CmdStatus = iota
	ConflictsFound
	AnError
)

const (
	formatMarkers   = "markers"
	formatAnnotated = "annotated"
	formatGroups    = "groups"
)

var errBadFormat = errors.New("unknown output format")

type mergeFlags struct {
	configFile string
	lineOpts   m3.LineOptions
	annotated  bool
	format     string
	cherrypick bool
	matcher    string
}

func (p *mergeFlags) CreateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	p.lineOpts.CreateFlags(f)
	f.StringVar(&p.configFile, "config", "", "YAML file providing values for any of the flags.")
	f.BoolVar(&p.annotated, "annotated", false,
		"Show an annotated view of the merge, with the origin of each line.")
	f.StringVar(&p.format, "format", formatMarkers, fmt.Sprintf(
		"Output format: %s, %s or %s (YAML).", formatMarkers, formatAnnotated, formatGroups))
	f.BoolVar(&p.cherrypick, "cherrypick", false,
		"Apply the changes in OTHER to MINE; lines of OTHER unchanged from BASE don't conflict.")
	f.StringVar(&p.matcher, "matcher", "difflib", fmt.Sprintf(
		"How lines are matched; one of %s.", strings.Join(m3.MatcherNames(), ", ")))
}

// Fill in the flags that weren't set on the command line from the
// environment (MERGE3_<FLAG>) or the config file.
func (p *mergeFlags) load(v *viper.Viper) error {
	if p.configFile != "" {
		v.SetConfigFile(p.configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %s", p.configFile)
		}
		glog.Infof("Using config file %s", v.ConfigFileUsed())
	}
	p.lineOpts = m3.LineOptions{
		NameA:       v.GetString("name-a"),
		NameB:       v.GetString("name-b"),
		NameBase:    v.GetString("name-base"),
		StartMarker: v.GetString("start-marker"),
		MidMarker:   v.GetString("mid-marker"),
		EndMarker:   v.GetString("end-marker"),
		BaseMarker:  v.GetString("base-marker"),
		Reprocess:   v.GetBool("reprocess"),
	}
	p.annotated = v.GetBool("annotated")
	p.format = v.GetString("format")
	p.cherrypick = v.GetBool("cherrypick")
	p.matcher = v.GetString("matcher")

	if p.annotated {
		if p.format != formatMarkers && p.format != formatAnnotated {
			return errors.Wrapf(errBadFormat, "--annotated with --format=%s", p.format)
		}
		p.format = formatAnnotated
	}
	switch p.format {
	case formatMarkers, formatAnnotated, formatGroups:
	default:
		return errors.Wrapf(errBadFormat, "%q", p.format)
	}
	return p.lineOpts.Validate()
}

func newRootCommand(stdout io.Writer, status *CmdStatus) *cobra.Command {
	var flags mergeFlags
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "merge3 [flags] MINE BASE OTHER",
		Short: "Three-way merge of text files",
		Long: `Merge the changes made in MINE and in OTHER, both descended from BASE,
writing the result to stdout. Conflicting changes are marked in the manner
of diff3 -m.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			// The glog flags were parsed by cobra; keep package flag happy.
			if err := flag.CommandLine.Parse(nil); err != nil {
				return err
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "binding flags")
			}
			return flags.load(v)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			var err error
			*status, err = runMerge(stdout, &flags, args[0], args[1], args[2])
			return err
		},
	}
	flags.CreateFlags(cmd)
	cmd.Flags().AddGoFlagSet(flag.CommandLine)

	v.SetEnvPrefix("MERGE3")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

func runMerge(w io.Writer, p *mergeFlags, mine, base, other string) (CmdStatus, error) {
	files, err := textfile.ReadFiles(mine, base, other)
	if err != nil {
		return AnError, err
	}
	mineFile, baseFile, otherFile := files[0], files[1], files[2]
	glog.V(1).Infof("mine %s, base %s, other %s", mineFile.BriefDebugString(),
		baseFile.BriefDebugString(), otherFile.BriefDebugString())

	matcher, err := m3.MatcherByName(p.matcher)
	if err != nil {
		return AnError, err
	}
	m, err := m3.New(m3.Bytes, baseFile.Lines, mineFile.Lines, otherFile.Lines,
		m3.Config{Cherrypick: p.cherrypick, Matcher: matcher})
	if err != nil {
		return AnError, err
	}

	var lines iter.Seq[[]byte]
	switch p.format {
	case formatAnnotated:
		lines, err = m.MergeAnnotated()
	case formatGroups:
	default:
		opts := p.lineOpts
		opts.NameA = lo.CoalesceOrEmpty(opts.NameA, mine)
		opts.NameB = lo.CoalesceOrEmpty(opts.NameB, other)
		opts.NameBase = lo.CoalesceOrEmpty(opts.NameBase, base)
		lines, err = m.MergeLines(opts)
	}
	if err != nil {
		return AnError, err
	}

	bw := bufio.NewWriter(w)
	if lines != nil {
		err = writeLines(bw, lines)
	} else {
		err = writeGroups(bw, m.MergeGroups())
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return AnError, errors.Wrap(err, "writing output")
	}

	regions := slices.Collect(m.MergeRegions())
	conflicts := lo.CountBy(regions, func(r m3.Region) bool {
		return r.Type() == m3.ConflictRegion
	})
	glog.Infof("Merged into %d regions, %d in conflict", len(regions), conflicts)
	if conflicts > 0 {
		return ConflictsFound, nil
	}
	return NoConflicts, nil
}

func writeLines(w io.Writer, lines iter.Seq[[]byte]) error {
	for line := range lines {
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// One element of the YAML written by --format=groups.
type groupDoc struct {
	Type  string   `yaml:"type"`
	Lines []string `yaml:"lines,omitempty"`
	Base  []string `yaml:"base,omitempty"`
	A     []string `yaml:"a,omitempty"`
	B     []string `yaml:"b,omitempty"`
}

func toStrings(lines [][]byte) []string {
	return lo.Map(lines, func(line []byte, _ int) string { return string(line) })
}

func writeGroups(w io.Writer, groups iter.Seq[m3.Group[[]byte]]) error {
	var docs []groupDoc
	for g := range groups {
		docs = append(docs, groupDoc{
			Type:  g.Type.String(),
			Lines: toStrings(g.Lines),
			Base:  toStrings(g.Base),
			A:     toStrings(g.A),
			B:     toStrings(g.B),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}

func runMerge3(args []string, stdout, stderr io.Writer) CmdStatus {
	status := NoConflicts
	cmd := newRootCommand(stdout, &status)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		glog.Errorf("merge3 failed: %v", err)
		fmt.Fprintln(stderr, "merge3:", err)
		return AnError
	}
	return status
}

func main() {
	status := runMerge3(os.Args[1:], os.Stdout, os.Stderr)
	glog.Flush()
	os.Exit(int(status) & 0xff)
}
