package m3

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	DefaultStartMarker = "<<<<<<<"
	DefaultMidMarker   = "======="
	DefaultEndMarker   = ">>>>>>>"
)

// LineOptions guides MergeLines. Empty markers are replaced by the
// defaults; an empty BaseMarker means the base of a conflict isn't shown.
type LineOptions struct {
	// Appended, after a space, to the start and end markers of each
	// conflict, and to the base marker if there is one.
	NameA, NameB, NameBase string

	StartMarker, MidMarker, EndMarker string

	// When set, each conflict includes the lines from base, after this
	// marker and before the mid marker.
	BaseMarker string

	// Minimize conflicts by removing the lines a and b agree on. Can't be
	// combined with BaseMarker.
	Reprocess bool
}

func (p *LineOptions) CreateFlags(f *pflag.FlagSet) {
	f.StringVar(&p.NameA, "name-a", p.NameA,
		"Name appended to the start marker of each conflict.")
	f.StringVar(&p.NameB, "name-b", p.NameB,
		"Name appended to the end marker of each conflict.")
	f.StringVar(&p.NameBase, "name-base", p.NameBase,
		"Name appended to the base marker of each conflict.")
	f.StringVar(&p.StartMarker, "start-marker", DefaultStartMarker,
		"Line that starts each conflict, followed by the lines from a.")
	f.StringVar(&p.MidMarker, "mid-marker", DefaultMidMarker,
		"Line that separates the lines of a (or base) from those of b.")
	f.StringVar(&p.EndMarker, "end-marker", DefaultEndMarker,
		"Line that ends each conflict.")
	f.StringVar(&p.BaseMarker, "base-marker", p.BaseMarker, `
		If set, each conflict shows the lines from base after this marker.
		Can't be combined with --reprocess.
		`)
	f.BoolVar(&p.Reprocess, "reprocess", p.Reprocess, `
		Shrink conflicts by removing lines on which both sides agree.
		`)
}

// Validate reports whether the options can be used together.
func (p LineOptions) Validate() error {
	if p.Reprocess && p.BaseMarker != "" {
		return errors.Wrapf(ErrIncompatibleOptions, "base marker %q", p.BaseMarker)
	}
	return nil
}

// The marker lines (without newlines) as they'll be written.
type markerLines struct {
	start, mid, end, base string
	showBase               bool
}

func (p LineOptions) markers() markerLines {
	m := markerLines{
		start:    chooseString(p.StartMarker != "", p.StartMarker, DefaultStartMarker),
		mid:      chooseString(p.MidMarker != "", p.MidMarker, DefaultMidMarker),
		end:      chooseString(p.EndMarker != "", p.EndMarker, DefaultEndMarker),
		base:     p.BaseMarker,
		showBase: p.BaseMarker != "",
	}
	if p.NameA != "" {
		m.start += " " + p.NameA
	}
	if p.NameB != "" {
		m.end += " " + p.NameB
	}
	if p.NameBase != "" && m.showBase {
		m.base += " " + p.NameBase
	}
	return m
}

func chooseString(b bool, trueString, falseString string) string {
	if b {
		return trueString
	}
	return falseString
}
