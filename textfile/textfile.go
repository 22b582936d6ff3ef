// Package textfile loads the input files of a merge and splits them into
// lines.
package textfile

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type File struct {
	Name  string   // Command line arg
	Body  []byte   // Body of the file
	Lines [][]byte // Lines of the file (sub-slices of Body), each with its line ending.
}

func (p *File) BriefDebugString() string {
	return fmt.Sprintf("File{\"%s\", %d lines, %d bytes}",
		path.Base(p.Name), len(p.Lines), len(p.Body))
}

func (p *File) LineCount() int {
	return len(p.Lines)
}

// Strings returns copies of the lines as strings.
func (p *File) Strings() []string {
	return lo.Map(p.Lines, func(line []byte, _ int) string {
		return string(line)
	})
}

// ReadFile reads the named file, and splits it into lines.
func ReadFile(name string) (*File, error) {
	body, err := os.ReadFile(name)
	if err != nil {
		glog.Infof("Failed to read file %s: %s", name, err)
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	p := &File{
		Name:  name,
		Body:  body,
		Lines: SplitLines(body),
	}
	glog.Infof("Loaded %d bytes (%d lines) from file %s", len(body), len(p.Lines), name)
	return p, nil
}

// ReadFiles reads each of the named files. If any can't be read, the
// returned error reports all of the failures, and the slice is nil.
func ReadFiles(names ...string) ([]*File, error) {
	var result error
	files := make([]*File, len(names))
	for n, name := range names {
		f, err := ReadFile(name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		files[n] = f
	}
	if result != nil {
		return nil, result
	}
	return files, nil
}

// SplitLines splits body after each line ending: "\n", "\r\n", or a "\r"
// not followed by "\n". The lines share body's storage. The last line has
// no line ending if body doesn't end with one.
func SplitLines(body []byte) [][]byte {
	var lines [][]byte
	for len(body) > 0 {
		n := bytes.IndexAny(body, "\r\n")
		if n < 0 {
			lines = append(lines, body[:len(body):len(body)])
			break
		}
		n++
		if body[n-1] == '\r' && n < len(body) && body[n] == '\n' {
			n++
		}
		lines = append(lines, body[:n:n])
		body = body[n:]
	}
	return lines
}
