// Package source implements the source parser (spec.md §4.G): driving
// the splitter and iterators over one file or packaged resource and
// bundling the resulting tree with its content hash, origin, and
// modification time.
package source

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/hgrecco/flexparser/iter"
	"github.com/hgrecco/flexparser/shape"
	"github.com/hgrecco/flexparser/split"
	"github.com/hgrecco/flexparser/token"
)

// ParsedSource is the immutable result of parsing one source, per
// spec.md §3.
type ParsedSource struct {
	Tree        *shape.Node
	ContentHash digest.Digest
	Config      shape.Config
	Origin      token.SourceID
	// ModTime is nil for sources that aren't backed by a real file
	// (packaged resources read as a stream rather than via
	// FileBackedFS).
	ModTime *time.Time
}

// FileBackedFS lets a packaged-resource fs.FS opt into file semantics
// (so ParseResource can record an mtime) for hosts where resources
// really are materialized on disk, mirroring spec.md §4.G's "if the
// host runtime can materialize it as a filesystem path" clause. Plain
// embed.FS never satisfies this — an embedded resource has no disk
// path — so resources served from one are always read as a stream.
type FileBackedFS interface {
	fs.FS
	RealPath(name string) (path string, ok bool)
}

// ParseFile parses a filesystem source: it is opened, its lines split
// by splitCfg and driven through body via the root-block algorithm,
// and the content hash is computed over every triple actually
// consumed.
func ParseFile(filePath string, body []shape.Shape, cfg shape.Config, splitCfg split.Config) (*ParsedSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("flexparser: open %s: %w", filePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("flexparser: stat %s: %w", filePath, err)
	}
	mtime := info.ModTime()

	tree, hash, err := parse(f, body, cfg, splitCfg)
	if err != nil {
		return nil, err
	}
	return &ParsedSource{
		Tree:        tree,
		ContentHash: hash,
		Config:      cfg,
		Origin:      token.File(filePath),
		ModTime:     &mtime,
	}, nil
}

// ParseResource parses a packaged (package, resource) source out of
// fsys. If preferFile is true and fsys implements FileBackedFS, the
// resource is parsed as a file (so ModTime is populated); otherwise it
// is read as a stream.
func ParseResource(fsys fs.FS, id token.SourceID, body []shape.Shape, cfg shape.Config, splitCfg split.Config, preferFile bool) (*ParsedSource, error) {
	name := path.Join(id.Package, id.Resource)

	if preferFile {
		if fb, ok := fsys.(FileBackedFS); ok {
			if real, ok := fb.RealPath(name); ok {
				ps, err := ParseFile(real, body, cfg, splitCfg)
				if err != nil {
					return nil, err
				}
				ps.Origin = id
				return ps, nil
			}
		}
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("flexparser: open resource %s: %w", id, err)
	}
	defer f.Close()

	tree, hash, err := parse(f, body, cfg, splitCfg)
	if err != nil {
		return nil, err
	}
	return &ParsedSource{
		Tree:        tree,
		ContentHash: hash,
		Config:      cfg,
		Origin:      id,
	}, nil
}

// ParseString parses text directly, without touching the filesystem —
// useful for tests and for embedding an already-materialized snippet
// under its own SourceID.
func ParseString(text string, id token.SourceID, body []shape.Shape, cfg shape.Config, splitCfg split.Config) (*ParsedSource, error) {
	tree, hash, err := parse(strings.NewReader(text), body, cfg, splitCfg)
	if err != nil {
		return nil, err
	}
	return &ParsedSource{
		Tree:        tree,
		ContentHash: hash,
		Config:      cfg,
		Origin:      id,
	}, nil
}

func parse(r io.Reader, body []shape.Shape, cfg shape.Config, splitCfg split.Config) (*shape.Node, digest.Digest, error) {
	seq := iter.NewSequence(newLineSource(r), splitCfg)
	hi := iter.NewHashing(seq)
	tree, err := shape.ConsumeRoot(body, hi, cfg)
	if err != nil {
		return nil, "", err
	}
	return tree, hi.Digest(), nil
}

type lineSource struct {
	sc *bufio.Scanner
}

func newLineSource(r io.Reader) *lineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(scanLines)
	return &lineSource{sc: sc}
}

func (l *lineSource) Next() (string, bool, error) {
	if l.sc.Scan() {
		return l.sc.Text(), true, nil
	}
	if err := l.sc.Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}

var _ iter.LineSource = (*lineSource)(nil)

// scanLines is a bufio.SplitFunc recognizing \n, \r\n, and a lone \r
// as line terminators (spec.md §4.G: "\n, \r\n, \r (reader strips all
// of these)"). bufio.ScanLines only handles the first two.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			return i + 1, data[:i], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			return 0, nil, nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
