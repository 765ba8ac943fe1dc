// Package tagfile renders a project index as a ctags-compatible tags file:
// a sorted, tab-separated line per tag with extension fields, preceded by
// the usual pseudo-tag header. Editors and tooling that read ctags output
// consume these files directly.
package tagfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/puretechnyc/ctags/internal/ports"
)

// Program identifies the generator in the pseudo-tag header.
type Program struct {
	Name    string
	Version string
}

type entry struct {
	rec  *ports.TagRecord
	path string
}

// Write renders idx to w. Tags are sorted by name, then file path, then
// line, and the !_TAG_FILE_SORTED pseudo-tag announces that order. Tags
// whose file record is missing from the index are dropped.
func Write(w io.Writer, idx *ports.Index, prog Program) error {
	entries := make([]entry, 0, idx.TagCount())
	for fileID, recs := range idx.Tags {
		fr := idx.Files[fileID]
		if fr == nil {
			continue
		}
		for _, rec := range recs {
			entries = append(entries, entry{rec: rec, path: fr.Path})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.rec.Name != b.rec.Name {
			return a.rec.Name < b.rec.Name
		}
		if a.path != b.path {
			return a.path < b.path
		}
		return a.rec.Line < b.rec.Line
	})

	bw := bufio.NewWriter(w)
	writeHeader(bw, prog)
	for _, e := range entries {
		writeEntry(bw, e)
	}
	return bw.Flush()
}

// WriteFile writes the tags file at path, replacing any previous one. The
// file appears atomically via a temp file and rename, so a reader never
// sees a half-written tags file.
func WriteFile(path string, idx *ports.Index, prog Program) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tags-*")
	if err != nil {
		return fmt.Errorf("tagfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, idx, prog); err != nil {
		tmp.Close()
		return fmt.Errorf("tagfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tagfile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("tagfile: %w", err)
	}
	return nil
}

func writeHeader(bw *bufio.Writer, prog Program) {
	fmt.Fprintf(bw, "!_TAG_FILE_FORMAT\t2\t/extended format/\n")
	fmt.Fprintf(bw, "!_TAG_FILE_SORTED\t1\t/0=unsorted, 1=sorted, 2=foldcase/\n")
	if prog.Name != "" {
		fmt.Fprintf(bw, "!_TAG_PROGRAM_NAME\t%s\t//\n", prog.Name)
	}
	if prog.Version != "" {
		fmt.Fprintf(bw, "!_TAG_PROGRAM_VERSION\t%s\t//\n", prog.Version)
	}
}

func writeEntry(bw *bufio.Writer, e entry) {
	fmt.Fprintf(bw, "%s\t%s\t%d;\"\t%s", e.rec.Name, e.path, e.rec.Line, e.rec.KindChar)
	if e.rec.Scope != "" {
		fmt.Fprintf(bw, "\t%s:%s", e.rec.ScopeKind, e.rec.Scope)
	}
	if e.rec.Inherits != "" {
		fmt.Fprintf(bw, "\tinherits:%s", e.rec.Inherits)
	}
	if e.rec.Mixins != "" {
		fmt.Fprintf(bw, "\tmixin:%s", e.rec.Mixins)
	}
	bw.WriteByte('\n')
}
