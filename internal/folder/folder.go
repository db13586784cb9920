// Package folder implements the in-memory directory view described in
// spec.md §3/§4.3: an ordered, sorted, optionally filtered sequence of
// Files with cursor/offset bookkeeping, mutated only through the FilesOp
// algebra (package filesop).
package folder

import (
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// Stage is the folder's loading lifecycle state.
type Stage uint8

const (
	Loading Stage = iota
	Loaded
)

// Folder owns an ordered sequence of Files plus the bookkeeping (sorter,
// filter, offset/cursor/page, stage, revision, trace) spec.md §3 requires.
type Folder struct {
	url yzurl.URL

	all   []vfile.File // unfiltered superset (identity when no filter set)
	files []vfile.File // the active, filtered, sorted view
	index map[string]int

	sorter Sorter
	filter Filter

	offset int
	cursor int
	page   int

	stage      Stage
	revision   uint64
	trace      string
	hasTrace   bool
	loadTicket filesop.Ticket

	sizes   map[string]int64
	lastErr *filesop.IOErrKind
}

// New creates an empty, Loading folder at url.
func New(url yzurl.URL) *Folder {
	return &Folder{
		url:   url.WithUrnRoot(),
		index: make(map[string]int),
		page:  1,
		sizes: make(map[string]int64),
	}
}

func (f *Folder) URL() yzurl.URL   { return f.url }
func (f *Folder) Stage() Stage     { return f.stage }
func (f *Folder) Revision() uint64 { return f.revision }
func (f *Folder) Cursor() int      { return f.cursor }
func (f *Folder) Offset() int      { return f.offset }
func (f *Folder) Len() int         { return len(f.files) }
func (f *Folder) Files() []vfile.File {
	return f.files
}

// Sorter returns the active sorter.
func (f *Folder) Sorter() Sorter { return f.sorter }

// SetPage sets the visible page size (rows) and re-clamps offset/cursor.
func (f *Folder) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	f.page = page
	f.clampWindow()
}

// ScrollOff is half the page size by default, per spec.md §4.3.
func (f *Folder) ScrollOff() int { return f.page / 2 }

// CursorFile returns the file currently under the cursor, if any.
func (f *Folder) CursorFile() (vfile.File, bool) {
	if f.cursor < 0 || f.cursor >= len(f.files) {
		return vfile.File{}, false
	}
	return f.files[f.cursor], true
}

// FileByUrn looks up a file by urn in the active (filtered) view.
func (f *Folder) FileByUrn(urn string) (vfile.File, bool) {
	i, ok := f.index[urn]
	if !ok {
		return vfile.File{}, false
	}
	return f.files[i], true
}

// SetSorter changes the active sorter and re-sorts in place.
func (f *Folder) SetSorter(s Sorter) {
	f.sorter = s
	f.sorter.Sort(f.all)
	f.rebuildView(f.hoverUrn())
}

// SetFilter compiles and applies pattern, preserving hover by urn.
func (f *Folder) SetFilter(pattern string, policy CasePolicy) error {
	ft, err := NewFilter(pattern, policy)
	if err != nil {
		return err
	}
	hover := f.hoverUrn()
	f.filter = ft
	f.rebuildView(hover)
	return nil
}

// ClearFilter removes the active filter, restoring hover by urn if the
// previously hovered entry still exists.
func (f *Folder) ClearFilter() {
	hover := f.hoverUrn()
	f.filter = Filter{}
	f.rebuildView(hover)
}

func (f *Folder) hoverUrn() string {
	if fl, ok := f.CursorFile(); ok {
		return fl.Urn()
	}
	return ""
}

// rebuildView recomputes f.files/f.index from f.all under the current
// filter, then re-homes the cursor/trace per Hover's rules.
func (f *Folder) rebuildView(preferUrn string) {
	if f.filter.IsZero() {
		f.files = append([]vfile.File(nil), f.all...)
	} else {
		f.files = f.files[:0]
		for _, file := range f.all {
			if f.filter.Match(file.Name()) {
				f.files = append(f.files, file)
			}
		}
	}
	f.index = make(map[string]int, len(f.files))
	for i, file := range f.files {
		f.index[file.Urn()] = i
	}
	f.Hover(preferUrn)
	f.revision++
}

// Hover repositions the cursor per spec.md §4.3: (1) the urn passed by the
// caller if non-empty and present, (2) the sticky trace urn, (3) the
// nearest prior position (clamped into range).
func (f *Folder) Hover(urn string) {
	if urn != "" {
		if i, ok := f.index[urn]; ok {
			f.setCursor(i)
			f.SetTrace(urn)
			return
		}
	}
	if f.hasTrace {
		if i, ok := f.index[f.trace]; ok {
			f.setCursor(i)
			return
		}
	}
	f.setCursor(f.cursor) // clamp to nearest prior position
}

// SetTrace marks urn as the sticky hover to reacquire after a refresh.
func (f *Folder) SetTrace(urn string) {
	f.trace = urn
	f.hasTrace = true
}

func (f *Folder) setCursor(pos int) {
	if len(f.files) == 0 {
		f.cursor = 0
		f.offset = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(f.files)-1 {
		pos = len(f.files) - 1
	}
	f.cursor = pos
	f.clampWindow()
}

// MoveCursor resolves a Step and re-homes the cursor, updating trace.
func (f *Folder) MoveCursor(s Step) {
	if len(f.files) == 0 {
		return
	}
	next := s.Apply(f.cursor, len(f.files))
	f.setCursor(next)
	if fl, ok := f.CursorFile(); ok {
		f.SetTrace(fl.Urn())
	}
}

// clampWindow enforces offset <= cursor < offset+page (invariant from
// spec.md §3), keeping scrolloff rows of margin where the list is long
// enough to afford it.
func (f *Folder) clampWindow() {
	if len(f.files) == 0 {
		f.offset = 0
		return
	}
	so := f.ScrollOff()
	if f.cursor-f.offset < so {
		f.offset = f.cursor - so
	}
	if f.cursor-f.offset > f.page-1-so {
		f.offset = f.cursor - (f.page - 1 - so)
	}
	if f.offset > len(f.files)-f.page {
		f.offset = len(f.files) - f.page
	}
	if f.offset < 0 {
		f.offset = 0
	}
}

// BeginLoad marks the folder Loading under a new ticket; Part/Done ops
// carrying any other ticket are discarded.
func (f *Folder) BeginLoad(ticket filesop.Ticket) {
	f.stage = Loading
	f.loadTicket = ticket
}

// Apply mutates the folder per op, returning whether it was applied (false
// for a stale ticket or a no-op). It always preserves the invariants from
// spec.md §3 and runs in O(k log n) for incremental ops.
func (f *Folder) Apply(op filesop.Op) bool {
	switch op.Kind {
	case filesop.Full:
		f.all = append([]vfile.File(nil), op.Files...)
		f.sorter.Sort(f.all)
		f.stage = Loaded
		f.rebuildView(f.hoverUrn())
		return true

	case filesop.Part:
		if op.Ticket != f.loadTicket {
			return false
		}
		f.all = append(f.all, op.Files...)
		f.sorter.Sort(f.all)
		f.rebuildView(f.hoverUrn())
		return true

	case filesop.Done:
		if op.Ticket != f.loadTicket {
			return false
		}
		f.stage = Loaded
		f.revision++
		return true

	case filesop.Size:
		for urn, n := range op.Sizes {
			f.sizes[urn] = n
		}
		f.revision++
		return true

	case filesop.IOErr:
		f.stage = Loaded
		kind := op.ErrKind
		f.lastErr = &kind
		if f.all == nil {
			f.all = []vfile.File{}
			f.rebuildView("")
		}
		return true

	case filesop.Creating, filesop.Upserting, filesop.Updating:
		hover := f.hoverUrn()
		for urn, nf := range op.Upsert {
			f.upsertOne(urn, nf)
		}
		f.sorter.Sort(f.all)
		f.rebuildView(hover)
		return true

	case filesop.Deleting:
		hover := f.hoverUrn()
		_, hoveredWasDeleted := op.Deletes[hover]
		f.all = removeByUrn(f.all, op.Deletes)
		if hoveredWasDeleted {
			hover = ""
		}
		f.rebuildView(hover)
		return true
	}
	return false
}

func (f *Folder) upsertOne(urn string, nf vfile.File) {
	for i, existing := range f.all {
		if existing.Urn() == urn {
			f.all[i] = nf
			return
		}
	}
	f.all = append(f.all, nf)
}

func removeByUrn(files []vfile.File, urns map[string]struct{}) []vfile.File {
	out := files[:0:0]
	for _, fl := range files {
		if _, del := urns[fl.Urn()]; !del {
			out = append(out, fl)
		}
	}
	return out
}

// Size returns the cached directory size for urn, if attached via a Size
// op.
func (f *Folder) Size(urn string) (int64, bool) {
	n, ok := f.sizes[urn]
	return n, ok
}

// LastIOErr returns the kind of the most recent load failure, if any.
func (f *Folder) LastIOErr() (filesop.IOErrKind, bool) {
	if f.lastErr == nil {
		return 0, false
	}
	return *f.lastErr, true
}
