// Package filesop implements the FilesOp algebra described in spec.md §3:
// the only pure values through which Folder contents are mutated.
package filesop

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// Ticket identifies a logical load attempt. Any Part/Done op carrying a
// stale ticket (older than the folder's current ticket) is discarded.
type Ticket uint64

// IOErrKind classifies why a folder load failed.
type IOErrKind uint8

const (
	IOErrNotFound IOErrKind = iota
	IOErrPermissionDenied
	IOErrOther
)

// Op is the closed set of mutations a Folder can apply. Exactly one of the
// typed payload fields is meaningful, selected by Kind.
type Op struct {
	Kind OpKind
	URL  yzurl.URL // the folder this op targets

	// Full / Part / Done
	Files []vfile.File
	Cha   *cha.Cha

	Ticket Ticket

	// Size
	Sizes map[string]int64 // urn -> bytes

	// IOErr
	ErrKind IOErrKind

	// Creating / Deleting / Upserting / Updating
	Upsert  map[string]vfile.File // urn -> File
	Deletes map[string]struct{}   // urn set
}

// OpKind enumerates the FilesOp variants.
type OpKind uint8

const (
	Full OpKind = iota
	Part
	Done
	Size
	IOErr
	Creating
	Deleting
	Upserting
	Updating
)

func (k OpKind) String() string {
	switch k {
	case Full:
		return "Full"
	case Part:
		return "Part"
	case Done:
		return "Done"
	case Size:
		return "Size"
	case IOErr:
		return "IOErr"
	case Creating:
		return "Creating"
	case Deleting:
		return "Deleting"
	case Upserting:
		return "Upserting"
	case Updating:
		return "Updating"
	default:
		return "Unknown"
	}
}

// NewFull builds a Full op replacing a folder's contents outright.
func NewFull(url yzurl.URL, files []vfile.File) Op {
	return Op{Kind: Full, URL: url, Files: files}
}

// NewPart builds a Part op for an in-progress load.
func NewPart(url yzurl.URL, files []vfile.File, ticket Ticket) Op {
	return Op{Kind: Part, URL: url, Files: files, Ticket: ticket}
}

// NewDone seals a Part load, sealing the folder's stage to Loaded.
func NewDone(url yzurl.URL, c cha.Cha, ticket Ticket) Op {
	return Op{Kind: Done, URL: url, Cha: &c, Ticket: ticket}
}

// NewSize attaches directory sizes.
func NewSize(url yzurl.URL, sizes map[string]int64) Op {
	return Op{Kind: Size, URL: url, Sizes: sizes}
}

// NewIOErr reports a failed load.
func NewIOErr(url yzurl.URL, kind IOErrKind) Op {
	return Op{Kind: IOErr, URL: url, ErrKind: kind}
}

// NewCreating reports newly created entries.
func NewCreating(url yzurl.URL, files map[string]vfile.File) Op {
	return Op{Kind: Creating, URL: url, Upsert: files}
}

// NewDeleting reports removed entries by urn.
func NewDeleting(url yzurl.URL, urns map[string]struct{}) Op {
	return Op{Kind: Deleting, URL: url, Deletes: urns}
}

// NewUpserting reports inserted-or-replaced entries.
func NewUpserting(url yzurl.URL, files map[string]vfile.File) Op {
	return Op{Kind: Upserting, URL: url, Upsert: files}
}

// NewUpdating reports in-place metadata updates (no position change
// expected, but callers must still re-sort since the sort key may have
// changed, e.g. mtime sort after a write).
func NewUpdating(url yzurl.URL, files map[string]vfile.File) Op {
	return Op{Kind: Updating, URL: url, Upsert: files}
}

// wireURL, wireFile, and wireOp are flat, fully-exported mirrors of
// yzurl.URL/vfile.File/Op used only for the DDS wire encoding below —
// URL's offsets stay unexported everywhere else in the tree for
// invariant safety; this is the one place that needs to see and restore
// them byte-for-byte.
type wireURL struct {
	SchemeKind   yzurl.Kind
	SchemeDomain string
	Loc          string
	URIOff       int
	URNOff       int
}

func toWireURL(u yzurl.URL) wireURL {
	return wireURL{
		SchemeKind:   u.Scheme().Kind,
		SchemeDomain: u.Scheme().Domain,
		Loc:          u.Loc(),
		URIOff:       u.UriOffset(),
		URNOff:       u.UrnOffset(),
	}
}

func (w wireURL) toURL() yzurl.URL {
	return yzurl.FromParts(yzurl.Scheme{Kind: w.SchemeKind, Domain: w.SchemeDomain}, w.Loc, w.URIOff, w.URNOff)
}

type wireFile struct {
	URL    wireURL
	Cha    cha.Cha
	LinkTo *wireURL
}

func toWireFile(f vfile.File) wireFile {
	w := wireFile{URL: toWireURL(f.URL), Cha: f.Cha}
	if f.LinkTo != nil {
		lt := toWireURL(*f.LinkTo)
		w.LinkTo = &lt
	}
	return w
}

func (w wireFile) toFile() vfile.File {
	f := vfile.File{URL: w.URL.toURL(), Cha: w.Cha}
	if w.LinkTo != nil {
		lt := w.LinkTo.toURL()
		f.LinkTo = &lt
	}
	return f
}

func toWireFiles(files []vfile.File) []wireFile {
	if files == nil {
		return nil
	}
	out := make([]wireFile, len(files))
	for i, f := range files {
		out[i] = toWireFile(f)
	}
	return out
}

func fromWireFiles(files []wireFile) []vfile.File {
	if files == nil {
		return nil
	}
	out := make([]vfile.File, len(files))
	for i, f := range files {
		out[i] = f.toFile()
	}
	return out
}

func toWireUpsert(m map[string]vfile.File) map[string]wireFile {
	if m == nil {
		return nil
	}
	out := make(map[string]wireFile, len(m))
	for k, f := range m {
		out[k] = toWireFile(f)
	}
	return out
}

func fromWireUpsert(m map[string]wireFile) map[string]vfile.File {
	if m == nil {
		return nil
	}
	out := make(map[string]vfile.File, len(m))
	for k, f := range m {
		out[k] = f.toFile()
	}
	return out
}

// wireOp is the gob-encodable shape an Op flattens to for the DDS wire
// payload (spec.md §8's "serialising a FilesOp to its DDS payload and
// back yields an equal value" property).
type wireOp struct {
	Kind    OpKind
	URL     wireURL
	Files   []wireFile
	Cha     *cha.Cha
	Ticket  Ticket
	Sizes   map[string]int64
	ErrKind IOErrKind
	Upsert  map[string]wireFile
	Deletes map[string]struct{}
}

func (o Op) toWire() wireOp {
	return wireOp{
		Kind:    o.Kind,
		URL:     toWireURL(o.URL),
		Files:   toWireFiles(o.Files),
		Cha:     o.Cha,
		Ticket:  o.Ticket,
		Sizes:   o.Sizes,
		ErrKind: o.ErrKind,
		Upsert:  toWireUpsert(o.Upsert),
		Deletes: o.Deletes,
	}
}

func (w wireOp) toOp() Op {
	return Op{
		Kind:    w.Kind,
		URL:     w.URL.toURL(),
		Files:   fromWireFiles(w.Files),
		Cha:     w.Cha,
		Ticket:  w.Ticket,
		Sizes:   w.Sizes,
		ErrKind: w.ErrKind,
		Upsert:  fromWireUpsert(w.Upsert),
		Deletes: w.Deletes,
	}
}

// Marshal encodes o as a DDS payload: a gob-encoded wireOp, the flattened
// form every field above restores byte-for-byte. gob is stdlib rather
// than a third-party wire format because no example repo in the pack
// carries an IPC/wire-format library for this kind of single-process
// event payload (see DESIGN.md).
func (o Op) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(o.toWire()); err != nil {
		return nil, fmt.Errorf("filesop: marshal op: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a DDS payload produced by Marshal back into an Op.
func Unmarshal(data []byte) (Op, error) {
	var w wireOp
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return Op{}, fmt.Errorf("filesop: unmarshal op: %w", err)
	}
	return w.toOp(), nil
}

// Equal reports whether o and other describe the same mutation, per
// spec.md §8's round-trip and idempotence properties ("re-applying the
// same Upserting twice yields the same folder state" presupposes Op
// equality is well defined). Op's payload fields are maps and slices that
// reflect.DeepEqual would also compare structurally, but hashstructure is
// used here instead so the same structural-hash mechanism snapshot-tests
// in internal/scheduler and internal/core already ground can be reused
// for Op without hand-rolling a field-by-field comparison as the Op shape
// grows new variants.
func (o Op) Equal(other Op) bool {
	ha, err := hashstructure.Hash(o.toWire(), hashstructure.FormatV2, nil)
	if err != nil {
		return false
	}
	hb, err := hashstructure.Hash(other.toWire(), hashstructure.FormatV2, nil)
	if err != nil {
		return false
	}
	return ha == hb
}
