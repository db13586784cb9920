package folder

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yazi-go/yazi/internal/vfile"
)

// SortKey selects which attribute Sorter orders by.
type SortKey uint8

const (
	SortNone SortKey = iota
	SortMtime
	SortBtime
	SortExtension
	SortAlphabetical
	SortNatural
	SortSize
	SortRandom
)

// Sorter totally orders a folder's files. Ties always break on urn so that
// sort order is deterministic regardless of key, satisfying spec.md §4.3's
// "sorting is total" requirement, with a {alphabetical, natural} fallback
// chain when the primary key itself ties (e.g. equal mtimes).
type Sorter struct {
	Key       SortKey
	Reverse   bool
	DirFirst  bool
	Sensitive bool
	Translit  bool
}

// Less reports whether a sorts before b under this Sorter's configuration.
func (s Sorter) Less(a, b vfile.File) bool {
	if s.DirFirst && a.IsDir() != b.IsDir() {
		return a.IsDir()
	}
	cmp := s.compareKey(a, b)
	if cmp == 0 {
		cmp = s.compareFallback(a, b)
	}
	if s.Reverse {
		return cmp > 0
	}
	return cmp < 0
}

func (s Sorter) compareKey(a, b vfile.File) int {
	switch s.Key {
	case SortMtime:
		return cmpTime(a.Cha.Mtime, b.Cha.Mtime)
	case SortBtime:
		return cmpTime(a.Cha.Btime, b.Cha.Btime)
	case SortSize:
		return cmpInt64(a.Cha.Len, b.Cha.Len)
	case SortExtension:
		return strings.Compare(extOf(a.Name()), extOf(b.Name()))
	case SortAlphabetical:
		return s.compareNames(a.Name(), b.Name())
	case SortNatural:
		return naturalCompare(s.foldCase(a.Name()), s.foldCase(b.Name()))
	case SortRandom:
		return 0 // random has no stable key; caller shuffles separately
	default:
		return 0
	}
}

// compareFallback implements the {alphabetical, natural} tie-break chain.
func (s Sorter) compareFallback(a, b vfile.File) int {
	if c := s.compareNames(a.Name(), b.Name()); c != 0 {
		return c
	}
	if c := naturalCompare(s.foldCase(a.Name()), s.foldCase(b.Name())); c != 0 {
		return c
	}
	return strings.Compare(a.Urn(), b.Urn())
}

func (s Sorter) compareNames(a, b string) int {
	return strings.Compare(s.foldCase(a), s.foldCase(b))
}

func (s Sorter) foldCase(n string) string {
	if s.Sensitive {
		return n
	}
	n = strings.ToLower(n)
	if s.Translit {
		n = transliterate(n)
	}
	return n
}

// transliterate does a best-effort ASCII fold of common accented Latin
// characters. No transliteration library appears anywhere in the retrieval
// pack, so this stays a small hand-rolled table (see DESIGN.md).
func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := asciiFold[r]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var asciiFold = map[rune]string{
	'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
	'ñ': "n", 'ç': "c",
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i+1:]
	}
	return ""
}

func cmpTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// Sort orders files in place per this Sorter. Random order is produced by
// Fisher-Yates shuffle rather than a comparator (a stable comparator can't
// express "random").
func (s Sorter) Sort(files []vfile.File) {
	if s.Key == SortRandom {
		rand.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
		return
	}
	sort.SliceStable(files, func(i, j int) bool { return s.Less(files[i], files[j]) })
}

// InsertSorted merge-inserts f into an already-sorted files slice,
// returning the new slice and the insertion index, used by incremental
// FilesOp application for O(log n) position lookup.
func (s Sorter) InsertSorted(files []vfile.File, f vfile.File) ([]vfile.File, int) {
	idx := sort.Search(len(files), func(i int) bool { return !s.Less(files[i], f) })
	files = append(files, vfile.File{})
	copy(files[idx+1:], files[idx:])
	files[idx] = f
	return files, idx
}

// naturalCompare orders strings the way humans expect runs of digits to
// sort ("file2" before "file10").
func naturalCompare(a, b string) int {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		ca, cb := a[ai], b[bi]
		if isDigit(ca) && isDigit(cb) {
			as := ai
			for ai < len(a) && isDigit(a[ai]) {
				ai++
			}
			bs := bi
			for bi < len(b) && isDigit(b[bi]) {
				bi++
			}
			na, _ := strconv.Atoi(strings.TrimLeft(a[as:ai], "0") + "0")
			nb, _ := strconv.Atoi(strings.TrimLeft(b[bs:bi], "0") + "0")
			// compensate the appended "0" used to keep leading-zero-only
			// runs ("0000") parseable as 0 rather than empty.
			na /= 10
			nb /= 10
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		ai++
		bi++
	}
	return (len(a) - ai) - (len(b) - bi)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
