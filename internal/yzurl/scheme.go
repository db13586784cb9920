package yzurl

// Kind identifies which backend a URL's path is resolved against.
type Kind uint8

const (
	Regular Kind = iota
	Search
	Archive
	SFTP
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Search:
		return "search"
	case Archive:
		return "archive"
	case SFTP:
		return "sftp"
	default:
		return "unknown"
	}
}

// Scheme is (kind, domain). domain is empty for Regular; for Search/Archive/
// SFTP it names the virtual filesystem instance the URL is resolved
// against (e.g. a search query id, an archive path, an SFTP host alias).
type Scheme struct {
	Kind   Kind
	Domain string
}

// SameKind reports whether two schemes share a kind, ignoring domain.
func (s Scheme) SameKind(o Scheme) bool { return s.Kind == o.Kind }

func (s Scheme) String() string {
	if s.Domain == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + "://" + s.Domain
}
