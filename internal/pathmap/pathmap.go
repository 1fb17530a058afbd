// Package pathmap maps canonical source paths into a dated backup tree.
//
// Every destination is composed as
//
//	<output root>/Backup DD-MM-YYYY/<volume>/<source path without its volume and root>
//
// so sources on different volumes can never land on the same destination.
// Mapping is pure string manipulation: no filesystem access.
package pathmap

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bamsammich/mirrorbak/internal/backuperr"
)

// Style describes a platform path syntax.
type Style int

const (
	// Windows paths start with a drive letter ("C:\", or "\\?\C:\").
	Windows Style = iota + 1
	// Unix paths use their first segment after "/" as the volume.
	Unix
)

// Native returns the Style of the running platform.
func Native() Style {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Unix
}

func (s Style) String() string {
	switch s {
	case Windows:
		return "windows"
	case Unix:
		return "unix"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Separator returns the preferred separator for s.
func (s Style) Separator() byte {
	if s == Windows {
		return '\\'
	}
	return '/'
}

func (s Style) isSeparator(c byte) bool {
	if s == Windows {
		return c == '\\' || c == '/'
	}
	return c == '/'
}

// Split decomposes a canonical absolute path into its volume identifier and
// the components that follow the root. The root separator itself is dropped.
// Paths without a recognised volume fail with a NoVolumeIdentifier error.
func (s Style) Split(canonical string) (string, []string, error) {
	switch s {
	case Windows:
		return splitWindows(canonical)
	case Unix:
		return splitUnix(canonical)
	default:
		return "", nil, fmt.Errorf("unknown path style %s", s)
	}
}

func splitWindows(p string) (string, []string, error) {
	rest := p
	// Verbatim disk prefix, as produced by some canonicalization APIs.
	if strings.HasPrefix(rest, `\\?\`) {
		rest = rest[len(`\\?\`):]
	}

	if len(rest) < 2 || rest[1] != ':' || !isLetter(rest[0]) {
		return "", nil, backuperr.NoVolume(p)
	}
	volume := strings.ToUpper(rest[:1])
	rest = rest[2:]

	// Drive-relative paths ("C:foo") are not canonical.
	if rest != "" && !Windows.isSeparator(rest[0]) {
		return "", nil, backuperr.NoVolume(p)
	}
	return volume, Windows.components(rest), nil
}

func splitUnix(p string) (string, []string, error) {
	if !strings.HasPrefix(p, "/") {
		return "", nil, backuperr.NoVolume(p)
	}
	parts := Unix.components(p)
	if len(parts) == 0 {
		return "", nil, backuperr.NoVolume(p)
	}
	return parts[0], parts[1:], nil
}

// components splits p on separators, dropping empty and "." segments.
func (s Style) components(p string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i < len(p) && !s.isSeparator(p[i]) {
			continue
		}
		if seg := p[start:i]; seg != "" && seg != "." {
			parts = append(parts, seg)
		}
		start = i + 1
	}
	return parts
}

// Join appends elem to base using the style separator. Trailing separators on
// base are collapsed; elem values are single components.
func (s Style) Join(base string, elem ...string) string {
	var b strings.Builder
	trimmed := base
	for len(trimmed) > 1 && s.isSeparator(trimmed[len(trimmed)-1]) {
		trimmed = trimmed[:len(trimmed)-1]
	}
	// Keep the separator of a bare drive root ("D:\").
	if s == Windows && len(trimmed) == 2 && trimmed[1] == ':' && len(base) > 2 {
		trimmed = base[:3]
	}
	b.WriteString(trimmed)
	for _, e := range elem {
		if e == "" {
			continue
		}
		if b.Len() > 0 && !s.isSeparator(b.String()[b.Len()-1]) {
			b.WriteByte(s.Separator())
		}
		b.WriteString(e)
	}
	return b.String()
}

// Contains reports whether child equals parent or lies below it. Windows
// comparisons ignore case.
func (s Style) Contains(parent, child string) bool {
	pp := s.components(parent)
	cp := s.components(child)
	if len(cp) < len(pp) {
		return false
	}
	for i := range pp {
		if s == Windows {
			if !strings.EqualFold(pp[i], cp[i]) {
				return false
			}
		} else if pp[i] != cp[i] {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// BackupFolder returns the dated folder name for t, e.g. "Backup 07-03-2026".
func BackupFolder(t time.Time) string {
	return fmt.Sprintf("Backup %02d-%02d-%d", t.Day(), int(t.Month()), t.Year())
}

// Mapper composes destination paths under a dated backup root.
type Mapper struct {
	root  string
	style Style
}

// New returns a Mapper rooted at outputRoot/BackupFolder(now).
func New(outputRoot string, now time.Time, style Style) Mapper {
	return Mapper{
		root:  style.Join(outputRoot, BackupFolder(now)),
		style: style,
	}
}

// Root returns the dated backup root.
func (m Mapper) Root() string { return m.root }

// Style returns the path style used by m.
func (m Mapper) Style() Style { return m.style }

// Map returns the destination for a canonical source path.
func (m Mapper) Map(canonical string) (string, error) {
	volume, rest, err := m.style.Split(canonical)
	if err != nil {
		return "", err
	}
	return m.style.Join(m.root, append([]string{volume}, rest...)...), nil
}
