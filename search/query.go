package search

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Jarva/nbtworkbench/nbt"
	"github.com/Jarva/nbtworkbench/tree"
)

// Substring matches nodes whose key or display value contains a literal
// needle. The zero value matches nothing; construct with NewSubstring.
type Substring struct {
	needle        string
	caseSensitive bool
	folder        cases.Caser
}

// NewSubstring builds a substring query. When caseSensitive is false the
// needle and candidates are Unicode case-folded before comparison, so
// "STRASSE" finds "straße".
func NewSubstring(needle string, caseSensitive bool) *Substring {
	s := &Substring{needle: needle, caseSensitive: caseSensitive}
	if !caseSensitive {
		s.folder = cases.Fold()
		s.needle = s.folder.String(needle)
	}
	return s
}

func (s *Substring) contains(hay string) bool {
	if s.needle == "" {
		return false
	}
	if !s.caseSensitive {
		hay = s.folder.String(hay)
	}
	return strings.Contains(hay, s.needle)
}

// Matches implements Query.
func (s *Substring) Matches(t *tree.Tree, id tree.NodeID) (bool, bool) {
	key, named := t.KeyOf(id)
	inKey := named && s.contains(key)
	inValue := t.KindOf(id).IsScalar() && s.contains(t.DisplayOf(id))
	return inKey, inValue
}

// Regex matches nodes whose key or display value contains a match of a
// compiled regular expression.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles expr into a regex query.
func NewRegex(expr string) (*Regex, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

// Matches implements Query.
func (r *Regex) Matches(t *tree.Tree, id tree.NodeID) (bool, bool) {
	key, named := t.KeyOf(id)
	inKey := named && r.re.MatchString(key)
	inValue := t.KindOf(id).IsScalar() && r.re.MatchString(t.DisplayOf(id))
	return inKey, inValue
}

// Pattern matches nodes structurally against a partial tag tree: compound
// patterns require each listed key to exist and match (extra keys in the
// candidate are fine), list patterns require every pattern element to match
// some candidate element, and scalars and arrays must be equal in kind and
// value.
type Pattern struct {
	want *nbt.Tag
}

// NewPattern wraps a parsed pattern tag. Parse text notation with
// snbt.Decode first.
func NewPattern(want *nbt.Tag) *Pattern {
	return &Pattern{want: want}
}

// Matches implements Query. Pattern hits are value matches.
func (p *Pattern) Matches(t *tree.Tree, id tree.NodeID) (bool, bool) {
	return false, tagMatches(p.want, t.TagOf(id))
}

func tagMatches(want, got *nbt.Tag) bool {
	if want.Kind() != got.Kind() {
		return false
	}
	switch want.Kind() {
	case nbt.KindCompound:
		wc, gc := want.Compound(), got.Compound()
		for i := 0; i < wc.Len(); i++ {
			e := wc.Entry(i)
			sub := gc.Get(e.Name)
			if sub == nil || !tagMatches(e.Tag, sub) {
				return false
			}
		}
		return true
	case nbt.KindList:
		wl, gl := want.List(), got.List()
		for i := 0; i < wl.Len(); i++ {
			found := false
			for j := 0; j < gl.Len(); j++ {
				if tagMatches(wl.Get(i), gl.Get(j)) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return want.Equal(got)
	}
}
