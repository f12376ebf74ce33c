package builderspec

import (
	"go/token"
	"go/types"
	"sort"
	"strconv"
)

// importSet assigns collision-free names to the packages a builder refers
// to. Types of the local package stay unqualified.
type importSet struct {
	local  string
	byPath map[string]string
	taken  map[string]bool
}

func newImportSet(local string) *importSet {
	return &importSet{
		local:  local,
		byPath: map[string]string{},
		taken:  map[string]bool{},
	}
}

func (s *importSet) add(path, name string) string {
	if n, ok := s.byPath[path]; ok {
		return n
	}
	candidate := name
	for i := 2; s.taken[candidate] || token.IsKeyword(candidate); i++ {
		candidate = name + strconv.Itoa(i)
	}
	s.byPath[path] = candidate
	s.taken[candidate] = true
	return candidate
}

func (s *importSet) qualifier() types.Qualifier {
	return func(p *types.Package) string {
		if p == nil || p.Path() == s.local {
			return ""
		}
		return s.add(p.Path(), p.Name())
	}
}

func (s *importSet) names() []string {
	out := make([]string, 0, len(s.taken))
	for name := range s.taken {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *importSet) list() []Import {
	out := make([]Import, 0, len(s.byPath))
	for path, name := range s.byPath {
		out = append(out, Import{Name: name, Path: path})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}
