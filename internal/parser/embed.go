package parser

import (
	"go/types"
	"sort"

	"github.com/seitarof/gen-builder/internal/resolver"
)

type fieldCandidate struct {
	field     FieldInfo
	depth     int
	order     int
	ambiguous bool
	conflicts []string
}

// flattenFields lists exported fields in declaration order. Fields promoted
// from embedded structs appear where the struct is embedded; a shallower
// field shadows deeper ones and same-depth conflicts are dropped, the
// same way Go resolves selectors. Dropped conflicts are returned apart.
func flattenFields(st *types.Struct, r resolver.Resolver) ([]FieldInfo, []Ambiguity) {
	candidates := map[string]fieldCandidate{}
	order := 0
	collectFlattenedFields(st, nil, 0, r, candidates, &order)

	sorted := make([]fieldCandidate, 0, len(candidates))
	for _, cand := range candidates {
		sorted = append(sorted, cand)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].order < sorted[j].order
	})

	fields := make([]FieldInfo, 0, len(sorted))
	var ambiguous []Ambiguity
	for _, cand := range sorted {
		if cand.ambiguous {
			ambiguous = append(ambiguous, Ambiguity{Name: cand.field.Name, Paths: cand.conflicts})
			continue
		}
		fields = append(fields, cand.field)
	}
	return fields, ambiguous
}

func collectFlattenedFields(
	st *types.Struct,
	embeds []Embed,
	depth int,
	r resolver.Resolver,
	out map[string]fieldCandidate,
	order *int,
) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			// Exported fields of an unexported embed are promoted too.
			if embedded, ok := embeddedStruct(f.Type()); ok && promotesFields(embedded) {
				next := appendEmbed(embeds, Embed{Name: f.Name(), Type: f.Type()})
				collectFlattenedFields(embedded, next, depth+1, r, out, order)
				continue
			}
		}
		if !f.Exported() {
			continue
		}

		field := FieldInfo{
			Name:   f.Name(),
			Embeds: embeds,
			Type:   f.Type(),
			Ref:    r.Resolve(f.Type()),
		}
		addCandidate(out, field, depth, order)
	}
}

// promotesFields reports whether st has any exported field reachable
// through value embedding. An embed without one, like time.Time, is set
// as a whole.
func promotesFields(st *types.Struct) bool {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			if embedded, ok := embeddedStruct(f.Type()); ok && promotesFields(embedded) {
				return true
			}
		}
		if f.Exported() {
			return true
		}
	}
	return false
}

func addCandidate(out map[string]fieldCandidate, field FieldInfo, depth int, order *int) {
	cand, exists := out[field.Name]
	if !exists || depth < cand.depth {
		out[field.Name] = fieldCandidate{field: field, depth: depth, order: *order}
		*order = *order + 1
		return
	}
	if depth > cand.depth {
		return
	}

	if cand.field.AccessPath() != field.AccessPath() {
		if !cand.ambiguous {
			cand.conflicts = []string{cand.field.AccessPath()}
		}
		cand.ambiguous = true
		cand.conflicts = append(cand.conflicts, field.AccessPath())
		out[field.Name] = cand
	}
}

func appendEmbed(prefix []Embed, e Embed) []Embed {
	next := make([]Embed, 0, len(prefix)+1)
	next = append(next, prefix...)
	return append(next, e)
}

// embeddedStruct only descends into value embeds. A pointer embed may be
// nil, so it is set as a whole like any other field.
func embeddedStruct(t types.Type) (*types.Struct, bool) {
	switch v := t.(type) {
	case *types.Alias:
		return embeddedStruct(v.Rhs())
	case *types.Named:
		st, ok := v.Underlying().(*types.Struct)
		return st, ok
	}
	return nil, false
}
