package service

import (
	"slices"
	"strings"

	"doclib/internal/model"
)

// SortKey selects the ordering of a document listing.
type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortNameAsc  SortKey = "name_asc"
	SortNameDesc SortKey = "name_desc"
)

// AnySubject disables the subject filter.
const AnySubject = ""

// ParseSortKey validates a client supplied sort key. Empty means SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortNameAsc, SortNameDesc:
		return k, nil
	default:
		return "", validationError("unknown sort key %q", s)
	}
}

// Query describes a filtered, ordered view over a user's documents.
type Query struct {
	// SearchTerm is matched case-insensitively as a substring of the file name.
	SearchTerm string
	// SubjectName must equal the document's subject name unless it is AnySubject.
	SubjectName string
	// Tags must all be present on a document for it to match.
	Tags []string
	Sort SortKey
	// Limit caps the result after sorting; 0 means no cap.
	Limit int
}

// FilterDocuments returns the documents matching q in the requested order.
// docs is left untouched.
func FilterDocuments(docs []model.Document, q Query) []model.Document {
	term := strings.ToLower(q.SearchTerm)
	want := NormalizeTags(q.Tags...)

	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if term != "" && !strings.Contains(strings.ToLower(d.FileName), term) {
			continue
		}
		if q.SubjectName != AnySubject && d.SubjectName != q.SubjectName {
			continue
		}
		if !hasAllTags(d.Tags, want) {
			continue
		}
		out = append(out, d)
	}

	sortDocuments(out, q.Sort)

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func hasAllTags(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, t := range have {
		set[strings.TrimSpace(t)] = struct{}{}
	}
	for _, t := range want {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

func sortDocuments(docs []model.Document, key SortKey) {
	switch key {
	case SortOldest:
		slices.SortStableFunc(docs, func(a, b model.Document) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case SortNameAsc:
		slices.SortStableFunc(docs, func(a, b model.Document) int { return strings.Compare(a.FileName, b.FileName) })
	case SortNameDesc:
		slices.SortStableFunc(docs, func(a, b model.Document) int { return strings.Compare(b.FileName, a.FileName) })
	default:
		slices.SortStableFunc(docs, func(a, b model.Document) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}
}

// NormalizeTags splits every value on commas, trims the pieces and drops
// empty and repeated ones. First-seen order is kept.
func NormalizeTags(raw ...string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		for _, t := range strings.Split(r, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func sameTagSet(a, b []string) bool {
	x, y := NormalizeTags(a...), NormalizeTags(b...)
	if len(x) != len(y) {
		return false
	}
	return hasAllTags(x, y)
}
