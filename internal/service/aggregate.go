package service

import (
	"sort"
	"strings"

	"doclib/internal/model"
)

const bytesPerMB = 1024 * 1024

// ComputeStats summarises a user's documents and subjects.
// Documents without a usable size count as zero bytes.
func ComputeStats(docs []model.Document, subjects []model.Subject) model.Stats {
	tags := make(map[string]struct{})
	var totalMB float64
	for _, d := range docs {
		for _, t := range d.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags[t] = struct{}{}
			}
		}
		if d.FileSize != nil && *d.FileSize > 0 {
			totalMB += float64(*d.FileSize) / bytesPerMB
		}
	}
	return model.Stats{
		TotalDocuments: len(docs),
		TotalSubjects:  len(subjects),
		TotalTags:      len(tags),
		TotalSizeMB:    totalMB,
	}
}

// SubjectDocumentCounts maps subject id to the number of documents filed under it.
func SubjectDocumentCounts(docs []model.Document) map[string]int {
	counts := make(map[string]int)
	for _, d := range docs {
		if d.SubjectID != nil && *d.SubjectID != "" {
			counts[*d.SubjectID]++
		}
	}
	return counts
}

// DistinctTags returns every tag used across docs, sorted.
func DistinctTags(docs []model.Document) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, d := range docs {
		for _, t := range d.Tags {
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
	sort.Strings(out)
	return out
}
