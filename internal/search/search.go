// Package search filters and paginates an in-memory view of the plant
// catalog. Everything here is pure: inputs are never mutated and no I/O
// happens, so the transport layer can apply it to whatever slice of the
// catalog it already holds.
package search

import (
	"strings"

	"github.com/yungbote/herbolario-backend/internal/types"
)

// Criteria are AND-combined; an empty field means no constraint. All
// matching is case-insensitive. Query and the category criteria are
// substring matches; Evidence is an exact level match.
type Criteria struct {
	Query    string
	Ailment  string
	Part     string
	Evidence string
}

type Page struct {
	Items      []*types.Plant `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

func Filter(plants []*types.Plant, c Criteria) []*types.Plant {
	query := fold(c.Query)
	ailment := fold(c.Ailment)
	part := fold(c.Part)
	evidence := fold(c.Evidence)

	out := make([]*types.Plant, 0, len(plants))
	for _, p := range plants {
		if p == nil {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if ailment != "" && !matchesAilment(p, ailment) {
			continue
		}
		if part != "" && !matchesPart(p, part) {
			continue
		}
		if evidence != "" && fold(p.EvidenceLevel) != evidence {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Paginate slices a filtered list into 1-based pages. A page past the end
// yields an empty item list, not an error; page numbers below 1 are read
// as page 1.
func Paginate(items []*types.Plant, page, size int) Page {
	if page < 1 {
		page = 1
	}
	total := len(items)
	if size < 1 {
		return Page{Items: []*types.Plant{}, Total: total, Page: page, TotalPages: 0}
	}
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start >= total {
		return Page{Items: []*types.Plant{}, Total: total, Page: page, TotalPages: totalPages}
	}
	end := start + size
	if end > total {
		end = total
	}
	return Page{Items: items[start:end], Total: total, Page: page, TotalPages: totalPages}
}

// Categories extracts the distinct benefit categories (ailment groups) and
// usage-method categories (plant parts) across the catalog, in first-seen
// order, for populating filter controls.
func Categories(plants []*types.Plant) (ailments []string, parts []string) {
	ailments = []string{}
	parts = []string{}
	seenAilments := map[string]bool{}
	seenParts := map[string]bool{}
	for _, p := range plants {
		if p == nil {
			continue
		}
		for _, b := range p.Benefits {
			label := strings.TrimSpace(b.Category)
			if label == "" {
				continue
			}
			key := fold(label)
			if !seenAilments[key] {
				seenAilments[key] = true
				ailments = append(ailments, label)
			}
		}
		for _, u := range p.UsageMethods {
			label := strings.TrimSpace(u.Category)
			if label == "" {
				continue
			}
			key := fold(label)
			if !seenParts[key] {
				seenParts[key] = true
				parts = append(parts, label)
			}
		}
	}
	return ailments, parts
}

func matchesQuery(p *types.Plant, query string) bool {
	if contains(p.CommonName, query) ||
		contains(p.ScientificName, query) ||
		contains(p.Description, query) {
		return true
	}
	for _, b := range p.Benefits {
		if contains(b.Description, query) || contains(b.Category, query) {
			return true
		}
	}
	for _, u := range p.UsageMethods {
		if contains(u.Description, query) || contains(u.Category, query) {
			return true
		}
	}
	for _, s := range p.ScientificBackings {
		if contains(s.Finding, query) {
			return true
		}
	}
	return false
}

// matchesAilment checks benefit categories, falling back to the benefit
// description for rows written before the category column existed.
func matchesAilment(p *types.Plant, ailment string) bool {
	for _, b := range p.Benefits {
		if b.Category != "" {
			if contains(b.Category, ailment) {
				return true
			}
			continue
		}
		if contains(b.Description, ailment) {
			return true
		}
	}
	return false
}

func matchesPart(p *types.Plant, part string) bool {
	for _, u := range p.UsageMethods {
		if contains(u.Category, part) {
			return true
		}
	}
	return false
}

func contains(haystack, needle string) bool {
	return strings.Contains(fold(haystack), needle)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
