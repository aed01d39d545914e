package search

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/herbolario-backend/internal/types"
)

func testCatalog() []*types.Plant {
	return []*types.Plant{
		{
			ID:             uuid.New(),
			Slug:           "una-de-gato",
			CommonName:     "Uña de Gato",
			ScientificName: "Uncaria tomentosa",
			Description:    "Planta trepadora inmunomoduladora",
			EvidenceLevel:  "alta",
			Benefits: []types.Benefit{
				{Description: "Refuerza el sistema inmune", Category: "Inmunológico"},
				{Description: "Alivia la artritis", Category: "Musculoesquelético"},
			},
			UsageMethods: []types.UsageMethod{
				{Description: "Decocción de corteza", Category: "Corteza"},
			},
		},
		{
			ID:             uuid.New(),
			Slug:           "boldo",
			CommonName:     "Boldo",
			ScientificName: "Peumus boldus",
			Description:    "Hojas para problemas hepáticos",
			EvidenceLevel:  "moderada",
			Benefits: []types.Benefit{
				{Description: "Apoya la digestión", Category: "Digestivo"},
			},
			UsageMethods: []types.UsageMethod{
				{Description: "Infusión de hojas", Category: "Hojas"},
			},
		},
		{
			ID:             uuid.New(),
			Slug:           "sangre-de-drago",
			CommonName:     "Sangre de Drago",
			ScientificName: "Croton lechleri",
			Description:    "Resina cicatrizante",
			EvidenceLevel:  "moderada",
			Benefits: []types.Benefit{
				// No category: ailment matching falls back to description.
				{Description: "Cicatrización de heridas"},
			},
			UsageMethods: []types.UsageMethod{
				{Description: "Aplicación tópica de resina", Category: "Resina"},
			},
		},
	}
}

func slugs(plants []*types.Plant) []string {
	out := make([]string, len(plants))
	for i, p := range plants {
		out[i] = p.Slug
	}
	return out
}

func TestFilter(t *testing.T) {
	catalog := testCatalog()

	cases := []struct {
		name string
		c    Criteria
		want []string
	}{
		{
			name: "no_criteria_returns_all",
			c:    Criteria{},
			want: []string{"una-de-gato", "boldo", "sangre-de-drago"},
		},
		{
			name: "query_matches_common_name_case_insensitive",
			c:    Criteria{Query: "BOLDO"},
			want: []string{"boldo"},
		},
		{
			name: "query_matches_scientific_name",
			c:    Criteria{Query: "croton"},
			want: []string{"sangre-de-drago"},
		},
		{
			name: "query_matches_child_description",
			c:    Criteria{Query: "artritis"},
			want: []string{"una-de-gato"},
		},
		{
			name: "ailment_matches_category_lowercase",
			c:    Criteria{Ailment: "digestivo"},
			want: []string{"boldo"},
		},
		{
			name: "ailment_falls_back_to_description",
			c:    Criteria{Ailment: "cicatriz"},
			want: []string{"sangre-de-drago"},
		},
		{
			name: "part_matches_usage_category",
			c:    Criteria{Part: "hojas"},
			want: []string{"boldo"},
		},
		{
			name: "evidence_exact_match",
			c:    Criteria{Evidence: "ALTA"},
			want: []string{"una-de-gato"},
		},
		{
			name: "combined_criteria_are_anded",
			c:    Criteria{Query: "resina", Part: "resina", Evidence: "moderada"},
			want: []string{"sangre-de-drago"},
		},
		{
			name: "conflicting_criteria_match_nothing",
			c:    Criteria{Query: "boldo", Part: "corteza"},
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := slugs(Filter(catalog, tc.c))
			if len(got) != len(tc.want) {
				t.Fatalf("Filter(%+v) returned %v, want %v", tc.c, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Filter(%+v) returned %v, want %v", tc.c, got, tc.want)
				}
			}
		})
	}
}

// The combination rule: filtering with several criteria at once must equal
// the intersection of filtering with each criterion alone.
func TestFilterANDCombination(t *testing.T) {
	catalog := testCatalog()
	c := Criteria{Query: "de", Ailment: "cicatriz", Part: "resina"}

	combined := Filter(catalog, c)

	inAll := map[string]int{}
	for _, single := range []Criteria{
		{Query: c.Query},
		{Ailment: c.Ailment},
		{Part: c.Part},
	} {
		for _, p := range Filter(catalog, single) {
			inAll[p.Slug]++
		}
	}

	var intersection []string
	for _, p := range catalog {
		if inAll[p.Slug] == 3 {
			intersection = append(intersection, p.Slug)
		}
	}

	got := slugs(combined)
	if len(got) != len(intersection) {
		t.Fatalf("combined filter %v != intersection %v", got, intersection)
	}
	for i := range got {
		if got[i] != intersection[i] {
			t.Fatalf("combined filter %v != intersection %v", got, intersection)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	catalog := testCatalog()
	before := slugs(catalog)

	_ = Filter(catalog, Criteria{Query: "boldo"})

	after := slugs(catalog)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input order changed: %v -> %v", before, after)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := make([]*types.Plant, 7)
	for i := range items {
		items[i] = &types.Plant{ID: uuid.New(), Slug: fmt.Sprintf("plant-%d", i)}
	}

	cases := []struct {
		name       string
		page       int
		size       int
		wantLen    int
		wantPages  int
		wantFirst  string
	}{
		{name: "first_page_full", page: 1, size: 6, wantLen: 6, wantPages: 2, wantFirst: "plant-0"},
		{name: "second_page_remainder", page: 2, size: 6, wantLen: 1, wantPages: 2, wantFirst: "plant-6"},
		{name: "page_past_end_empty", page: 3, size: 6, wantLen: 0, wantPages: 2},
		{name: "exact_division", page: 1, size: 7, wantLen: 7, wantPages: 1, wantFirst: "plant-0"},
		{name: "page_below_one_clamps", page: 0, size: 3, wantLen: 3, wantPages: 3, wantFirst: "plant-0"},
		{name: "zero_size_empty", page: 1, size: 0, wantLen: 0, wantPages: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(items, tc.page, tc.size)
			if len(got.Items) != tc.wantLen {
				t.Fatalf("Paginate(page=%d,size=%d) len=%d, want %d", tc.page, tc.size, len(got.Items), tc.wantLen)
			}
			if got.Total != 7 {
				t.Fatalf("Total=%d, want 7", got.Total)
			}
			if got.TotalPages != tc.wantPages {
				t.Fatalf("TotalPages=%d, want %d", got.TotalPages, tc.wantPages)
			}
			if tc.wantLen > 0 && got.Items[0].Slug != tc.wantFirst {
				t.Fatalf("first item %q, want %q", got.Items[0].Slug, tc.wantFirst)
			}
		})
	}
}

// Concatenating every page must reconstruct the filtered list exactly.
func TestPaginateReconstructsList(t *testing.T) {
	items := make([]*types.Plant, 10)
	for i := range items {
		items[i] = &types.Plant{ID: uuid.New(), Slug: fmt.Sprintf("plant-%d", i)}
	}

	size := 3
	var rebuilt []*types.Plant
	pages := 0
	for page := 1; ; page++ {
		p := Paginate(items, page, size)
		if len(p.Items) == 0 {
			break
		}
		pages++
		rebuilt = append(rebuilt, p.Items...)
	}

	if pages != 4 {
		t.Fatalf("non-empty pages=%d, want 4", pages)
	}
	if len(rebuilt) != len(items) {
		t.Fatalf("rebuilt %d items, want %d", len(rebuilt), len(items))
	}
	for i := range items {
		if rebuilt[i].Slug != items[i].Slug {
			t.Fatalf("rebuilt[%d]=%q, want %q", i, rebuilt[i].Slug, items[i].Slug)
		}
	}
}

func TestCategories(t *testing.T) {
	catalog := testCatalog()
	// Duplicate categories across plants must not duplicate labels.
	catalog = append(catalog, &types.Plant{
		ID:         uuid.New(),
		Slug:       "manzanilla",
		CommonName: "Manzanilla",
		Benefits: []types.Benefit{
			{Description: "Calma el estómago", Category: "Digestivo"},
		},
		UsageMethods: []types.UsageMethod{
			{Description: "Infusión de flores", Category: "Flores"},
			{Description: "Infusión de hojas frescas", Category: "Hojas"},
		},
	})

	ailments, parts := Categories(catalog)

	wantAilments := []string{"Inmunológico", "Musculoesquelético", "Digestivo"}
	wantParts := []string{"Corteza", "Hojas", "Resina", "Flores"}

	if len(ailments) != len(wantAilments) {
		t.Fatalf("ailments=%v, want %v", ailments, wantAilments)
	}
	for i := range ailments {
		if ailments[i] != wantAilments[i] {
			t.Fatalf("ailments=%v, want %v", ailments, wantAilments)
		}
	}
	if len(parts) != len(wantParts) {
		t.Fatalf("parts=%v, want %v", parts, wantParts)
	}
	for i := range parts {
		if parts[i] != wantParts[i] {
			t.Fatalf("parts=%v, want %v", parts, wantParts)
		}
	}
}

func TestCategoriesEmptyCatalog(t *testing.T) {
	ailments, parts := Categories(nil)
	if ailments == nil || parts == nil {
		t.Fatalf("expected empty non-nil slices, got %v / %v", ailments, parts)
	}
	if len(ailments) != 0 || len(parts) != 0 {
		t.Fatalf("expected no categories, got %v / %v", ailments, parts)
	}
}
