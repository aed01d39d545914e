package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/repos"
	"github.com/yungbote/herbolario-backend/internal/types"
	"github.com/yungbote/herbolario-backend/internal/utils"
)

// PlantService is the write/read facade over the catalog store. Every
// multi-row write runs inside one transaction: either the plant and all of
// its children land, or nothing does.
type PlantService interface {
	CreatePlant(ctx context.Context, input PlantInput) (uuid.UUID, error)
	UpdatePlant(ctx context.Context, id uuid.UUID, input PlantInput) (*types.Plant, error)
	DeletePlant(ctx context.Context, id uuid.UUID) error
	ListPlants(ctx context.Context) ([]*types.Plant, error)
	GetBySlug(ctx context.Context, slug string) (*types.Plant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Plant, error)
	SetImageURL(ctx context.Context, id uuid.UUID, url string) error
}

type ChildInput struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type BackingInput struct {
	Finding   string `json:"finding"`
	Language  string `json:"language"`
	Year      int    `json:"year"`
	SourceURL string `json:"source_url"`
}

type PlantInput struct {
	Slug               string         `json:"slug"`
	CommonName         string         `json:"common_name"`
	ScientificName     string         `json:"scientific_name"`
	Description        string         `json:"description"`
	EvidenceLevel      string         `json:"evidence_level"`
	HasInteractions    bool           `json:"has_interactions"`
	Precautions        []string       `json:"precautions"`
	Interactions       []string       `json:"interactions"`
	Benefits           []ChildInput   `json:"benefits"`
	UsageMethods       []ChildInput   `json:"usage_methods"`
	ScientificBackings []BackingInput `json:"scientific_backings"`
}

var evidenceLevels = map[string]bool{
	"alta":          true,
	"moderada":      true,
	"baja":          true,
	"sin-evidencia": true,
}

type plantService struct {
	db          *gorm.DB
	log         *logger.Logger
	plantRepo   repos.PlantRepo
	benefitRepo repos.BenefitRepo
	usageRepo   repos.UsageMethodRepo
	backingRepo repos.ScientificBackingRepo
}

func NewPlantService(
	db *gorm.DB,
	baseLog *logger.Logger,
	plantRepo repos.PlantRepo,
	benefitRepo repos.BenefitRepo,
	usageRepo repos.UsageMethodRepo,
	backingRepo repos.ScientificBackingRepo,
) PlantService {
	serviceLog := baseLog.With("service", "PlantService")
	return &plantService{
		db:          db,
		log:         serviceLog,
		plantRepo:   plantRepo,
		benefitRepo: benefitRepo,
		usageRepo:   usageRepo,
		backingRepo: backingRepo,
	}
}

func (ps *plantService) CreatePlant(ctx context.Context, input PlantInput) (uuid.UUID, error) {
	normalized, err := ps.normalize(input)
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := ps.plantRepo.SlugExists(ctx, nil, normalized.Slug)
	if err != nil {
		return uuid.Nil, translateDBError("check slug", err)
	}
	if exists {
		return uuid.Nil, &ConflictError{Field: "slug", Value: normalized.Slug}
	}

	id := uuid.New()
	ps.log.Info("CreatePlant", "plant_id", id, "slug", normalized.Slug)

	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plant := &types.Plant{
			ID:              id,
			Slug:            normalized.Slug,
			CommonName:      normalized.CommonName,
			ScientificName:  normalized.ScientificName,
			Description:     normalized.Description,
			EvidenceLevel:   normalized.EvidenceLevel,
			HasInteractions: normalized.HasInteractions,
			Precautions:     mustJSON(normalized.Precautions),
			Interactions:    mustJSON(normalized.Interactions),
		}
		if _, err := ps.plantRepo.Create(ctx, tx, []*types.Plant{plant}); err != nil {
			return fmt.Errorf("insert plant: %w", err)
		}
		return ps.insertChildren(ctx, tx, id, normalized)
	})
	if txErr != nil {
		ps.log.Error("CreatePlant failed", "plant_id", id, "error", txErr)
		return uuid.Nil, translateDBError("create plant", txErr)
	}
	return id, nil
}

func (ps *plantService) UpdatePlant(ctx context.Context, id uuid.UUID, input PlantInput) (*types.Plant, error) {
	normalized, err := ps.normalize(input)
	if err != nil {
		return nil, err
	}

	existing, err := ps.plantRepo.GetByIDs(ctx, nil, []uuid.UUID{id}, false)
	if err != nil {
		return nil, translateDBError("load plant", err)
	}
	if len(existing) == 0 {
		return nil, ErrNotFound
	}

	ps.log.Info("UpdatePlant", "plant_id", id, "slug", normalized.Slug)

	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"slug":             normalized.Slug,
			"common_name":      normalized.CommonName,
			"scientific_name":  normalized.ScientificName,
			"description":      normalized.Description,
			"evidence_level":   normalized.EvidenceLevel,
			"has_interactions": normalized.HasInteractions,
			"precautions":      mustJSON(normalized.Precautions),
			"interactions":     mustJSON(normalized.Interactions),
		}
		rows, err := ps.plantRepo.UpdateFields(ctx, tx, id, fields)
		if err != nil {
			return fmt.Errorf("update plant: %w", err)
		}
		if rows == 0 {
			// Existence was checked above; a concurrent delete can still
			// win the race.
			return ErrNotFound
		}

		// Child collections are replaced wholesale, never diffed. An empty
		// input list empties that collection.
		if _, err := ps.benefitRepo.DeleteByPlantIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("clear benefits: %w", err)
		}
		if _, err := ps.usageRepo.DeleteByPlantIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("clear usage methods: %w", err)
		}
		if _, err := ps.backingRepo.DeleteByPlantIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("clear scientific backings: %w", err)
		}
		return ps.insertChildren(ctx, tx, id, normalized)
	})
	if txErr != nil {
		ps.log.Error("UpdatePlant failed", "plant_id", id, "error", txErr)
		return nil, translateDBError("update plant", txErr)
	}

	return ps.GetByID(ctx, id)
}

// DeletePlant removes the plant row; the ON DELETE CASCADE foreign keys take
// the children with it. Deleting an id that does not exist is ErrNotFound.
func (ps *plantService) DeletePlant(ctx context.Context, id uuid.UUID) error {
	ps.log.Info("DeletePlant", "plant_id", id)
	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := ps.plantRepo.Delete(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete plant: %w", err)
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
	if txErr != nil {
		return translateDBError("delete plant", txErr)
	}
	return nil
}

func (ps *plantService) ListPlants(ctx context.Context) ([]*types.Plant, error) {
	plants, err := ps.plantRepo.List(ctx, nil, true)
	if err != nil {
		return nil, translateDBError("list plants", err)
	}
	if plants == nil {
		plants = []*types.Plant{}
	}
	return plants, nil
}

func (ps *plantService) GetBySlug(ctx context.Context, slug string) (*types.Plant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, &ValidationError{Field: "slug", Reason: "must not be empty"}
	}
	plants, err := ps.plantRepo.GetBySlugs(ctx, nil, []string{slug}, true)
	if err != nil {
		return nil, translateDBError("get plant by slug", err)
	}
	if len(plants) == 0 {
		return nil, ErrNotFound
	}
	return plants[0], nil
}

func (ps *plantService) GetByID(ctx context.Context, id uuid.UUID) (*types.Plant, error) {
	plants, err := ps.plantRepo.GetByIDs(ctx, nil, []uuid.UUID{id}, true)
	if err != nil {
		return nil, translateDBError("get plant by id", err)
	}
	if len(plants) == 0 {
		return nil, ErrNotFound
	}
	return plants[0], nil
}

func (ps *plantService) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	rows, err := ps.plantRepo.UpdateFields(ctx, nil, id, map[string]interface{}{"image_url": url})
	if err != nil {
		return translateDBError("set image url", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// normalize trims the input, applies the slug fallback and the evidence
// default, and drops children with empty descriptions, the same way the
// admin form did before the strings reached the datastore.
func (ps *plantService) normalize(input PlantInput) (PlantInput, error) {
	out := input
	out.CommonName = strings.TrimSpace(input.CommonName)
	if out.CommonName == "" {
		return out, &ValidationError{Field: "common_name", Reason: "must not be empty"}
	}

	out.Slug = strings.TrimSpace(input.Slug)
	if out.Slug == "" {
		out.Slug = utils.Slugify(out.CommonName)
	}
	if out.Slug == "" {
		return out, &ValidationError{Field: "slug", Reason: "could not derive a slug from the common name"}
	}

	out.ScientificName = strings.TrimSpace(input.ScientificName)
	out.Description = strings.TrimSpace(input.Description)

	out.EvidenceLevel = strings.ToLower(strings.TrimSpace(input.EvidenceLevel))
	if out.EvidenceLevel == "" {
		out.EvidenceLevel = "moderada"
	}
	if !evidenceLevels[out.EvidenceLevel] {
		return out, &ValidationError{Field: "evidence_level", Reason: "must be one of alta, moderada, baja, sin-evidencia"}
	}

	out.Benefits = cleanChildren(input.Benefits)
	out.UsageMethods = cleanChildren(input.UsageMethods)
	out.ScientificBackings = nil
	for _, b := range input.ScientificBackings {
		b.Finding = strings.TrimSpace(b.Finding)
		if b.Finding == "" {
			continue
		}
		out.ScientificBackings = append(out.ScientificBackings, b)
	}
	return out, nil
}

func cleanChildren(in []ChildInput) []ChildInput {
	var out []ChildInput
	for _, c := range in {
		c.Description = strings.TrimSpace(c.Description)
		c.Category = strings.TrimSpace(c.Category)
		if c.Description == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (ps *plantService) insertChildren(ctx context.Context, tx *gorm.DB, plantID uuid.UUID, input PlantInput) error {
	benefits := make([]*types.Benefit, 0, len(input.Benefits))
	for _, b := range input.Benefits {
		benefits = append(benefits, &types.Benefit{
			ID:          uuid.New(),
			PlantID:     plantID,
			Description: b.Description,
			Category:    b.Category,
		})
	}
	if _, err := ps.benefitRepo.Create(ctx, tx, benefits); err != nil {
		return fmt.Errorf("insert benefits: %w", err)
	}

	methods := make([]*types.UsageMethod, 0, len(input.UsageMethods))
	for _, u := range input.UsageMethods {
		methods = append(methods, &types.UsageMethod{
			ID:          uuid.New(),
			PlantID:     plantID,
			Description: u.Description,
			Category:    u.Category,
		})
	}
	if _, err := ps.usageRepo.Create(ctx, tx, methods); err != nil {
		return fmt.Errorf("insert usage methods: %w", err)
	}

	backings := make([]*types.ScientificBacking, 0, len(input.ScientificBackings))
	for _, s := range input.ScientificBackings {
		backings = append(backings, &types.ScientificBacking{
			ID:        uuid.New(),
			PlantID:   plantID,
			Finding:   s.Finding,
			Language:  s.Language,
			Year:      s.Year,
			SourceURL: s.SourceURL,
		})
	}
	if _, err := ps.backingRepo.Create(ctx, tx, backings); err != nil {
		return fmt.Errorf("insert scientific backings: %w", err)
	}
	return nil
}

func mustJSON(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return datatypes.JSON(raw)
}
