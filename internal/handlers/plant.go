package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/search"
	"github.com/yungbote/herbolario-backend/internal/services"
)

const defaultPageSize = 12

type PlantHandler struct {
	log          *logger.Logger
	plantService services.PlantService
	imageService services.PlantImageService
}

func NewPlantHandler(log *logger.Logger, plantService services.PlantService, imageService services.PlantImageService) *PlantHandler {
	return &PlantHandler{
		log:          log.With("handler", "PlantHandler"),
		plantService: plantService,
		imageService: imageService,
	}
}

// GET /api/plants
func (h *PlantHandler) ListPlants(c *gin.Context) {
	plants, err := h.plantService.ListPlants(c.Request.Context())
	if err != nil {
		h.log.Error("ListPlants failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plants": plants})
}

// GET /api/plants/search?q=&ailment=&part=&evidence=&page=&page_size=
func (h *PlantHandler) SearchPlants(c *gin.Context) {
	plants, err := h.plantService.ListPlants(c.Request.Context())
	if err != nil {
		h.log.Error("SearchPlants failed", "error", err)
		RespondServiceError(c, err)
		return
	}

	criteria := search.Criteria{
		Query:    c.Query("q"),
		Ailment:  c.Query("ailment"),
		Part:     c.Query("part"),
		Evidence: c.Query("evidence"),
	}
	filtered := search.Filter(plants, criteria)

	page := queryInt(c, "page", 1)
	size := queryInt(c, "page_size", defaultPageSize)
	result := search.Paginate(filtered, page, size)

	RespondOK(c, gin.H{
		"plants":      result.Items,
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

// GET /api/plants/categories
func (h *PlantHandler) GetCategories(c *gin.Context) {
	plants, err := h.plantService.ListPlants(c.Request.Context())
	if err != nil {
		h.log.Error("GetCategories failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	ailments, parts := search.Categories(plants)
	RespondOK(c, gin.H{"ailments": ailments, "parts": parts})
}

// GET /api/plants/:slug
func (h *PlantHandler) GetPlantBySlug(c *gin.Context) {
	plant, err := h.plantService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plant": plant})
}

// POST /api/admin/plants
func (h *PlantHandler) CreatePlant(c *gin.Context) {
	var input services.PlantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	id, err := h.plantService.CreatePlant(c.Request.Context(), input)
	if err != nil {
		h.log.Error("CreatePlant failed", "slug", input.Slug, "error", err)
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/admin/plants/:id
func (h *PlantHandler) UpdatePlant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var input services.PlantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	plant, err := h.plantService.UpdatePlant(c.Request.Context(), id, input)
	if err != nil {
		h.log.Error("UpdatePlant failed", "plant_id", id, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plant": plant})
}

// DELETE /api/admin/plants/:id
func (h *PlantHandler) DeletePlant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.plantService.DeletePlant(c.Request.Context(), id); err != nil {
		h.log.Error("DeletePlant failed", "plant_id", id, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// POST /api/admin/plants/:id/image (multipart field "image")
func (h *PlantHandler) UploadPlantImage(c *gin.Context) {
	if h.imageService == nil {
		RespondError(c, http.StatusServiceUnavailable, "image_uploads_disabled", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_image", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_image", err)
		return
	}
	defer file.Close()

	url, err := h.imageService.UploadPlantImage(c.Request.Context(), id, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		h.log.Error("UploadPlantImage failed", "plant_id", id, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"image_url": url})
}

func queryInt(c *gin.Context, key string, defaultVal int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return i
}
