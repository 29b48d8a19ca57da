package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/cirrusops/conversation-miner/internal/adapter/dto/profile"
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	httpmw "github.com/cirrusops/conversation-miner/internal/infrastructure/http/middleware"
	"github.com/cirrusops/conversation-miner/internal/usecase/profile"
)

// Profile exposes mining profile management.
type Profile struct {
	service profile.Service
	logger  *zap.Logger
}

// NewProfile creates the profile handler
func NewProfile(service profile.Service, logger *zap.Logger) *Profile {
	return &Profile{
		service: service,
		logger:  logger,
	}
}

// Create registers a mining profile with its content types and knowledge
// docs.
// POST /v1/profiles
func (h *Profile) Create(c echo.Context) error {
	var req dto.CreateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	p := entities.NewMiningProfile(httpmw.GetOrgID(c), req.Name)
	p.Description = req.Description
	p.ExtractionSystemPrompt = req.ExtractionSystemPrompt
	p.ExtractionUserPrompt = req.ExtractionUserPrompt
	p.GenerationSystemPrompt = req.GenerationSystemPrompt
	p.Themes = req.Themes
	if req.ConfidenceThreshold > 0 {
		p.ConfidenceThreshold = req.ConfidenceThreshold
	}

	for _, ct := range req.ContentTypes {
		p.ContentTypes = append(p.ContentTypes, entities.ContentTypeDefinition{
			ProfileID:      p.ID,
			Name:           ct.Name,
			PromptTemplate: ct.PromptTemplate,
			MaxTokens:      ct.MaxTokens,
		})
	}
	for _, doc := range req.KnowledgeDocs {
		usage := entities.KnowledgeUsage(doc.Usage)
		if usage == "" {
			usage = entities.KnowledgeUsageBoth
		}
		p.KnowledgeDocs = append(p.KnowledgeDocs, entities.KnowledgeDoc{
			ProfileID:   p.ID,
			Name:        doc.Name,
			DisplayName: doc.DisplayName,
			Content:     doc.Content,
			Usage:       usage,
			SortOrder:   doc.SortOrder,
		})
	}

	if err := h.service.Create(c.Request().Context(), p); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, p)
}

// List retrieves the org's profiles.
// GET /v1/profiles
func (h *Profile) List(c echo.Context) error {
	profiles, err := h.service.List(c.Request().Context(), httpmw.GetOrgID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, profiles)
}

// Get retrieves one profile by name with its children.
// GET /v1/profiles/:name
func (h *Profile) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), httpmw.GetOrgID(c), c.Param("name"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, p)
}
