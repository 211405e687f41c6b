package handler

import (
	"github.com/gin-gonic/gin"

	"batchlens/internal/domain"
	"batchlens/internal/registry"
)

// ModelHandler exposes the static model registry for transparency.
type ModelHandler struct {
	registry *registry.Registry
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(reg *registry.Registry) *ModelHandler {
	return &ModelHandler{registry: reg}
}

// modelField is the read-only view of one field signature.
type modelField struct {
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
	Required bool     `json:"required"`
}

// modelView is the read-only view of one registered model profile.
type modelView struct {
	Name      string       `json:"name"`
	Category  string       `json:"category"`
	DependsOn []string     `json:"depends_on,omitempty"`
	Fields    []modelField `json:"fields"`
}

// List handles GET /api/v1/models. Returns every known model profile
// sorted by name.
func (h *ModelHandler) List(c *gin.Context) {
	profiles := h.registry.All()
	views := make([]modelView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toModelView(&p))
	}
	RespondOK(c, views)
}

// Get handles GET /api/v1/models/:name.
func (h *ModelHandler) Get(c *gin.Context) {
	p, ok := h.registry.Get(c.Param("name"))
	if !ok {
		HandleError(c, domain.ErrModelNotFound)
		return
	}
	RespondOK(c, toModelView(p))
}

func toModelView(p *registry.ModelProfile) modelView {
	fields := make([]modelField, 0, len(p.Fields))
	for _, f := range p.Fields {
		fields = append(fields, modelField{Name: f.CanonicalName, Aliases: f.Aliases, Required: f.Required})
	}
	return modelView{
		Name:      p.Name,
		Category:  p.Category,
		DependsOn: p.DependsOn,
		Fields:    fields,
	}
}
