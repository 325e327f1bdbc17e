package handlers

import (
	"net/http"
	"strings"

	"github.com/aurixon/api/internal/catalog"
	apierrors "github.com/aurixon/api/internal/errors"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the static catalog used to build entry forms.
type ReferenceHandler struct{}

// NewReferenceHandler creates a new ReferenceHandler instance.
func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{}
}

// FieldInfo describes one input of an activity form.
type FieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Dropdown string `json:"dropdown,omitempty"`
}

// ActivityTypeInfo describes one activity variant.
type ActivityTypeInfo struct {
	Type   catalog.ActivityType `json:"type"`
	Name   string               `json:"name"`
	Scope  int                  `json:"scope"`
	Fields []FieldInfo          `json:"fields"`
}

func kindName(k catalog.FieldKind) string {
	switch k {
	case catalog.KindNumber:
		return "number"
	case catalog.KindEnum:
		return "enum"
	default:
		return "text"
	}
}

// ActivityTypes handles GET /api/v1/reference/activity-types.
func (h *ReferenceHandler) ActivityTypes(c *gin.Context) {
	variants := catalog.Variants()
	out := make([]ActivityTypeInfo, 0, len(variants))
	for _, v := range variants {
		info := ActivityTypeInfo{Type: v.Type, Name: v.Name, Scope: v.Scope, Fields: make([]FieldInfo, 0, len(v.Fields))}
		for _, f := range v.Fields {
			info.Fields = append(info.Fields, FieldInfo{
				Name:     f.Name,
				Type:     kindName(f.Kind),
				Required: f.Required,
				Dropdown: f.Dropdown,
			})
		}
		out = append(out, info)
	}
	success(c, http.StatusOK, gin.H{"activityTypes": out, "count": len(out)})
}

// Dropdowns handles GET /api/v1/reference/dropdowns.
func (h *ReferenceHandler) Dropdowns(c *gin.Context) {
	success(c, http.StatusOK, gin.H{"dropdowns": catalog.Dropdowns()})
}

// Dropdown handles GET /api/v1/reference/dropdowns/:name.
func (h *ReferenceHandler) Dropdown(c *gin.Context) {
	name := c.Param("name")
	options, ok := catalog.Dropdown(name)
	if !ok {
		apierrors.NotFound(c, "Dropdown '"+name+"' not found. Available: "+strings.Join(catalog.DropdownNames(), ", "))
		return
	}
	success(c, http.StatusOK, gin.H{"name": name, "options": options})
}
