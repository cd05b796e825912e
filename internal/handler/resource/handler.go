package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindcare/backend/internal/model/resource"
	"github.com/mindcare/backend/pkg/utils"
)

// Handler 危机资源的HTTP处理器
type Handler struct {
	resources resource.Store
}

// New 创建资源处理器
func New(resources resource.Store) *Handler {
	return &Handler{
		resources: resources,
	}
}

// RegisterRoutes 注册资源相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resources/crisis", h.handleListResources)
	r.Get("/resources/crisis/{resourceID}", h.handleGetResource)
}

// handleListResources 列出所有危机资源
func (h *Handler) handleListResources(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.resources.List())
}

func (h *Handler) handleGetResource(w http.ResponseWriter, r *http.Request) {
	item, ok := h.resources.FindByID(chi.URLParam(r, "resourceID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
