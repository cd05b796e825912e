package wellness

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	wellnessService "github.com/mindcare/backend/internal/service/wellness"
	"github.com/mindcare/backend/pkg/utils"
)

// Handler 健康追踪的HTTP处理器
type Handler struct {
	svc    *wellnessService.Service
	logger *zap.Logger
}

// New 创建健康追踪处理器
func New(svc *wellnessService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes 注册健康追踪相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/wellness", func(r chi.Router) {
		r.Post("/", h.handleCreateState)
		r.Route("/{stateID}", func(r chi.Router) {
			r.Get("/moods", h.handleListMoods)
			r.Post("/moods", h.handleLogMood)
			r.Get("/medications", h.handleListMedications)
			r.Post("/medications", h.handleAddMedication)
			r.Post("/medications/{medID}/taken", h.handleSetTaken)
			r.Get("/appointments", h.handleListAppointments)
			r.Post("/appointments", h.handleScheduleAppointment)
			r.Get("/symptoms", h.handleListSymptoms)
			r.Post("/symptoms", h.handleRecordSymptom)
			r.Get("/dashboard", h.handleDashboard)
		})
	})
}

func (h *Handler) handleCreateState(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.CreateState(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleListMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := h.svc.Moods(r.Context(), chi.URLParam(r, "stateID"))
	h.respond(w, http.StatusOK, moods, err)
}

func (h *Handler) handleLogMood(w http.ResponseWriter, r *http.Request) {
	var in wellnessService.MoodInput
	if !decode(w, r, &in) {
		return
	}
	entry, err := h.svc.LogMood(r.Context(), chi.URLParam(r, "stateID"), in)
	h.respond(w, http.StatusCreated, entry, err)
}

func (h *Handler) handleListMedications(w http.ResponseWriter, r *http.Request) {
	meds, err := h.svc.Medications(r.Context(), chi.URLParam(r, "stateID"))
	h.respond(w, http.StatusOK, meds, err)
}

func (h *Handler) handleAddMedication(w http.ResponseWriter, r *http.Request) {
	var in wellnessService.MedicationInput
	if !decode(w, r, &in) {
		return
	}
	med, err := h.svc.AddMedication(r.Context(), chi.URLParam(r, "stateID"), in)
	h.respond(w, http.StatusCreated, med, err)
}

// handleSetTaken 标记当天是否已服药
func (h *Handler) handleSetTaken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Taken bool `json:"taken"`
	}
	if !decode(w, r, &payload) {
		return
	}
	med, err := h.svc.SetTaken(r.Context(), chi.URLParam(r, "stateID"), chi.URLParam(r, "medID"), payload.Taken)
	h.respond(w, http.StatusOK, med, err)
}

func (h *Handler) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.Appointments(r.Context(), chi.URLParam(r, "stateID"))
	h.respond(w, http.StatusOK, appts, err)
}

func (h *Handler) handleScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var in wellnessService.AppointmentInput
	if !decode(w, r, &in) {
		return
	}
	appt, err := h.svc.ScheduleAppointment(r.Context(), chi.URLParam(r, "stateID"), in)
	h.respond(w, http.StatusCreated, appt, err)
}

func (h *Handler) handleListSymptoms(w http.ResponseWriter, r *http.Request) {
	symptoms, err := h.svc.Symptoms(r.Context(), chi.URLParam(r, "stateID"))
	h.respond(w, http.StatusOK, symptoms, err)
}

func (h *Handler) handleRecordSymptom(w http.ResponseWriter, r *http.Request) {
	var in wellnessService.SymptomInput
	if !decode(w, r, &in) {
		return
	}
	symptom, err := h.svc.RecordSymptom(r.Context(), chi.URLParam(r, "stateID"), in)
	h.respond(w, http.StatusCreated, symptom, err)
}

// handleDashboard 返回首页汇总
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), chi.URLParam(r, "stateID"))
	h.respond(w, http.StatusOK, dash, err)
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, status int, payload interface{}, err error) {
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, status, payload)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wellnessService.ErrStateNotFound), errors.Is(err, wellnessService.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, wellnessService.ErrInvalidMood),
		errors.Is(err, wellnessService.ErrInvalidSeverity),
		errors.Is(err, wellnessService.ErrNameRequired),
		errors.Is(err, wellnessService.ErrInvalidAppointment):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("wellness request failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
