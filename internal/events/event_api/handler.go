package event_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-concerthall/internal/events/db"
	"ms-concerthall/internal/events/serializer"
	"ms-concerthall/internal/events/service"
	"ms-concerthall/internal/logger"
	"ms-concerthall/internal/models"
	"ms-concerthall/internal/utils"
)

const WelcomeMessage = "Welcome to nsty app. Hey, add a slash event in route (/event)."

const maxBodyBytes = 1 << 20

type EventService interface {
	CreateEvent(ctx context.Context, in service.EventInput) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, in service.EventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) (*models.Event, error)
}

type Handler struct {
	EventService EventService
	Logger       *logger.Logger
}

func NewHandler(svc EventService, log *logger.Logger) *Handler {
	return &Handler{EventService: svc, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Welcome)
	r.Route("/event", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)
		r.Put("/{id}", h.UpdateEvent)
		r.Delete("/{id}", h.DeleteEvent)
	})
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	h.sendJSONResponse(w, http.StatusOK, map[string]string{"msg": WelcomeMessage})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeEventInput(w, r)
	if !ok {
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), in)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSONResponse(w, http.StatusCreated, serializer.Serialize(*event))
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.EventService.ListEvents(r.Context())
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSONResponse(w, http.StatusOK, serializer.SerializeMany(events))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	event, err := h.EventService.GetEvent(r.Context(), id)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSONResponse(w, http.StatusOK, serializer.Serialize(*event))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeEventInput(w, r)
	if !ok {
		return
	}

	event, err := h.EventService.UpdateEvent(r.Context(), id, in)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSONResponse(w, http.StatusOK, serializer.Serialize(*event))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	event, err := h.EventService.DeleteEvent(r.Context(), id)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSONResponse(w, http.StatusOK, serializer.Serialize(*event))
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.sendJSONResponse(w, http.StatusNotFound, utils.ErrorResponse("route not found", utils.KindNotFound))
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.sendJSONResponse(w, http.StatusMethodNotAllowed,
		utils.ErrorResponse(fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path), utils.KindMethodNotAllowed))
}

// eventID parses the {id} path segment. Anything that is not a positive
// integer cannot name an event and is reported as not found.
func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.sendJSONResponse(w, http.StatusNotFound,
			utils.ErrorResponse(fmt.Sprintf("event %q not found", raw), utils.KindNotFound))
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeEventInput(w http.ResponseWriter, r *http.Request) (service.EventInput, bool) {
	var in service.EventInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.sendJSONResponse(w, http.StatusBadRequest,
			utils.ErrorResponse("Invalid request body: "+err.Error(), utils.KindBadRequest))
		return in, false
	}
	return in, true
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		h.sendJSONResponse(w, http.StatusBadRequest, utils.ErrorResponse(err.Error(), utils.KindBadRequest))
	case errors.Is(err, db.ErrNotFound):
		h.sendJSONResponse(w, http.StatusNotFound, utils.ErrorResponse(err.Error(), utils.KindNotFound))
	case errors.Is(err, db.ErrDuplicateName):
		h.sendJSONResponse(w, http.StatusConflict, utils.ErrorResponse(err.Error(), utils.KindDuplicateName))
	default:
		h.Logger.Error("EVENT", fmt.Sprintf("%s %s failed: %v", r.Method, r.URL.Path, err))
		h.sendJSONResponse(w, http.StatusInternalServerError, utils.ErrorResponse("internal error", utils.KindInternal))
	}
}

func (h *Handler) sendJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("Failed to encode response: %v", err))
	}
}
