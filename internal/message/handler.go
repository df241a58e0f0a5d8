// AngelaMos | 2026
// handler.go

package message

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/angelamos/inbox-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes wires the message surface: creation is public (behind the
// stricter submit limiter), everything else is admin-only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly, submitLimiter func(http.Handler) http.Handler,
) {
	r.Route("/messages", func(r chi.Router) {
		r.With(submitLimiter).Post("/", h.CreateMessage)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Get("/", h.ListMessages)
			r.Patch("/", h.UpdateMessage)
			r.Delete("/", h.DeleteMessage)
		})
	})
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	msg, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToMessageResponse(msg))
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	params := ListMessagesParams{
		Page:        parseIntQuery(r, "page", 1),
		Limit:       parseIntQuery(r, "limit", 20),
		Filter:      r.URL.Query().Get("filter"),
		Search:      r.URL.Query().Get("search"),
		ShowDeleted: parseBoolQuery(r, "showDeleted"),
		SortBy:      r.URL.Query().Get("sortBy"),
		SortOrder:   r.URL.Query().Get("sortOrder"),
	}
	params.Normalize()

	messages, stats, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListMessagesResponse{
		Messages:   ToMessageResponseList(messages),
		Stats:      stats,
		Pagination: BuildPagination(params.Page, params.Limit, stats.Total),
	})
}

// UpdateMessage handles both lifecycle mutations. A reply is applied before
// an accompanying markRead, so `{response, markRead: false}` lands as a
// replied-but-unread record — the store does not forbid that combination.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	var req UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	if req.MarkRead == nil && req.Response == nil {
		core.BadRequest(w, "one of markRead or response is required")
		return
	}

	var (
		msg      *Message
		notified *bool
		err      error
	)

	if req.Response != nil {
		var delivered bool
		msg, delivered, err = h.service.Reply(r.Context(), req.ID, *req.Response)
		if err == nil {
			notified = &delivered
		}
	}

	if err == nil && req.MarkRead != nil {
		msg, err = h.service.MarkRead(r.Context(), req.ID, *req.MarkRead)
	}

	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "message")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UpdateMessageResponse{
		Message:  ToMessageResponse(msg),
		Notified: notified,
	})
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		core.BadRequest(w, "message ID required")
		return
	}

	if _, err := uuid.Parse(id); err != nil {
		core.BadRequest(w, "message ID must be a valid UUID")
		return
	}

	permanent := parseBoolQuery(r, "permanent")

	var err error
	if permanent {
		err = h.service.HardDelete(r.Context(), id)
	} else {
		err = h.service.SoftDelete(r.Context(), id)
	}

	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "message")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, DeleteMessageResponse{ID: id, Permanent: permanent})
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func parseBoolQuery(r *http.Request, key string) bool {
	parsed, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return false
	}
	return parsed
}
