package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ticketline/server/internal/api/apierror"
	"github.com/ticketline/server/internal/api/middleware"
	"github.com/ticketline/server/internal/domain/events"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type EventsHandler struct {
	Service *events.Service
}

func NewEventsHandler(service *events.Service) *EventsHandler {
	return &EventsHandler{Service: service}
}

type createTicketTypeRequest struct {
	Name           string   `json:"name" validate:"required"`
	Price          *float64 `json:"price" validate:"required,gte=0"`
	Description    string   `json:"description"`
	TotalAvailable *int     `json:"totalAvailable"`
}

type createEventRequest struct {
	Name           string                    `json:"name" validate:"required"`
	StartDate      *time.Time                `json:"startDate"`
	EndDate        *time.Time                `json:"endDate"`
	Venue          string                    `json:"venue" validate:"required"`
	SalesStartDate *time.Time                `json:"salesStartDate"`
	SalesEndDate   *time.Time                `json:"salesEndDate"`
	Status         string                    `json:"status" validate:"required"`
	TicketTypes    []createTicketTypeRequest `json:"ticketTypes" validate:"required,min=1,dive"`
}

type ticketTypeResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	Description    string    `json:"description,omitempty"`
	TotalAvailable *int      `json:"totalAvailable,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type createEventResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	StartDate      *time.Time           `json:"startDate,omitempty"`
	EndDate        *time.Time           `json:"endDate,omitempty"`
	Venue          string               `json:"venue"`
	SalesStartDate *time.Time           `json:"salesStartDate,omitempty"`
	SalesEndDate   *time.Time           `json:"salesEndDate,omitempty"`
	Status         string               `json:"status"`
	TicketTypes    []ticketTypeResponse `json:"ticketTypes"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// Create handles POST /api/v1/events. The organizer is the verified token
// subject; the body is validated field by field before any domain call.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		apierror.Write(w, r, http.StatusInternalServerError, apierror.KindInternal, "Server error", nil)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierror.Write(w, r, http.StatusUnauthorized, apierror.KindUnauthorized, "Unauthorized", nil)
		return
	}

	organizerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		apierror.Write(w, r, http.StatusBadRequest, apierror.KindValidation, "Token subject is not a valid organizer id", err)
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Write(w, r, http.StatusBadRequest, apierror.KindValidation, "Request body is not valid JSON", err)
		return
	}

	if err := validate.Struct(req); err != nil {
		apierror.Write(w, r, http.StatusBadRequest, apierror.KindValidation, validationMessage(err), err)
		return
	}

	status, err := events.ParseStatus(req.Status)
	if err != nil {
		apierror.Write(w, r, http.StatusBadRequest, apierror.KindValidation, err.Error(), err)
		return
	}

	params := events.CreateParams{
		Name:         req.Name,
		Venue:        req.Venue,
		StartAt:      req.StartDate,
		EndAt:        req.EndDate,
		SalesStartAt: req.SalesStartDate,
		SalesEndAt:   req.SalesEndDate,
		Status:       status,
		TicketTypes:  make([]events.TicketTypeParams, 0, len(req.TicketTypes)),
	}
	for _, tt := range req.TicketTypes {
		params.TicketTypes = append(params.TicketTypes, events.TicketTypeParams{
			Name:           tt.Name,
			Price:          *tt.Price,
			Description:    tt.Description,
			TotalAvailable: tt.TotalAvailable,
		})
	}

	event, err := h.Service.Create(r.Context(), organizerID, params)
	if err != nil {
		writeCreateError(w, r, organizerID, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCreateEventResponse(event))
}

func writeCreateError(w http.ResponseWriter, r *http.Request, organizerID uuid.UUID, err error) {
	var fieldErr events.FieldError
	switch {
	case errors.Is(err, events.ErrOrganizerNotFound):
		message := fmt.Sprintf("Organizer with id %s not found", organizerID)
		apierror.Write(w, r, http.StatusNotFound, apierror.KindNotFound, message, err)
	case errors.As(err, &fieldErr):
		apierror.Write(w, r, http.StatusBadRequest, apierror.KindValidation, fieldErr.Error(), err)
	default:
		apierror.Write(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to create event", err)
	}
}

func toCreateEventResponse(event *events.Event) createEventResponse {
	resp := createEventResponse{
		ID:             event.ID,
		Name:           event.Name,
		StartDate:      event.StartAt,
		EndDate:        event.EndAt,
		Venue:          event.Venue,
		SalesStartDate: event.SalesStartAt,
		SalesEndDate:   event.SalesEndAt,
		Status:         string(event.Status),
		TicketTypes:    make([]ticketTypeResponse, 0, len(event.TicketTypes)),
		CreatedAt:      event.CreatedAt,
		UpdatedAt:      event.UpdatedAt,
	}
	for _, tt := range event.TicketTypes {
		resp.TicketTypes = append(resp.TicketTypes, ticketTypeResponse{
			ID:             tt.ID,
			Name:           tt.Name,
			Price:          tt.Price,
			Description:    tt.Description,
			TotalAvailable: tt.TotalAvailable,
			CreatedAt:      tt.CreatedAt,
			UpdatedAt:      tt.UpdatedAt,
		})
	}
	return resp
}

// validationMessage flattens the first struct-validation failure into a
// client-readable message.
func validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Invalid request"
	}

	first := validationErrs[0]
	switch first.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", first.Field())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", first.Field(), first.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", first.Field(), first.Param())
	default:
		return fmt.Sprintf("%s is invalid", first.Field())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
