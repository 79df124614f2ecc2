package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/api"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/layout"
)

// ListEvents lists active events. An optional from=RFC3339 query parameter
// hides earlier shows.
func (app *Application) ListEvents(w http.ResponseWriter, r *http.Request) {
	app.listEvents(w, r, true)
}

func (app *Application) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	app.listEvents(w, r, false)
}

func (app *Application) listEvents(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	filters := domain.EventFilters{
		ActiveOnly: activeOnly,
		Pagination: readPagination(r),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("from must be an RFC3339 timestamp"))
			return
		}
		filters.From = &t
	}

	events, metadata, err := app.eventRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.EventsResponse{
		Events:   make([]api.EventResponse, 0, len(events)),
		Metadata: toMetadataResponse(metadata),
	}

	for _, event := range events {
		resp.Events = append(resp.Events, toEventResponse(event))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventId, err := readIntParam(r, "eventId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := app.eventRepo.GetById(r.Context(), eventId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if !event.IsActive {
		app.notFoundResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toEventResponse(event), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input api.EventRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	event := &domain.Event{IsActive: true}
	applyEventRequest(event, input)

	if !app.checkZoneNames(w, r, event) {
		return
	}

	err = app.eventRepo.Create(r.Context(), event)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("event created", "event_id", event.ID)

	err = app.writeJSON(w, http.StatusCreated, toEventResponse(event), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateEvent replaces an event. The request must carry the version it was
// based on; a stale version is rejected with 409.
func (app *Application) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventId, err := readIntParam(r, "eventId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.EventRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	event, err := app.eventRepo.GetById(r.Context(), eventId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if input.Version != 0 && input.Version != event.Version {
		app.editConflictResponse(w, r)
		return
	}

	applyEventRequest(event, input)

	if !app.checkZoneNames(w, r, event) {
		return
	}

	err = app.eventRepo.Update(r.Context(), event)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toEventResponse(event), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// checkZoneNames rejects zones that price no seat of the event's layout:
// the persisted one, or the default layout while none is stored.
func (app *Application) checkZoneNames(w http.ResponseWriter, r *http.Request, event *domain.Event) bool {
	if event.PricingType != domain.PricingZones {
		return true
	}

	labels := make(map[string]bool)

	if event.ID != 0 {
		seats, err := app.seatRepo.GetByEvent(r.Context(), event.ID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return false
		}

		for _, seat := range seats {
			labels[seat.Label] = true
		}
	}

	if len(labels) == 0 {
		for _, t := range layout.Default() {
			labels[t.Label] = true
		}
	}

	var verr *domain.ValidationError
	if err := domain.CheckZoneNames(event.ZonePrices, labels); errors.As(err, &verr) {
		app.domainValidationResponse(w, r, verr)
		return false
	}

	return true
}

func applyEventRequest(event *domain.Event, input api.EventRequest) {
	event.Title = input.Title
	event.Description = input.Description
	event.FlyerURL = input.FlyerUrl
	event.Category = input.Category
	event.StartsAt = input.StartsAt
	event.PricingType = domain.PricingType(input.PricingType)
	event.GeneralPrice = input.GeneralPrice

	event.ZonePrices = make([]domain.ZonePrice, 0, len(input.ZonePrices))
	for _, z := range input.ZonePrices {
		event.ZonePrices = append(event.ZonePrices, domain.ZonePrice{
			ZoneName: z.ZoneName,
			Price:    z.Price,
			Color:    z.Color,
		})
	}

	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}
}

func toEventResponse(event *domain.Event) api.EventResponse {
	zonePrices := make([]api.ZonePrice, 0, len(event.ZonePrices))
	for _, z := range event.ZonePrices {
		zonePrices = append(zonePrices, api.ZonePrice{
			ZoneName: z.ZoneName,
			Price:    z.Price,
			Color:    z.Color,
		})
	}

	return api.EventResponse{
		Id:           event.ID,
		Title:        event.Title,
		Description:  event.Description,
		FlyerUrl:     event.FlyerURL,
		Category:     event.Category,
		StartsAt:     event.StartsAt,
		PricingType:  string(event.PricingType),
		GeneralPrice: event.GeneralPrice,
		ZonePrices:   zonePrices,
		IsActive:     event.IsActive,
		Version:      event.Version,
	}
}

func toMetadataResponse(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
