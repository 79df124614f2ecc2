package app

import (
	"net/http"

	"github.com/Josemabaher/bargoglio-webapp-sub001/api"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/jobs"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/layout"
)

// GetSeatMap returns the event's seats. Events that were never seeded are
// shown with the default layout, which is not persisted until the first
// booking or admin change.
func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
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

	seats, err := app.seatRepo.GetByEvent(r.Context(), eventId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	persisted := len(seats) > 0
	if !persisted {
		seats = domain.LayoutSeats(event, layout.Default())
	}

	resp := api.SeatMapResponse{
		EventId:   eventId,
		Persisted: persisted,
		Seats:     make([]api.SeatResponse, 0, len(seats)),
	}

	for _, s := range seats {
		resp.Seats = append(resp.Seats, api.SeatResponse{
			Id:          s.ID,
			TableId:     s.TableID,
			TableNumber: s.TableNumber,
			Label:       s.Label,
			Status:      string(s.Status),
			X:           s.X,
			Y:           s.Y,
			Price:       s.Price,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) BlockSeats(w http.ResponseWriter, r *http.Request) {
	app.setSeatsBlocked(w, r, true)
}

func (app *Application) UnblockSeats(w http.ResponseWriter, r *http.Request) {
	app.setSeatsBlocked(w, r, false)
}

func (app *Application) setSeatsBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	eventId, err := readIntParam(r, "eventId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.SeatIdsRequest

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

	changed, err := app.seatRepo.SetBlocked(r.Context(), eventId, input.SeatIds, blocked)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.BlockSeatsResponse{
		Changed: changed,
		Skipped: difference(input.SeatIds, changed),
	}

	app.contextGetLogger(r).Info("seat block state changed",
		"event_id", eventId,
		"blocked", blocked,
		"changed", len(resp.Changed),
		"skipped", len(resp.Skipped))

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ReseedEvent replaces the event's layout with the JSON array in the body,
// or with the default layout when the body is empty.
func (app *Application) ReseedEvent(w http.ResponseWriter, r *http.Request) {
	eventId, err := readIntParam(r, "eventId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var templates []domain.SeatTemplate

	if r.ContentLength == 0 {
		templates = layout.Default()
	} else {
		err = app.readJSON(w, r, &templates)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	reseeder := jobs.NewReseeder(app.eventRepo, app.seatRepo, app.contextGetLogger(r))

	stats, err := reseeder.ReseedEvent(r.Context(), eventId, templates)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.ReseedResponse{
		Total:       stats.Total,
		Preserved:   stats.Preserved,
		Reset:       stats.Reset,
		Added:       stats.Added,
		Removed:     stats.Removed,
		DroppedHeld: stats.DroppedHeld,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// difference returns the members of all that are not in subset, keeping
// their order.
func difference(all, subset []string) []string {
	in := make(map[string]bool, len(subset))
	for _, s := range subset {
		in[s] = true
	}

	out := make([]string, 0)
	for _, s := range all {
		if !in[s] {
			out = append(out, s)
		}
	}

	return out
}
