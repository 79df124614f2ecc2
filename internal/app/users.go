package app

import (
	"errors"
	"net/http"

	"github.com/Josemabaher/bargoglio-webapp-sub001/api"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
)

func (app *Application) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.contextGetLogger(r).Error("user id in session but not found in db", "user_id", userId)
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// AdjustPoints applies a manual correction to a user's loyalty balance.
// The balance never drops below zero and the tier follows it.
func (app *Application) AdjustPoints(w http.ResponseWriter, r *http.Request) {
	userId, err := readIntParam(r, "userId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.PointsAdjustRequest

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

	user, err := app.userRepo.AdjustPoints(r.Context(), userId, input.Delta)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("loyalty points adjusted",
		"user_id", userId,
		"admin_id", app.contextGetUserId(r),
		"delta", input.Delta,
		"reason", input.Reason,
		"points", user.Points,
		"tier", user.Tier)

	err = app.writeJSON(w, http.StatusOK, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toUserResponse(user *domain.User) api.UserResponse {
	resp := api.UserResponse{
		Id:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       string(user.Role),
		Points:     user.Points,
		Tier:       string(user.Tier),
		TotalSpent: user.TotalSpent,
		VisitCount: user.VisitCount,
		LastVisit:  user.LastVisit,
		CreatedAt:  user.CreatedAt,
		Version:    user.Version,
	}

	if user.BirthDate != nil {
		resp.BirthDate = &api.Date{Time: *user.BirthDate}
	}

	return resp
}
