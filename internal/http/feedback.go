package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gradebook/internal/service"
)

type kindView struct {
	kind   error
	level  string
	title  string
	status int
}

var kindViews = []kindView{
	{service.ErrUsernameTaken, LevelError, "Exists", http.StatusConflict},
	{service.ErrDuplicateRoll, LevelError, "Duplicate Entry", http.StatusConflict},
	{service.ErrInvalidCredentials, LevelError, "Access Denied", http.StatusUnauthorized},
	{service.ErrMalformedNumericInput, LevelError, "Invalid Input", http.StatusBadRequest},
	{service.ErrValidation, LevelWarning, "Missing Data", http.StatusBadRequest},
	{service.ErrNoSuchRecord, LevelWarning, "No Selection", http.StatusNotFound},
	{service.ErrNoData, LevelInfo, "No Data", http.StatusOK},
	{service.ErrSurfaceClosed, LevelInfo, "Signed In", http.StatusConflict},
}

// feedbackFor turns a flow error into a modal and a status code. ok is false
// for infrastructure errors, which the caller answers with a 500.
func feedbackFor(err error) (f *Feedback, status int, ok bool) {
	msg, ok := service.UserMessage(err)
	if !ok {
		return nil, http.StatusInternalServerError, false
	}
	for _, kv := range kindViews {
		if errors.Is(err, kv.kind) {
			return &Feedback{Level: kv.level, Title: kv.title, Message: msg}, kv.status, true
		}
	}
	return &Feedback{Level: LevelError, Title: "Error", Message: msg}, http.StatusBadRequest, true
}

func infoFeedback(title, msg string) Feedback {
	return Feedback{Level: LevelInfo, Title: title, Message: msg}
}
