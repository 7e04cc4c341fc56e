package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

// RecordsHandler serves the main surface. Every route sits behind
// RequireSurface, and the mutations also behind RequireControl.
type RecordsHandler struct {
	Records *service.RecordService
	Version string

	views *views
}

func (h *RecordsHandler) appPage(w http.ResponseWriter, r *http.Request, status int, form service.StudentInput, f *Feedback) {
	s := surfaceFromCtx(r.Context())

	records, err := h.Records.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("list students", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if f == nil {
		f = GetFlash(r.Context())
	}
	h.views.render(w, r, "app", status, appData{
		pageData: pageData{Title: "Student Performance", Version: h.Version, Feedback: f},
		Role:     s.Role(),
		Controls: s.Controls(),
		Records:  records,
		Form:     form,
	})
}

// App renders the record table with the controls of the surface's role.
func (h *RecordsHandler) App(w http.ResponseWriter, r *http.Request) {
	h.appPage(w, r, http.StatusOK, service.StudentInput{}, nil)
}

// Add inserts a student. A rejected form is re-rendered with its values.
func (h *RecordsHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	in := service.StudentInput{
		Roll:     r.PostForm.Get("roll"),
		Name:     r.PostForm.Get("name"),
		Subject1: r.PostForm.Get("subject1"),
		Subject2: r.PostForm.Get("subject2"),
		Subject3: r.PostForm.Get("subject3"),
	}

	st, err := h.Records.Add(r.Context(), in)
	if err != nil {
		h.fail(w, r, in, err)
		return
	}

	SetFlash(w, infoFeedback("Success", fmt.Sprintf("Student '%s' added successfully.", st.Name)))
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// Delete removes the student whose roll was selected.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	if err := h.Records.Delete(r.Context(), r.PostForm.Get("roll")); err != nil {
		f, status, ok := feedbackFor(err)
		if ok && errors.Is(err, service.ErrValidation) {
			f.Title = "No Selection"
		}
		h.respond(w, r, service.StudentInput{}, err, f, status, ok)
		return
	}

	SetFlash(w, infoFeedback("Deleted", service.MsgRecordDeleted))
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

func (h *RecordsHandler) fail(w http.ResponseWriter, r *http.Request, form service.StudentInput, err error) {
	f, status, ok := feedbackFor(err)
	h.respond(w, r, form, err, f, status, ok)
}

func (h *RecordsHandler) respond(w http.ResponseWriter, r *http.Request, form service.StudentInput, err error, f *Feedback, status int, ok bool) {
	if !ok {
		slogx.FromContext(r.Context()).Error("record mutation failed", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.appPage(w, r, status, form, f)
}
