package http

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lumiclabs/EventHub/internal/adapters/postgres"
	"github.com/lumiclabs/EventHub/internal/domain"
)

func eventForm(values url.Values) *Form {
	f := NewForm(values)
	f.Required("title", "description", "date", "time", "location", "category")
	f.MaxLength("title", 200)
	f.MaxLength("location", 200)
	f.MaxLength("address", 300)
	f.OneOf("category", domain.Categories...)
	return f
}

func (h *Handlers) EventList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := postgres.EventFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: q.Get("category"),
	}
	// an unparseable date is ignored rather than rejected
	if d, err := time.Parse("2006-01-02", q.Get("date")); err == nil {
		filter.Date = &d
	}

	events, err := h.repo.SearchEvents(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := h.newTemplateData(r)
	td.Form = NewForm(q)
	td.Data = events
	h.render(w, http.StatusOK, "events.tmpl", td)
}

func (h *Handlers) EventDetail(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	reviews, err := h.repo.ListEventReviews(r.Context(), event.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := h.newTemplateData(r)
	td.Data = struct {
		Event   *domain.Event
		Reviews []domain.Review
	}{event, reviews}
	h.render(w, http.StatusOK, "event_detail.tmpl", td)
}

func (h *Handlers) EventCreatePage(w http.ResponseWriter, r *http.Request) {
	td := h.newTemplateData(r)
	td.Form = NewForm(url.Values{})
	h.render(w, http.StatusOK, "event_form.tmpl", td)
}

func (h *Handlers) EventCreate(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)

	form, image, ok := h.parseEventForm(w, r)
	if !ok {
		return
	}
	price := form.Float("price")
	capacity := form.Int("capacity", 1)
	startsAt := form.DateTime("date", "time")
	if !form.Valid() {
		td := h.newTemplateData(r)
		td.Form = form
		h.render(w, http.StatusUnprocessableEntity, "event_form.tmpl", td)
		return
	}

	event := domain.Event{
		ID:               uuid.New(),
		Title:            form.Get("title"),
		Description:      form.Get("description"),
		StartsAt:         startsAt,
		Location:         form.Get("location"),
		Address:          form.Get("address"),
		Image:            image,
		Price:            price,
		Capacity:         capacity,
		AvailableTickets: capacity,
		Category:         form.Get("category"),
		OrganizerID:      state.sess.UserID,
		Status:           domain.EventActive,
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.repo.CreateEvent(r.Context(), event); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.flash(r, "success", "Event created successfully!")
	http.Redirect(w, r, "/events", http.StatusSeeOther)
}

func (h *Handlers) EventEditPage(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if event.OrganizerID != state.sess.UserID {
		h.flash(r, "danger", "You can only edit your own events!")
		http.Redirect(w, r, "/events", http.StatusSeeOther)
		return
	}

	values := url.Values{}
	values.Set("title", event.Title)
	values.Set("description", event.Description)
	values.Set("date", event.StartsAt.Format("2006-01-02"))
	values.Set("time", event.StartsAt.Format("15:04"))
	values.Set("location", event.Location)
	values.Set("address", event.Address)
	values.Set("category", event.Category)
	values.Set("price", strconv.FormatFloat(event.Price, 'f', -1, 64))
	values.Set("capacity", strconv.Itoa(event.Capacity))

	td := h.newTemplateData(r)
	td.Form = NewForm(values)
	td.Data = event
	h.render(w, http.StatusOK, "event_form.tmpl", td)
}

func (h *Handlers) EventEdit(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if event.OrganizerID != state.sess.UserID {
		h.flash(r, "danger", "You can only edit your own events!")
		http.Redirect(w, r, "/events", http.StatusSeeOther)
		return
	}

	form, image, ok := h.parseEventForm(w, r)
	if !ok {
		return
	}
	price := form.Float("price")
	capacity := form.Int("capacity", 1)
	startsAt := form.DateTime("date", "time")
	if !form.Valid() {
		td := h.newTemplateData(r)
		td.Form = form
		td.Data = event
		h.render(w, http.StatusUnprocessableEntity, "event_form.tmpl", td)
		return
	}
	if image == "" {
		image = event.Image
	}

	updated := domain.Event{
		ID:          event.ID,
		Title:       form.Get("title"),
		Description: form.Get("description"),
		StartsAt:    startsAt,
		Location:    form.Get("location"),
		Address:     form.Get("address"),
		Image:       image,
		Price:       price,
		Capacity:    capacity,
		Category:    form.Get("category"),
	}
	err := h.repo.UpdateEvent(r.Context(), state.sess.UserID, updated)
	if errors.Is(err, domain.ErrForbidden) {
		h.flash(r, "danger", "You can only edit your own events!")
		http.Redirect(w, r, "/events", http.StatusSeeOther)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.flash(r, "success", "Event updated successfully!")
	http.Redirect(w, r, "/event/"+event.ID.String(), http.StatusSeeOther)
}

func (h *Handlers) EventDelete(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = h.repo.DeleteEvent(r.Context(), state.sess.UserID, id)
	if errors.Is(err, domain.ErrForbidden) {
		h.flash(r, "danger", "You can only delete your own events!")
		http.Redirect(w, r, "/events", http.StatusSeeOther)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.audit.LogEventDeleted(r.Context(), state.sess.UserID, id)
	h.flash(r, "success", "Event deleted successfully!")
	http.Redirect(w, r, "/events", http.StatusSeeOther)
}

func (h *Handlers) ReviewCreate(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := NewForm(r.PostForm)
	rating := form.Int("rating", 1)
	if rating > 5 {
		form.AddError("rating", "Rating must be between 1 and 5")
	}
	form.MaxLength("comment", 2000)
	if !form.Valid() {
		h.flash(r, "danger", "Invalid review submission.")
		http.Redirect(w, r, "/event/"+event.ID.String(), http.StatusSeeOther)
		return
	}

	review := domain.Review{
		ID:        uuid.New(),
		EventID:   event.ID,
		UserID:    state.sess.UserID,
		Rating:    rating,
		Comment:   form.Get("comment"),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateReview(r.Context(), review); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.flash(r, "success", "Thanks for your review!")
	http.Redirect(w, r, "/event/"+event.ID.String(), http.StatusSeeOther)
}

// eventFromPath resolves {id} to an event or writes a 404.
func (h *Handlers) eventFromPath(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	event, err := h.repo.GetEvent(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.serverError(w, r, err)
		return nil, false
	}
	return event, true
}

// parseEventForm reads the multipart event form and stores an uploaded image,
// if any, returning its served filename.
func (h *Handlers) parseEventForm(w http.ResponseWriter, r *http.Request) (*Form, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		http.Error(w, "upload too large or malformed form", http.StatusRequestEntityTooLarge)
		return nil, "", false
	}

	form := eventForm(r.PostForm)

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile || header == nil {
		return form, "", true
	}
	if err != nil {
		return form, "", true
	}
	defer file.Close()

	name, err := h.saveUpload(file, header)
	if err != nil {
		form.AddError("image", "Could not store the uploaded image")
		return form, "", true
	}
	return form, name, true
}

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

func (h *Handlers) saveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		return "", errors.New("unsupported image type")
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	name := hex.EncodeToString(buf) + ext

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(h.cfg.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return name, nil
}
