package http

import (
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lumiclabs/EventHub/internal/adapters/redis"
	"github.com/lumiclabs/EventHub/internal/domain"
	"github.com/lumiclabs/EventHub/internal/observability"
	"golang.org/x/crypto/bcrypt"
)

// registerForm validates the sign-up submission. Admin accounts are not
// self-service; they are provisioned with the admin-bootstrap command.
func registerForm(values url.Values) *Form {
	f := NewForm(values)
	f.Required("name", "email", "phone", "role", "password", "confirm_password")
	f.MinLength("name", 2)
	f.MaxLength("name", 100)
	f.IsEmail("email")
	f.MinLength("phone", 10)
	f.MaxLength("phone", 15)
	f.OneOf("role", string(domain.RoleAttendee), string(domain.RoleOrganizer))
	f.MinLength("password", 6)
	f.EqualFields("password", "confirm_password")
	return f
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	td := h.newTemplateData(r)
	td.Form = NewForm(url.Values{})
	h.render(w, http.StatusOK, "register.tmpl", td)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := registerForm(r.PostForm)
	if !form.Valid() {
		td := h.newTemplateData(r)
		td.Form = form
		h.render(w, http.StatusUnprocessableEntity, "register.tmpl", td)
		return
	}

	role, err := domain.ParseRole(form.Get("role"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Get("password")), bcrypt.DefaultCost)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	user := domain.User{
		ID:           uuid.New(),
		Email:        form.Get("email"),
		PasswordHash: string(hash),
		Name:         form.Get("name"),
		Phone:        form.Get("phone"),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.repo.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			form.AddError("email", "Email already registered. Please use a different email.")
			td := h.newTemplateData(r)
			td.Form = form
			h.render(w, http.StatusUnprocessableEntity, "register.tmpl", td)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.audit.LogRegistration(r.Context(), user)
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	td := h.newTemplateData(r)
	td.Form = NewForm(url.Values{})
	td.Data = loginNext(r)
	if r.URL.Query().Get("registered") == "1" {
		td.Flashes = append(td.Flashes, redis.Flash{Level: "success", Message: "Account created successfully! Please login."})
	}
	h.render(w, http.StatusOK, "login.tmpl", td)
}

// loginNext returns the validated ?next= destination, or "" when absent or
// pointing off-site.
func loginNext(r *http.Request) string {
	next := r.URL.Query().Get("next")
	if next == "" || next[0] != '/' {
		return ""
	}
	return next
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := NewForm(r.PostForm)
	form.Required("email", "password")

	var user *domain.User
	if form.Valid() {
		var err error
		user, err = h.repo.GetUserByEmail(r.Context(), form.Get("email"))
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			h.serverError(w, r, err)
			return
		}
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Get("password"))) != nil {
		observability.LoginFailures.Inc()
		form.AddError("email", "Login failed. Check email and password.")
		td := h.newTemplateData(r)
		td.Form = form
		td.Data = loginNext(r)
		h.render(w, http.StatusUnauthorized, "login.tmpl", td)
		return
	}

	cookie, err := h.sessions.Create(r.Context(), redis.Session{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	setSessionCookie(w, cookie, h.cfg.SessionTTL)

	if user.Role.IsAdmin() {
		h.audit.LogAdminLogin(r.Context(), user.ID)
	}

	next := loginNext(r)
	if next == "" {
		next = "/dashboard"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)
	if err := h.sessions.Destroy(r.Context(), state.token); err != nil {
		h.logger.WithError(err).Warn("failed to destroy session")
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)

	user, err := h.repo.GetUser(r.Context(), state.sess.UserID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	values := url.Values{}
	values.Set("name", user.Name)
	values.Set("email", user.Email)
	values.Set("phone", user.Phone)

	if user.Role.CanManageEvents() {
		profile, err := h.repo.GetOrganizerProfile(r.Context(), user.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			h.serverError(w, r, err)
			return
		}
		if profile != nil {
			values.Set("organization", profile.Organization)
			values.Set("bio", profile.Bio)
			values.Set("website", profile.Website)
		}
	}

	td := h.newTemplateData(r)
	td.Form = NewForm(values)
	h.render(w, http.StatusOK, "profile.tmpl", td)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := NewForm(r.PostForm)
	form.Required("name", "email", "phone")
	form.MinLength("name", 2)
	form.MaxLength("name", 100)
	form.IsEmail("email")
	form.MinLength("phone", 10)
	form.MaxLength("phone", 15)
	if !form.Valid() {
		td := h.newTemplateData(r)
		td.Form = form
		h.render(w, http.StatusUnprocessableEntity, "profile.tmpl", td)
		return
	}

	err := h.repo.UpdateUserProfile(r.Context(), state.sess.UserID, form.Get("name"), form.Get("email"), form.Get("phone"))
	if errors.Is(err, domain.ErrEmailTaken) {
		form.AddError("email", "Email already registered. Please use a different email.")
		td := h.newTemplateData(r)
		td.Form = form
		h.render(w, http.StatusUnprocessableEntity, "profile.tmpl", td)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if state.sess.Role.CanManageEvents() {
		err := h.repo.UpsertOrganizerProfile(r.Context(), domain.OrganizerProfile{
			UserID:       state.sess.UserID,
			Organization: form.Get("organization"),
			Bio:          form.Get("bio"),
			Website:      form.Get("website"),
		})
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}

	// keep the displayed name in the session current
	state.sess.Name = form.Get("name")
	h.flash(r, "success", "Your profile has been updated successfully!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
