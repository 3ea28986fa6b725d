package handler

import (
	"net/http"

	"github.com/msomdec/photo-host/internal/view"
)

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.LoginPage("", popFlash(w, r, h.cookieSecure), "").Render(r.Context(), w)
}

// HandleLoginForm signs the user in and redirects to the gallery.
// POST /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	token, err := h.auth.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		status := statusFor(err)
		msg := "Invalid email or password."
		if status != http.StatusUnauthorized {
			msg = errorMessage(r, "login user", err)
		}
		w.WriteHeader(status)
		view.LoginPage(email, view.Flash{}, msg).Render(r.Context(), w)
		return
	}

	h.setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	view.RegisterPage(view.RegisterForm{}, "").Render(r.Context(), w)
}

// HandleRegisterForm creates the account and sends the user to the login page.
// POST /register
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	form := view.RegisterForm{
		Email:     r.FormValue("email"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
	}
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	_, err := h.auth.Register(r.Context(), form.Email, form.FirstName, form.LastName, password, confirm)
	if err != nil {
		w.WriteHeader(statusFor(err))
		view.RegisterPage(form, errorMessage(r, "register user", err)).Render(r.Context(), w)
		return
	}

	setFlash(w, view.Flash{Messages: []string{"Account created. Please log in."}}, h.cookieSecure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogoutForm clears the session and returns to the gallery.
// POST /logout
func (h *AuthHandler) HandleLogoutForm(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleProfilePage renders the profile editor.
// GET /profile
func (h *AuthHandler) HandleProfilePage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	view.ProfilePage(user, popFlash(w, r, h.cookieSecure), "").Render(r.Context(), w)
}

// HandleProfileForm saves profile changes.
// POST /profile
func (h *AuthHandler) HandleProfileForm(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err := h.auth.UpdateProfile(r.Context(), user.ID,
		r.FormValue("first_name"), r.FormValue("last_name"), r.FormValue("bio"))
	if err != nil {
		w.WriteHeader(statusFor(err))
		view.ProfilePage(user, view.Flash{}, errorMessage(r, "update profile", err)).Render(r.Context(), w)
		return
	}

	setFlash(w, view.Flash{Messages: []string{"Profile updated."}}, h.cookieSecure)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
