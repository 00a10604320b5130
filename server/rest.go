package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/lushtech/eldercare-web/pkg/domain"
	"github.com/lushtech/eldercare-web/pkg/router"
)

// testConnectionHandler lets the UI check the backend is reachable
func (s *Server) testConnectionHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, "Test Successful")
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.app.Version,
		"base":    s.app.Router.Base(),
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// getSettingsHandler returns the currently active settings
func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.ApplicationSettings(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, settings)
}

// updateSettingsHandler stores new settings sent as JSON or as a form.
// JSON requests get 204, form posts are redirected back to the home view.
func (s *Server) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	isForm := mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"

	var (
		settings domain.SettingsDTO
		err      error
	)
	if isForm {
		settings, err = settingsFromForm(r)
	} else {
		settings, err = settingsFromJSON(r)
	}
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.settings.SetApplicationSettings(r.Context(), settings); err != nil {
		log.Printf("[ERROR] failed to update settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	log.Printf("[INFO] settings updated, confidence %v", settings.Confidence)
	s.notifier.sendSettings(settings)

	if isForm {
		http.Redirect(w, r, s.app.Router.Href("/"), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func settingsFromJSON(r *http.Request) (domain.SettingsDTO, error) {
	var req struct {
		Confidence *float64 `json:"confidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.SettingsDTO{}, errors.New("empty request body")
		}
		return domain.SettingsDTO{}, fmt.Errorf("invalid settings: %w", err)
	}
	if req.Confidence == nil {
		return domain.SettingsDTO{}, errors.New("confidence is required")
	}
	return domain.SettingsDTO{Confidence: *req.Confidence}, nil
}

func settingsFromForm(r *http.Request) (domain.SettingsDTO, error) {
	raw := r.FormValue("confidence")
	if raw == "" {
		return domain.SettingsDTO{}, errors.New("confidence is required")
	}
	confidence, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return domain.SettingsDTO{}, fmt.Errorf("confidence %q is not a number", raw)
	}
	return domain.SettingsDTO{Confidence: confidence}, nil
}

// themeHandler returns the theme registered with the application
func (s *Server) themeHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.app.Theme)
}

// routesHandler returns the route table
func (s *Server) routesHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, struct {
		Mode   router.Mode    `json:"mode"`
		Base   string         `json:"base"`
		Routes []router.Route `json:"routes"`
	}{Mode: s.app.Router.Mode(), Base: s.app.Router.Base(), Routes: s.app.Router.Routes()})
}

// bannerHandler returns the banner message
func (s *Server) bannerHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.app.Banner)
}

// settingsSchemaHandler publishes the JSON schema of the settings payload
func (s *Server) settingsSchemaHandler(w http.ResponseWriter, r *http.Request) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	renderJSON(w, r, http.StatusOK, reflector.Reflect(&domain.SettingsDTO{}))
}
