package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/lushtech/eldercare-web/pkg/domain"
	"github.com/lushtech/eldercare-web/pkg/router"
	"github.com/lushtech/eldercare-web/pkg/theme"
)

// views maps view names used in the route table to page templates
// settings.html only defines the "settings-form" component embedded by pages.
var views = map[string]string{
	"home": "home.html",
}

// viewData is passed to every page template
type viewData struct {
	Title    string
	Version  string
	Base     string
	RestBase string
	Route    router.Route
	Mode     theme.Mode
	Iconfont string
	Banner   template.HTML
	Settings domain.SettingsDTO
	HasFrame bool
}

// navigateHandler resolves the request path through the route table and renders the matched view.
// Paths resolving through a redirect are redirected, so the browser ends up on the canonical URL.
func (s *Server) navigateHandler(w http.ResponseWriter, r *http.Request) {
	rtr := s.app.Router
	p, ok := rtr.Strip(r.URL.Path)
	if !ok {
		s.outsideBaseHandler(w, r)
		return
	}

	// in hash mode navigation happens in the fragment, the server only serves the root view
	if rtr.Mode() == router.Hash && p != "/" {
		http.Redirect(w, r, rtr.Base(), http.StatusFound)
		return
	}

	res, err := rtr.Resolve(p)
	switch {
	case errors.Is(err, router.ErrNoRoute):
		renderError(w, r, err, http.StatusNotFound)
		return
	case err != nil:
		log.Printf("[ERROR] can't resolve %s: %v", p, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	if res.Redirected() {
		http.Redirect(w, r, rtr.Href(res.Path), http.StatusFound)
		return
	}
	s.renderView(w, r, res.Route)
}

// outsideBaseHandler sends requests outside of the base path to the application root
func (s *Server) outsideBaseHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.app.Router.Base(), http.StatusFound)
}

// themeCSSHandler serves the theme as css custom properties
func (s *Server) themeCSSHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if _, err := w.Write([]byte(s.themeCSS)); err != nil {
		log.Printf("[WARN] failed to write theme css: %v", err)
	}
}

func (s *Server) renderView(w http.ResponseWriter, r *http.Request, route router.Route) {
	tmplName, ok := views[route.View]
	if !ok {
		renderError(w, r, fmt.Errorf("unknown view %q", route.View), http.StatusInternalServerError)
		return
	}

	settings, err := s.settings.ApplicationSettings(r.Context())
	if err != nil {
		log.Printf("[WARN] failed to get settings for %s view: %v", route.View, err)
		settings = domain.DefaultSettings()
	}

	data := viewData{
		Title:    s.app.Title,
		Version:  s.app.Version,
		Base:     s.app.Router.Base(),
		RestBase: s.app.Router.Href("/rest/example"),
		Route:    route,
		Mode:     s.app.Theme.ActiveMode(),
		Iconfont: s.app.Theme.Icons.Iconfont,
		Banner:   s.app.BannerHTML(),
		Settings: settings,
		HasFrame: s.hasFrame(),
	}

	// render into a buffer to keep partial pages off the wire on template errors
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, tmplName, data); err != nil {
		log.Printf("[ERROR] failed to render %s: %v", tmplName, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write %s: %v", tmplName, err)
	}
}
