// Package webapp builds the application context shared by the HTTP server: theme, route table and
// UI texts. It is constructed once at startup and never mutated afterwards.
package webapp

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/lushtech/eldercare-web/pkg/domain"
	"github.com/lushtech/eldercare-web/pkg/router"
	"github.com/lushtech/eldercare-web/pkg/theme"
)

// Options defines parameters of the application context
type Options struct {
	Title   string
	Version string
	BaseURL string
	Mode    router.Mode
	Dark    bool
	Banner  string // may contain basic html, sanitized
}

// App is the application context
type App struct {
	Title   string
	Version string
	Theme   theme.Theme
	Router  *router.Router
	Banner  domain.ExampleDTO
}

// New makes the application context with the stock theme and route table
func New(opts Options) (*App, error) {
	th := theme.Default()
	th.Dark = opts.Dark
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}

	rtr, err := router.Default(opts.BaseURL).WithMode(opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "ElderCare"
	}

	return &App{
		Title:   title,
		Version: opts.Version,
		Theme:   th,
		Router:  rtr,
		Banner:  domain.ExampleDTO{TextValue: bluemonday.UGCPolicy().Sanitize(strings.TrimSpace(opts.Banner))},
	}, nil
}

// BannerHTML returns the sanitized banner ready for templates
func (a *App) BannerHTML() template.HTML {
	return template.HTML(a.Banner.TextValue) //nolint:gosec // sanitized in New
}
