// Package theme holds the UI color palette and icon font used to style the web views.
package theme

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidTheme is returned by Validate for incomplete or malformed themes
var ErrInvalidTheme = errors.New("invalid theme")

// Mode is a display mode
type Mode string

// display modes
const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Role is a semantic color role
type Role string

// semantic color roles
const (
	Primary   Role = "primary"
	Secondary Role = "secondary"
	Accent    Role = "accent"
	Error     Role = "error"
	Warning   Role = "warning"
	Info      Role = "info"
	Success   Role = "success"
)

// Roles lists every role a palette has to define, in canonical order
var Roles = []Role{Primary, Secondary, Accent, Error, Warning, Info, Success}

// IconFonts lists the supported icon font identifiers
var IconFonts = []string{"md", "mdi", "mdiSvg", "fa", "fa4", "faSvg"}

// Palette maps every role to a hex color
type Palette struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Accent    string `json:"accent" yaml:"accent"`
	Error     string `json:"error" yaml:"error"`
	Warning   string `json:"warning" yaml:"warning"`
	Info      string `json:"info" yaml:"info"`
	Success   string `json:"success" yaml:"success"`
}

// Color returns the color assigned to the role, empty for unknown roles
func (p Palette) Color(role Role) string {
	switch role {
	case Primary:
		return p.Primary
	case Secondary:
		return p.Secondary
	case Accent:
		return p.Accent
	case Error:
		return p.Error
	case Warning:
		return p.Warning
	case Info:
		return p.Info
	case Success:
		return p.Success
	}
	return ""
}

// Themes holds a palette per display mode
type Themes struct {
	Light Palette `json:"light" yaml:"light"`
	Dark  Palette `json:"dark" yaml:"dark"`
}

// Icons selects the icon font
type Icons struct {
	Iconfont string `json:"iconfont" yaml:"iconfont"`
}

// Theme is the complete look-and-feel configuration
type Theme struct {
	Dark   bool   `json:"dark" yaml:"dark"`
	Themes Themes `json:"themes" yaml:"themes"`
	Icons  Icons  `json:"icons" yaml:"icons"`
}

// Default returns the stock theme
func Default() Theme {
	return Theme{
		Themes: Themes{
			Light: Palette{
				Primary:   "#ff6a00",
				Secondary: "#FFEE58",
				Accent:    "#FF7043",
				Error:     "#ff3c00",
				Warning:   "#795548",
				Info:      "#1565C0",
				Success:   "#4caf50",
			},
			Dark: Palette{
				Primary:   "#FFB74D",
				Secondary: "#FFEE58",
				Accent:    "#FF7043",
				Error:     "#BF360C",
				Warning:   "#795548",
				Info:      "#1565C0",
				Success:   "#4caf50",
			},
		},
		Icons: Icons{Iconfont: "md"},
	}
}

// Palette returns the palette of the given mode
func (t Theme) Palette(mode Mode) Palette {
	if mode == Dark {
		return t.Themes.Dark
	}
	return t.Themes.Light
}

// ActiveMode returns the mode the views start in
func (t Theme) ActiveMode() Mode {
	if t.Dark {
		return Dark
	}
	return Light
}

// Validate checks both palettes define every role with a parsable color and the icon font is known
func (t Theme) Validate() error {
	var errs []string
	for _, mode := range []Mode{Light, Dark} {
		p := t.Palette(mode)
		for _, role := range Roles {
			c := p.Color(role)
			if c == "" {
				errs = append(errs, fmt.Sprintf("%s.%s is empty", mode, role))
				continue
			}
			if _, err := colorful.Hex(c); err != nil {
				errs = append(errs, fmt.Sprintf("%s.%s: bad color %q", mode, role, c))
			}
		}
	}
	if !slices.Contains(IconFonts, t.Icons.Iconfont) {
		errs = append(errs, fmt.Sprintf("unknown icon font %q", t.Icons.Iconfont))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTheme, strings.Join(errs, "; "))
	}
	return nil
}
