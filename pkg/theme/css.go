package theme

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	lightenSteps  = 5
	darkenSteps   = 4
	lightnessStep = 0.1
)

// CSS renders the theme as CSS custom properties, one block per mode.
// Each role gets a base color and lighten/darken variants shifted in Lab lightness.
func (t Theme) CSS() string {
	var sb strings.Builder
	sb.WriteString(":root,\n.theme--light {\n")
	writeVariables(&sb, t.Themes.Light)
	sb.WriteString("}\n\n.theme--dark {\n")
	writeVariables(&sb, t.Themes.Dark)
	sb.WriteString("}\n")
	return sb.String()
}

func writeVariables(sb *strings.Builder, p Palette) {
	for _, role := range Roles {
		value := p.Color(role)
		fmt.Fprintf(sb, "  --v-%s-base: %s;\n", role, value)
		c, err := colorful.Hex(value)
		if err != nil {
			continue // validated themes never get here
		}
		for i := 1; i <= lightenSteps; i++ {
			fmt.Fprintf(sb, "  --v-%s-lighten%d: %s;\n", role, i, shift(c, float64(i)*lightnessStep))
		}
		for i := 1; i <= darkenSteps; i++ {
			fmt.Fprintf(sb, "  --v-%s-darken%d: %s;\n", role, i, shift(c, -float64(i)*lightnessStep))
		}
	}
}

// shift moves the Lab lightness of c by delta, clamped to the displayable range
func shift(c colorful.Color, delta float64) string {
	l, a, b := c.Lab()
	l = min(max(l+delta, 0), 1)
	return colorful.Lab(l, a, b).Clamped().Hex()
}
