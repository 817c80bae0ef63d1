package theme

// Centralized theming for the surface sketch window. Provides palette
// constants and InitStyles to activate a base theme and configure the few
// semantic widget styles the views use.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, cards
	ColorPrimary   = "#2563eb" // buttons, accents
	ColorAccent    = "#10b981"
	ColorText      = "#1e293b"
	ColorPreviewBg = "#1d1f24" // matches the scene renderer background
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg   string
	Surface string
	Primary string
	Accent  string
	Text    string
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:   "#0f172a",
			Surface: "#1e293b",
			Primary: "#3b82f6",
			Accent:  ColorAccent,
			Text:    "#f1f5f9",
		}
	}
	return PaletteSnapshot{
		AppBg:   ColorBg,
		Surface: ColorSurface,
		Primary: ColorPrimary,
		Accent:  ColorAccent,
		Text:    ColorText,
	}
}

// style names used with Style("state.TLabel") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleStateLabel    = "state.TLabel"
)

// internal flag for current mode
var darkMode bool

// InitStyles (re)applies styles for the current darkMode value.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark toggles dark mode and reapplies styles. Returns new mode value.
func SetDark(dark bool) bool {
	darkMode = dark
	applyStyles(CurrentPalette())
	return darkMode
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	if darkMode {
		_ = ActivateTheme("azure dark")
	} else {
		_ = ActivateTheme("azure light")
	}
	App.Configure(Background(p.AppBg))
	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
}
