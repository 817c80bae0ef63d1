package view

import (
	"log/slog"
	"strconv"
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const noSurface = "<none>"

// Handlers are invoked on user actions in the controls panel.
type Handlers struct {
	LoadImage   func(ref string)
	Next        func()
	Tap         func(text string)
	TapSurface  func(id string)
	OpacityUp   func()
	OpacityDown func()
	Restart     func()
	Exit        func()
}

// ControlsPanel owns the command widgets: image choice, detection start,
// taps, opacity and restart.
type ControlsPanel interface {
	Build(startRow int, h Handlers) (endRow int)
	SetImageRef(ref string)
	SetStatus(text string)
	SetNextEnabled(enabled bool)
	SetOpacityControlsVisible(visible bool)
	SetOpacityLabel(text string)
	SetSurfaces(ids []string)
}

type controlsPanel struct {
	logger *slog.Logger

	imageEntry   *TextWidget
	tapEntry     *TextWidget
	nextBtn      *ButtonWidget
	surfaceSel   *TComboboxWidget
	opacityDown  *ButtonWidget
	opacityUp    *ButtonWidget
	opacityLabel *LabelWidget
	statusLabel  *LabelWidget
	surfaces     []string
}

// NewControlsPanel creates the panel; widgets exist after Build.
func NewControlsPanel(logger *slog.Logger) ControlsPanel {
	return &controlsPanel{logger: logger}
}

func (v *controlsPanel) Build(startRow int, h Handlers) (row int) {
	row = startRow

	// image choice
	Grid(Label(Txt("Image"), Anchor("w")), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	v.imageEntry = Text(Height(1), Width(24))
	Grid(v.imageEntry, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	imgFrame := Frame()
	Grid(imgFrame, Row(row), Column(2), Sticky("we"), Padx("0.2m"))
	loadBtn := Button(Txt("Load"), Command(func() { call1(h.LoadImage, v.entryText(v.imageEntry)) }))
	Grid(loadBtn, In(imgFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"))
	v.nextBtn = Button(Txt("Next"), Command(func() { call0(h.Next) }))
	Grid(v.nextBtn, In(imgFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"))
	row++

	// taps
	Grid(Label(Txt("Tap x y"), Anchor("w")), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	v.tapEntry = Text(Height(1), Width(24))
	Grid(v.tapEntry, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	tapBtn := Button(Txt("Tap"), Command(func() { call1(h.Tap, v.entryText(v.tapEntry)) }))
	Grid(tapBtn, Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	Grid(Label(Txt("Tap surface"), Anchor("w")), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	v.surfaces = []string{noSurface}
	v.surfaceSel = TCombobox(Values(v.surfaces), Width(24))
	Grid(v.surfaceSel, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.surfaceSel.Current(0)
	tapSurface := func() {
		if id, ok := v.selectedSurface(); ok {
			call1(h.TapSurface, id)
		}
	}
	Bind(v.surfaceSel, "<<ComboboxSelected>>", Command(tapSurface))
	Grid(Button(Txt("Tap Surface"), Command(tapSurface)), Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	// opacity
	opFrame := Frame()
	Grid(opFrame, Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.opacityDown = Button(Txt("-"), Width(3), Command(func() { call0(h.OpacityDown) }))
	Grid(v.opacityDown, In(opFrame), Row(0), Column(0), Padx("0.2m"))
	v.opacityLabel = Label(Txt("Opacity: 100.00%"), Width(18))
	Grid(v.opacityLabel, In(opFrame), Row(0), Column(1), Padx("0.2m"))
	v.opacityUp = Button(Txt("+"), Width(3), Command(func() { call0(h.OpacityUp) }))
	Grid(v.opacityUp, In(opFrame), Row(0), Column(2), Padx("0.2m"))
	restartBtn := Button(Txt("Restart"), Command(func() { call0(h.Restart) }))
	Grid(restartBtn, In(opFrame), Row(0), Column(3), Padx("1m"))
	exitBtn := Button(Txt("Exit"), Command(func() { call0(h.Exit) }))
	Grid(exitBtn, In(opFrame), Row(0), Column(4), Padx("0.2m"))
	row++

	v.statusLabel = Label(Txt(""), Anchor("w"))
	Grid(v.statusLabel, Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	v.SetNextEnabled(false)
	v.SetOpacityControlsVisible(false)
	return row
}

// SetImageRef prefills the image entry.
func (v *controlsPanel) SetImageRef(ref string) {
	if v.imageEntry == nil {
		return
	}
	v.imageEntry.Delete("1.0", END)
	v.imageEntry.Insert("1.0", ref)
}

func (v *controlsPanel) SetStatus(text string) {
	if v.statusLabel != nil {
		v.statusLabel.Configure(Txt(text))
	}
}

func (v *controlsPanel) SetNextEnabled(enabled bool) {
	if v.nextBtn != nil {
		v.nextBtn.Configure(State(widgetState(enabled)))
	}
}

// SetOpacityControlsVisible enables the opacity buttons. Tk keeps them in
// the grid so the layout does not jump.
func (v *controlsPanel) SetOpacityControlsVisible(visible bool) {
	state := widgetState(visible)
	if v.opacityDown != nil {
		v.opacityDown.Configure(State(state))
	}
	if v.opacityUp != nil {
		v.opacityUp.Configure(State(state))
	}
	if v.opacityLabel != nil {
		v.opacityLabel.Configure(State(state))
	}
}

func (v *controlsPanel) SetOpacityLabel(text string) {
	if v.opacityLabel != nil {
		v.opacityLabel.Configure(Txt(text))
	}
}

func (v *controlsPanel) SetSurfaces(ids []string) {
	if v.surfaceSel == nil {
		return
	}
	if len(ids) == 0 {
		ids = []string{noSurface}
	}
	v.surfaces = ids
	v.surfaceSel.Configure(Values(ids))
	v.surfaceSel.Current(0)
}

func (v *controlsPanel) selectedSurface() (string, bool) {
	idxStr := v.surfaceSel.Current(nil)
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(v.surfaces) {
		if v.logger != nil {
			v.logger.Error("surface selection parse error", "index", idxStr, "error", err)
		}
		return "", false
	}
	id := v.surfaces[idx]
	return id, id != noSurface
}

func (v *controlsPanel) entryText(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func widgetState(enabled bool) string {
	if enabled {
		return "normal"
	}
	return "disabled"
}

func call0(fn func()) {
	if fn != nil {
		fn()
	}
}

func call1(fn func(string), arg string) {
	if fn != nil {
		fn(arg)
	}
}
