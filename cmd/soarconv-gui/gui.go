//go:build gui
// +build gui

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/mnemotron/soarconv/pkg/soar"
)

// ConverterGUI is a small Fyne front-end around the conversion
// pipeline: pick a packed file, inspect the recovered section table,
// save the editable module.
type ConverterGUI struct {
	app    fyne.App
	window fyne.Window

	// Loaded module
	currentFile string
	module      *soar.Module

	// UI elements
	fileLabel   *widget.Label
	infoView    *widget.Entry
	openButton  *widget.Button
	saveButton  *widget.Button
	statusLabel *widget.Label
}

func NewConverterGUI() *ConverterGUI {
	g := &ConverterGUI{
		app: app.New(),
	}
	g.createUI()
	return g
}

func (g *ConverterGUI) createUI() {
	g.window = g.app.NewWindow("SonicArranger Converter")
	g.window.Resize(fyne.NewSize(560, 420))

	g.fileLabel = widget.NewLabel("No file loaded")
	g.statusLabel = widget.NewLabel("")

	g.infoView = widget.NewMultiLineEntry()
	g.infoView.Disable()

	g.openButton = widget.NewButton("Open Packed Module...", g.openModule)
	g.saveButton = widget.NewButton("Save Editable Module...", g.saveModule)
	g.saveButton.Disable()

	buttons := container.NewHBox(g.openButton, g.saveButton)
	top := container.NewVBox(g.fileLabel, buttons)
	bottom := g.statusLabel

	g.window.SetContent(container.NewBorder(top, bottom, nil, nil, g.infoView))
}

// Run shows the window and enters the event loop
func (g *ConverterGUI) Run() {
	g.window.ShowAndRun()
}

func (g *ConverterGUI) openModule() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		g.loadModule(reader.URI().Path())
	}, g.window)
}

func (g *ConverterGUI) loadModule(path string) {
	data, err := soar.LoadModuleFile(path)
	if err != nil {
		dialog.ShowError(err, g.window)
		return
	}

	m, err := soar.GetModuleInfo(data)
	if err != nil {
		dialog.ShowError(err, g.window)
		return
	}

	g.currentFile = path
	g.module = m
	g.fileLabel.SetText(filepath.Base(path))
	g.infoView.SetText(describeModule(m))
	g.saveButton.Enable()
	g.statusLabel.SetText(fmt.Sprintf("Module found at offset 0x%x", m.Base))
}

func (g *ConverterGUI) saveModule() {
	if g.module == nil {
		return
	}
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write(g.module.Encode()); err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		g.statusLabel.SetText("Saved " + writer.URI().Name())
	}, g.window)
}

func describeModule(m *soar.Module) string {
	var b strings.Builder
	for i := 0; i < soar.NumSections; i++ {
		s := m.Sections[i]
		fmt.Fprintf(&b, "%s: 0x%08x len=0x%08x cnt=%d\n", soar.SectionName(i), s.Start, s.Length, s.Count)
	}
	fmt.Fprintf(&b, "\nInstruments:\n")
	for i, in := range m.Instruments() {
		kind := "synth"
		if in.Mode == 0 {
			kind = "sample"
		}
		fmt.Fprintf(&b, "  %2d: %-6s %s\n", i, kind, in.Name)
	}
	for _, d := range m.Diagnostics {
		fmt.Fprintf(&b, "\nWarning: %s\n", d)
	}
	return b.String()
}
