// Package ui is the desktop front end: three editable planes, an isometric
// voxel preview and a toolbar, all driving one draw.Session.
package ui

import (
	"errors"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Sketchacad/internal/draw"
	"Sketchacad/internal/input"
	"Sketchacad/internal/state"
)

var errNoHandler = errors.New("no input handler")

// RunApp opens the window and blocks until it is closed. The session is
// closed on the way out.
func RunApp(sess *draw.Session, interval time.Duration) error {
	myApp := app.New()
	myWindow := myApp.NewWindow("Sketchacad")
	myWindow.Resize(fyne.NewSize(1024, 900))

	planes := make([]*PlaneWidget, len(state.Planes))
	for i, p := range state.Planes {
		planes[i] = NewPlaneWidget(p, sess.Size())
		if err := planes[i].Register(sess); err != nil {
			return fmt.Errorf("register %s plane: %w", p, err)
		}
	}
	preview := NewVoxelPreview(sess.Size())
	tb := newToolbar(sess)

	refresh := func() {
		size := sess.Size()
		for _, pw := range planes {
			pw.Update(sess.Grid(pw.plane), size)
		}
		preview.Update(sess.Voxels(), sess.Grid(state.XY), size)
		tb.refresh()
	}
	sess.Subscribe(refresh)
	refresh()

	labeled := func(title string, obj fyne.CanvasObject) fyne.CanvasObject {
		return container.NewBorder(widget.NewLabel(title), nil, nil, nil, obj)
	}
	views := container.NewGridWithColumns(2,
		labeled("XY (top)", planes[0]),
		labeled("Voxels", preview),
		labeled("XZ (front)", planes[1]),
		labeled("YZ (side)", planes[2]),
	)
	myWindow.SetContent(container.NewBorder(tb.object(), nil, nil, nil, views))

	bindKeys(myWindow.Canvas(), sess)

	if err := sess.StartAutosnapshot(interval, fyne.Do); err != nil {
		log.Printf("[UI] Autosnapshot: %v", err)
	}
	myWindow.SetOnClosed(func() {
		for _, pw := range planes {
			pw.Unregister()
		}
		sess.Close()
	})

	myWindow.ShowAndRun()
	return nil
}

// bindKeys routes the undo/redo chords and the single-letter tool keys.
func bindKeys(c fyne.Canvas, h input.Handler) {
	run := func(key string, mods input.Modifiers) {
		cmd, ok := input.KeyCommand(key, mods)
		if !ok {
			return
		}
		if err := input.Dispatch(h, cmd); err != nil {
			log.Printf("[UI] %s: %v", cmd, err)
		}
	}

	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierControl, fyne.KeyModifierSuper} {
		undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod}
		redo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod | fyne.KeyModifierShift}
		c.AddShortcut(undo, func(fyne.Shortcut) { run("z", modifiers(undo.Modifier)) })
		c.AddShortcut(redo, func(fyne.Shortcut) { run("z", modifiers(redo.Modifier)) })
	}
	c.SetOnTypedRune(func(r rune) { run(string(r), input.Modifiers{}) })
}
