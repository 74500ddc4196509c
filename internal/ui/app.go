package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

// RunApp opens the main window and blocks until it is closed.
func RunApp(title string, width, height int, screen *Screen, onStarted func()) {
	myApp := app.NewWithID("dev.mathboard")
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(fyne.NewSize(float32(width), float32(height)))
	myWindow.SetContent(screen.Content())
	if onStarted != nil {
		myApp.Lifecycle().SetOnStarted(onStarted)
	}
	myWindow.ShowAndRun()
}
