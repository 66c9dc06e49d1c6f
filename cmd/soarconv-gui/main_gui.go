//go:build gui
// +build gui

package main

import "os"

func main() {
	// Pick up an input file passed on the command line
	var initialFile string
	if len(os.Args) > 1 {
		initialFile = os.Args[1]
	}

	gui := NewConverterGUI()

	if initialFile != "" {
		gui.loadModule(initialFile)
	}

	gui.Run()
}
