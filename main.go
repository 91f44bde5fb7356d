package main

import "github.com/quanmouren/MidiAssembleVideo/cmd"

func main() {
	cmd.Execute()
}
