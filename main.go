package main

import "github.com/mouse-blink/optilabel/cmd"

func main() {
	cmd.Execute()
}
