package main

import "github.com/mouse-blink/interpose/cmd"

func main() {
	cmd.Execute()
}
