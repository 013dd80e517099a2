package main

import "snapmirror/cmd"

func main() {
	cmd.Execute()
}
