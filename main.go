package main

import "JerseyFM/cmd"

func main() {
	cmd.Execute()
}
