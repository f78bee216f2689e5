package main

import "composeclean/cmd"

func main() {
	cmd.Execute()
}
