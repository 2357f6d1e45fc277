package main

import "cms-sync/cmd"

func main() {
	cmd.Execute()
}
