package main

import "inmo-pipeline/cmd"

func main() {
	cmd.Execute()
}
