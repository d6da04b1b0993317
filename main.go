package main

import "github.com/KaramelBytes/rowmatch/cmd"

func main() {
	cmd.Execute()
}
