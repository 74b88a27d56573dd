package main

import "github.com/theirongolddev/fsplan/cmd"

func main() {
	cmd.Execute()
}
