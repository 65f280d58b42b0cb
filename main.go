package main

import "github.com/user/clip-trimmer/cmd"

func main() {
	cmd.Execute()
}
