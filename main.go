package main

import "github.com/tristendillon/weexscan/cmd"

func main() {
	cmd.Execute()
}
