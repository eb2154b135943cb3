package main

import "github.com/finmsg/finmsg/cmd"

func main() {
	cmd.Execute()
}
