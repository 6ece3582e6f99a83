package main

import "github.com/bloodmagesoftware/geoanswer/cmd"

func main() {
	cmd.Execute()
}
