package main

import "github.com/solaris-diary/solaris/cmd"

func main() {
	cmd.Execute()
}
