package main

import "github.com/baiye-site/sitecontent/cmd"

func main() {
	cmd.Execute()
}
