package main

import "github.com/chriscorrea/modsetup/internal/cmd"

func main() {
	cmd.Execute()
}
