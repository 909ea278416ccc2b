package main

import "github.com/frahmantamala/custom-timesheet/cmd"

func main() {
	cmd.Execute()
}
