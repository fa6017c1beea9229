package main

import "raporty/cmd"

func main() {
	cmd.Execute()
}
