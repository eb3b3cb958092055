package main

import "parcelpoint-web/cmd"

func main() {
	cmd.Execute()
}
