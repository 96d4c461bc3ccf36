package main

import (
	"uartled/host/console"
)

func init() {
	console.SetupFlags()
}

func main() {
	console.Main()
}
