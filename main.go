package main

import "github.com/fnlcr-bids-sdsi/candle-wrappers/cmd"

func main() {
	cmd.Execute()
}
