package main

import "github.com/digcfo/stats-service/cmd"

func main() {
	cmd.Execute()
}
