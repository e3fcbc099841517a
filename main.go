package main

import "github.com/finsight/finsight/cmd"

func main() {
	cmd.Execute()
}
