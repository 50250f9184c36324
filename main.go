package main

import "github.com/jsphweid/theorytab/cmd"

func main() {
	cmd.Execute()
}
