package main

import "github.com/frahmantamala/pos-management/cmd"

func main() {
	cmd.Execute()
}
