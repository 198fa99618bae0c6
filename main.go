package main

import "github.com/Goutham-Raj07/shanandassociates-sub000/cmd"

func main() {
	cmd.Execute()
}
