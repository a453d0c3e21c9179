package main

import "ros-pkgbuild/internal/cli"

func main() {
	cli.Execute()
}
