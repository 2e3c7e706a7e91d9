package main

import "github.com/safewatch/safewatch/internal/cli"

func main() {
	cli.Execute()
}
