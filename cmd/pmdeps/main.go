package main

import (
	"github.com/pymode/pmdeps/cmd/pmdeps/internal"
)

func main() {
	internal.Execute()
}
