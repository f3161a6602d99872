// Command screenstack validates and describes screen manifests.
package main

import (
	"fmt"
	"os"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
)

func main() {
	err := NewRootCommand().Execute()
	screenstack.CloseLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
