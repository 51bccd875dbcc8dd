// pdfium - command line interface to the go-pdfium library
package main

import (
	"os"

	"github.com/novvoo/go-pdfium/internal/cli"
	"github.com/novvoo/go-pdfium/pkg/pdfium"
)

func main() {
	env := cli.Env{
		Lib:    func() (*pdfium.Library, error) { return pdfium.Load() },
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cli.Main(env, os.Args[1:]))
}
