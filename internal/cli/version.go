package cli

import (
	"fmt"

	"github.com/novvoo/go-pdfium/pkg/pdfium"
)

func runVersion(env Env, args []string) error {
	fmt.Fprintf(env.Stdout, "go-pdfium %s\n", pdfium.Info())
	fmt.Fprintf(env.Stdout, "pdfium %s\n", pdfium.NativeInfo())
	return nil
}
