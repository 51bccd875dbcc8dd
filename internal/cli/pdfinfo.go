package cli

import (
	"flag"
	"fmt"
)

var metaTags = []struct {
	label string
	tag   string
}{
	{"Title", "Title"},
	{"Subject", "Subject"},
	{"Keywords", "Keywords"},
	{"Author", "Author"},
	{"Creator", "Creator"},
	{"Producer", "Producer"},
	{"CreationDate", "CreationDate"},
	{"ModDate", "ModDate"},
}

func runInfo(env Env, args []string) error {
	fs := flag.NewFlagSet("pdfinfo", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	password := fs.String("password", "", "document password")
	box := fs.Bool("box", false, "print the size of every page")
	fs.Usage = func() {
		fmt.Fprintf(env.Stderr, "Usage: pdfium pdfinfo [options] <PDF-file>\n\n")
		fmt.Fprintf(env.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("missing input file")
	}

	lib, err := env.Lib()
	if err != nil {
		return err
	}
	doc, err := lib.OpenDocument(fs.Arg(0), *password)
	if err != nil {
		return err
	}
	defer doc.Close()

	for _, m := range metaTags {
		value, err := doc.Metadata(m.tag)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%-15s %s\n", m.label+":", value)
	}

	fmt.Fprintf(env.Stdout, "%-15s %d\n", "Pages:", doc.PageCount())
	if version, ok := doc.FileVersion(); ok {
		fmt.Fprintf(env.Stdout, "%-15s %d.%d\n", "PDF version:", version/10, version%10)
	}
	fmt.Fprintf(env.Stdout, "%-15s %#x\n", "Permissions:", doc.Permissions())

	pages := doc.PageCount()
	if !*box && pages > 0 {
		pages = 1
	}
	for i := 0; i < pages; i++ {
		page, err := doc.Page(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%-15s %.2f x %.2f pts\n",
			fmt.Sprintf("Page %d size:", i+1), page.Width(), page.Height())
		page.Close()
	}
	return nil
}
