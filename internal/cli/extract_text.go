package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func runExtractText(env Env, args []string) error {
	fs := flag.NewFlagSet("extract-text", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	firstPage := fs.Int("f", 1, "first page to extract")
	lastPage := fs.Int("l", 0, "last page to extract (0 = last page of the document)")
	noPageBreaks := fs.Bool("nopgbrk", false, "don't insert page breaks between pages")
	password := fs.String("password", "", "document password")
	fs.Usage = func() {
		fmt.Fprintf(env.Stderr, "Usage: pdfium extract-text [options] <PDF-file> [<text-file>]\n\n")
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

	var out io.Writer = env.Stdout
	if fs.NArg() > 1 {
		f, err := os.Create(fs.Arg(1))
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
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

	last := *lastPage
	if last == 0 || last > doc.PageCount() {
		last = doc.PageCount()
	}
	if *firstPage < 1 || *firstPage > last {
		return fmt.Errorf("invalid page range %d-%d", *firstPage, last)
	}

	for n := *firstPage; n <= last; n++ {
		page, err := doc.Page(n - 1)
		if err != nil {
			return err
		}
		text, err := page.Text()
		page.Close()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, text); err != nil {
			return err
		}
		if n < last && !*noPageBreaks {
			if _, err := io.WriteString(out, "\f"); err != nil {
				return err
			}
		}
	}
	_, err = io.WriteString(out, "\n")
	return err
}
