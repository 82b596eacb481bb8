package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pevans/yoinker"
	"github.com/pevans/yoinker/logging"
	"github.com/pevans/yoinker/passage"
)

// FetchCmd fetches one passage.
type FetchCmd struct {
	Method  string `short:"m" default:"BG" help:"Source: BG (BibleGateway) or GPT (language model)"`
	Version string `short:"v" required:"" help:"Bible version, e.g. NIV"`
	Book    string `short:"b" required:"" help:"Book name, e.g. Genesis"`
	Chapter string `short:"c" required:"" help:"Chapter number"`
	Verses  string `short:"s" help:"Verses in order, e.g. 1,2,5-7 (default: whole chapter)"`
	Out     string `short:"o" type:"path" help:"Write the passage to a file in this directory"`
}

// Run looks up one passage and prints it or writes it under --out.
func (c *FetchCmd) Run(rt *session) error {
	req, err := newLookup(c.Method, c.Version, c.Book, c.Chapter, c.Verses)
	if err != nil {
		return err
	}

	text, err := rt.source.Yoink(rt.ctx, req.method, req.ref, req.sel)
	if err != nil {
		return rt.explain(err, req.ref)
	}

	return rt.emit(req, text, c.Out)
}

// BatchCmd fetches every passage listed in a file.
type BatchCmd struct {
	File string `arg:"" type:"existingfile" help:"File with one 'METHOD VERSION BOOK CHAPTER [VERSES]' per line"`
	Out  string `short:"o" type:"path" help:"Write each passage to a file in this directory"`
}

// Run looks up every line of the batch file, reporting failures per line.
func (c *BatchCmd) Run(rt *session) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var total, failed int
	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		total++

		// A bad line is reported and skipped; the rest still run
		if err := rt.runBatchLine(line, c.Out); err != nil {
			failed++
			fmt.Fprintf(rt.stderr, "line %d: %v\n", lineNum, err)
			logging.Warn("batch line failed", "line", lineNum, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read batch file: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, total)
	}
	return nil
}

func (rt *session) runBatchLine(line, outDir string) error {
	req, err := parseBatchLine(line)
	if err != nil {
		return err
	}

	text, err := rt.source.Yoink(rt.ctx, req.method, req.ref, req.sel)
	if err != nil {
		return rt.explain(err, req.ref)
	}

	return rt.emit(req, text, outDir)
}

// lookup is one parsed passage request.
type lookup struct {
	method yoinker.Method
	ref    passage.Reference
	sel    passage.Selector
}

func newLookup(method, version, book, chapter, verses string) (lookup, error) {
	m, err := yoinker.ParseMethod(method)
	if err != nil {
		return lookup{}, err
	}

	ref, err := passage.NewReference(version, book, chapter)
	if err != nil {
		return lookup{}, err
	}

	sel, err := passage.ParseSelector(verses)
	if err != nil {
		return lookup{}, err
	}

	return lookup{method: m, ref: ref, sel: sel}, nil
}

var (
	chapterPattern  = regexp.MustCompile(`^\d+$`)
	selectorPattern = regexp.MustCompile(`^[\d,\-]+$`)
)

// parseBatchLine reads "METHOD VERSION BOOK CHAPTER [VERSES]". The book may
// span several words ("1 John", "Song of Songs"); the chapter is the last
// integer field, optionally followed by a verse expression.
func parseBatchLine(line string) (lookup, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return lookup{}, fmt.Errorf("expected 'METHOD VERSION BOOK CHAPTER [VERSES]', got %q", line)
	}

	method, version, rest := fields[0], fields[1], fields[2:]

	var verses string
	if len(rest) >= 3 && chapterPattern.MatchString(rest[len(rest)-2]) && selectorPattern.MatchString(rest[len(rest)-1]) {
		verses = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}

	chapter := rest[len(rest)-1]
	book := strings.Join(rest[:len(rest)-1], " ")

	return newLookup(method, version, book, chapter, verses)
}

// OutputFileName names the file a passage is written to:
// METHOD_VERSION_BOOK_CHAPTER_VERSES.txt, with "All" for a whole chapter.
func OutputFileName(method yoinker.Method, ref passage.Reference, sel passage.Selector) string {
	verses := sel.String()
	if verses == "" {
		verses = "All"
	}

	name := strings.Join([]string{method.String(), ref.Version, ref.Book, ref.Chapter, verses}, "_")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".txt"
}

// emit prints text, or writes it into outDir when one is given.
func (rt *session) emit(req lookup, text, outDir string) error {
	if outDir == "" {
		_, err := fmt.Fprintln(rt.stdout, text)
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outDir, OutputFileName(req.method, req.ref, req.sel))
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write passage: %w", err)
	}

	fmt.Fprintf(rt.stdout, "Wrote %s to %s\n", req.ref, path)
	return nil
}
