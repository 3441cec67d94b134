package main

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kumihan/kumihan-go/kumihan"
)

// newLogger sets up the logging system: human-friendly output in debug
// mode, structured JSON otherwise.
func newLogger(debug bool) *zap.SugaredLogger {
	var z *zap.Logger
	var err error
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return z.Sugar()
}

// loadTable builds the keyword table for a run: built-in defaults plus
// the entries of the keyword override file, if one was given.
func loadTable(c *cli.Context, sugar *zap.SugaredLogger) (*kumihan.KeywordTable, error) {
	table := kumihan.DefaultKeywords()

	fileName := c.String("keywords")
	if len(fileName) == 0 {
		return table, nil
	}

	entries, err := LoadKeywordFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("loading keyword file %s: %w", fileName, err)
	}
	for _, d := range entries {
		table.Add(d)
	}
	sugar.Infow("loaded keyword overrides", "file", fileName, "entries", len(entries))
	return table, nil
}

func inputFileName(c *cli.Context) string {
	if c.Args().Present() {
		return c.Args().First()
	}
	return "index.txt"
}

func parseFile(c *cli.Context, sugar *zap.SugaredLogger) (*kumihan.Document, string, error) {
	fileName := inputFileName(c)

	src, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fileName, err
	}

	table, err := loadTable(c, sugar)
	if err != nil {
		return nil, fileName, err
	}

	doc, err := kumihan.Parse(string(src), table)
	if err != nil {
		return nil, fileName, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	return doc, fileName, nil
}

// convert processes one notation file and writes the HTML next to it.
func convert(c *cli.Context) error {
	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	doc, fileName, err := parseFile(c, sugar)
	if err != nil {
		return err
	}

	for _, issue := range doc.Issues {
		fmt.Fprintf(os.Stderr, "%s: %s\n", fileName, issue)
	}

	html, err := kumihan.Render(doc, kumihan.RenderOptions{
		Title:      c.String("title"),
		CSS:        c.String("css"),
		Standalone: !c.Bool("fragment"),
		CodeStyle:  c.String("code-style"),
	})
	if err != nil {
		return fmt.Errorf("rendering %s: %w", fileName, err)
	}

	outputFileName := c.String("output")
	if len(outputFileName) == 0 {
		ext := path.Ext(fileName)
		if len(ext) == 0 {
			outputFileName = fileName + ".html"
		} else {
			outputFileName = strings.Replace(fileName, ext, ".html", 1)
		}
	}

	if c.Bool("dryrun") {
		sugar.Infow("dry run, no output written", "input", fileName)
		return nil
	}

	if err := os.WriteFile(outputFileName, []byte(html), 0664); err != nil {
		return err
	}
	sugar.Infow("converted", "input", fileName, "output", outputFileName, "issues", len(doc.Issues))
	return nil
}

// check parses the input and prints the issue summary without writing
// any output. The exit status is non-zero when error-severity issues
// were found.
func check(c *cli.Context) error {
	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	doc, fileName, err := parseFile(c, sugar)
	if err != nil {
		return err
	}

	for _, issue := range doc.Issues {
		fmt.Printf("%s: %s\n", fileName, issue)
	}

	if doc.HasErrors() {
		return cli.Exit(fmt.Sprintf("%s: syntax check failed", fileName), 1)
	}
	fmt.Printf("%s: ok (%d warnings)\n", fileName, len(doc.Issues))
	return nil
}

// keywords prints the effective keyword table, including any loaded
// overrides.
func keywords(c *cli.Context) error {
	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	table, err := loadTable(c, sugar)
	if err != nil {
		return err
	}

	for _, name := range table.Names() {
		d, _ := table.Lookup(name)
		if len(d.Tag) > 0 {
			fmt.Printf("%s\t<%s>", name, d.Tag)
		} else {
			fmt.Printf("%s\t-", name)
		}
		if len(d.Classes) > 0 {
			fmt.Printf("\tclass=%s", strings.Join(d.Classes, " "))
		}
		fmt.Println()
	}
	return nil
}

func main() {

	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "keywords",
			Aliases: []string{"k"},
			Usage:   "load keyword table overrides from YAML `FILE`",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "run in debug mode",
		},
	}

	app := &cli.App{
		Name:      "kumihan",
		Version:   "v0.1",
		Compiled:  time.Now(),
		Usage:     "convert Kumihan notation documents to HTML",
		UsageText: "kumihan [command] [options] [INPUT_FILE] (default input file is index.txt)",
		Commands: []*cli.Command{
			{
				Name:   "convert",
				Usage:  "convert a notation file to HTML",
				Action: convert,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write html to `FILE` (default is input file name with extension .html)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "page title of the generated document",
					},
					&cli.StringFlag{
						Name:  "css",
						Usage: "extra CSS appended to the built-in style block",
					},
					&cli.StringFlag{
						Name:  "code-style",
						Usage: "chroma style for code blocks (default github)",
					},
					&cli.BoolFlag{
						Name:  "fragment",
						Usage: "emit an HTML fragment without the page wrapper",
					},
					&cli.BoolFlag{
						Name:    "dryrun",
						Aliases: []string{"n"},
						Usage:   "do not generate output file, just process input file",
					},
				}, commonFlags...),
			},
			{
				Name:   "check",
				Usage:  "syntax-check a notation file and print its issues",
				Action: check,
				Flags:  commonFlags,
			},
			{
				Name:   "keywords",
				Usage:  "print the effective keyword table",
				Action: keywords,
				Flags:  commonFlags,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
