package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/karupanerura/arith-expression/internal/document"
	"github.com/karupanerura/arith-expression/internal/expression"
	"github.com/karupanerura/arith-expression/internal/server"
	"github.com/karupanerura/arith-expression/internal/types"
)

type Option struct {
	Exprs  []string `short:"e" long:"expr" description:"[OPTIONAL] Expression to evaluate (repeatable, also taken from arguments after --)" required:"false"`
	File   string   `short:"f" long:"file" description:"[OPTIONAL] JSON or YAML document with ${...} expressions" required:"false"`
	Listen string   `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the evaluation API" required:"false"`
	Tree   bool     `long:"tree" description:"[OPTIONAL] Print the parsed tree along with each value (expression mode only)"`
	Debug  bool     `long:"debug" description:"[OPTIONAL] Trace the parser (expression and document mode)"`
}

type result struct {
	Expression string `json:"expression"`
	Tree       string `json:"tree,omitempty"`
	Value      int64  `json:"value"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	rest, err := parser.ParseArgs(joinExprArgs(args))
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}

	opt.Exprs = append(opt.Exprs, rest...)

	modes := lo.Filter([]bool{len(opt.Exprs) != 0, opt.File != "", opt.Listen != ""}, func(set bool, _ int) bool {
		return set
	})
	if len(modes) != 1 {
		parser.WriteHelp(stdout)
		return 1
	}
	if (opt.Tree && len(opt.Exprs) == 0) || (opt.Debug && opt.Listen != "") {
		parser.WriteHelp(stdout)
		return 1
	}

	// server mode
	if opt.Listen != "" {
		if err = serve(opt.Listen); err != nil {
			log.Printf("failed to serve: %v", err)
			return 1
		}
		return 0
	}

	// document mode
	if opt.File != "" {
		doc, err := loadDocument(opt.File, opt.Debug)
		if err != nil {
			return dumpError(stderr, "failed to load document", err)
		}
		if err = dumpJSON(stdout, doc.Evaluate()); err != nil {
			log.Printf("failed to dump document: %v", err)
			return 1
		}
		return 0
	}

	results, err := evaluateAll(opt.Exprs, opt.Tree, opt.Debug)
	if err != nil {
		return dumpError(stderr, "failed to evaluate", err)
	}

	var out any
	switch {
	case opt.Tree && len(results) == 1:
		out = results[0]
	case opt.Tree:
		out = results
	case len(results) == 1:
		out = results[0].Value
	default:
		out = lo.Map(results, func(r *result, _ int) int64 { return r.Value })
	}
	if err = dumpJSON(stdout, out); err != nil {
		log.Printf("failed to dump result: %v", err)
		return 1
	}
	return 0
}

// evaluateAll parses and evaluates sources concurrently; results keep the input order.
func evaluateAll(sources []string, withTree, debug bool) ([]*result, error) {
	parseExpr := expression.ParseExpr
	if debug {
		parseExpr = expression.ParseExprWithDebugOutput
	}

	results := make([]*result, len(sources))
	eg := errgroup.Group{}
	for i, source := range sources {
		i := i
		source := source
		eg.Go(func() error {
			expr, err := parseExpr(source)
			if err != nil {
				return fmt.Errorf("expr[%d]: %w", i, err)
			}

			r := &result{Expression: source, Value: expression.Evaluate(expr)}
			if withTree {
				r.Tree = expr.Tree()
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// joinExprArgs rewrites "-e VALUE" as "-e=VALUE" so that a value starting with
// unary minus is not taken for an option.
func joinExprArgs(args []string) []string {
	joined := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--":
			return append(joined, args[i:]...)
		case (arg == "-e" || arg == "--expr") && i+1 < len(args):
			joined = append(joined, arg+"="+args[i+1])
			i++
		default:
			joined = append(joined, arg)
		}
	}
	return joined
}

func loadDocument(filePath string, debug bool) (*document.Document, error) {
	var parseDocument func(io.Reader, ...document.Option) (*document.Document, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseDocument = document.ParseJSON
	case ".yaml", ".yml":
		parseDocument = document.ParseYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	var opts []document.Option
	if debug {
		opts = append(opts, document.WithDebugOutput())
	}

	doc, err := parseDocument(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("document.Parse: %w", err)
	}
	return doc, nil
}

func serve(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpError(w io.Writer, msg string, err error) int {
	var exception types.Exception
	if !errors.As(err, &exception) {
		log.Printf("%s: %v", msg, err)
		return 1
	}

	if _, err = fmt.Fprintf(w, "%s: %v\n", msg, err); err != nil {
		log.Printf("failed to dump error: %v", err)
	}
	if err = dumpJSON(w, exception.Exception()); err != nil {
		log.Printf("failed to dump error as JSON: %v", err)
	}
	return 1
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
