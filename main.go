// mutscope statically analyzes C# sources to correlate test methods with
// the production methods they exercise, for mutation-testing pipelines.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/mutscope/mutscope/internal/correlate"
	"github.com/mutscope/mutscope/internal/coverage"
	"github.com/mutscope/mutscope/internal/discover"
	"github.com/mutscope/mutscope/internal/identity"
	"github.com/mutscope/mutscope/internal/model"
	"github.com/mutscope/mutscope/internal/report"
	"github.com/mutscope/mutscope/internal/syntax"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mutscope", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		sourceClass  string
		sourceMethod string
		maxFileSize  int
		showVersion  bool
	)

	fs.StringVar(&sourceClass, "class", "", "source class name to correlate tests against")
	fs.StringVar(&sourceMethod, "method", "", "source method name to correlate tests against")
	fs.IntVar(&maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "mutscope %s\n", version)
		return nil
	}

	if sourceMethod != "" && sourceClass == "" {
		return fmt.Errorf("-method requires -class")
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	files, err := discover.Files(root)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no C# files found")
	}

	files = filterBySize(root, files, maxFileSize, stderr)
	if len(files) == 0 {
		return fmt.Errorf("no C# files found (all exceeded size limit)")
	}

	analysis, err := analyzeFiles(context.Background(), root, files, sourceClass, sourceMethod, stderr)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout, report.Encode(analysis))
	return nil
}

type fileResult struct {
	classes []model.ClassReport
	matches []model.TestMatch
}

// analyzeFiles parses and analyzes each file concurrently, then merges the
// results in discovery order.
func analyzeFiles(ctx context.Context, root string, files []string, sourceClass, sourceMethod string, stderr io.Writer) (*model.Analysis, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var stderrMu sync.Mutex
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			source, err := os.ReadFile(filepath.Join(root, f))
			if err != nil {
				stderrMu.Lock()
				_, _ = fmt.Fprintf(stderr, "Warning: failed to read %s: %v\n", f, err)
				stderrMu.Unlock()
				return nil
			}
			res, err := analyzeFile(ctx, f, source, sourceClass, sourceMethod)
			if err != nil {
				stderrMu.Lock()
				_, _ = fmt.Fprintf(stderr, "Warning: failed to parse %s: %v\n", f, err)
				stderrMu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := &model.Analysis{Root: filepath.Base(root)}
	for _, r := range results {
		analysis.Classes = append(analysis.Classes, r.classes...)
		analysis.Matches = append(analysis.Matches, r.matches...)
	}
	if len(analysis.Classes) == 0 {
		return nil, fmt.Errorf("no files could be parsed")
	}
	return analysis, nil
}

func analyzeFile(ctx context.Context, path string, source []byte, sourceClass, sourceMethod string) (fileResult, error) {
	tree, err := syntax.Parse(ctx, source)
	if err != nil {
		return fileResult{}, err
	}
	defer tree.Close()

	var res fileResult
	for _, class := range syntax.DescendantsOfKind(tree.Root(), syntax.KindClass) {
		cr := model.ClassReport{
			FullName: identity.FullName(class, source),
			File:     path,
			Line:     syntax.LineNumber(class),
			Excluded: coverage.ShouldExclude(class, source),
		}
		correlatable := sourceMethod != "" && isTestClass(class, source)
		for _, method := range syntax.DescendantsOfKind(class, syntax.KindMethod) {
			name, err := identity.MethodName(method, source)
			if err != nil {
				continue
			}
			sig, err := identity.MethodSignature(method, source)
			if err != nil {
				sig = name
			}
			cr.Methods = append(cr.Methods, model.MethodInfo{
				Name:      name,
				Signature: sig,
				Line:      syntax.LineNumber(method),
			})
			if correlatable && correlate.IsValidTest(method, source, sourceClass, sourceMethod, class) {
				res.matches = append(res.matches, model.TestMatch{
					TestClass:  cr.FullName,
					TestMethod: name,
					File:       path,
					Line:       syntax.LineNumber(method),
				})
			}
		}
		res.classes = append(res.classes, cr)
	}
	return res, nil
}

// testAttributeNames mark a class as a test fixture when any of its
// attributes carries one of them.
var testAttributeNames = map[string]bool{
	"Test": true, "TestCase": true, "TestCaseSource": true,
	"TestFixture": true, "Fact": true, "Theory": true,
}

// isTestClass reports whether a class looks like a test fixture, by naming
// convention or by test-framework attributes. Correlation only runs against
// such classes; production code calling the target method is not a test.
func isTestClass(class *sitter.Node, source []byte) bool {
	name := identity.PlainClassName(class, source)
	if strings.HasSuffix(name, "Test") || strings.HasSuffix(name, "Tests") ||
		strings.HasSuffix(name, "Fixture") {
		return true
	}
	for _, attr := range syntax.DescendantsOfKind(class, syntax.KindAttribute) {
		if testAttributeNames[attributeNameText(attr, source)] {
			return true
		}
	}
	return false
}

func attributeNameText(attr *sitter.Node, source []byte) string {
	if n := attr.ChildByFieldName("name"); n != nil {
		return syntax.NodeText(n, source)
	}
	for i := 0; i < int(attr.NamedChildCount()); i++ {
		if c := attr.NamedChild(i); c.Type() == syntax.KindIdentifier {
			return syntax.NodeText(c, source)
		}
	}
	return ""
}

func filterBySize(root string, files []string, maxSize int, stderr io.Writer) []string {
	var kept []string
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", f, maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-class": true, "--class": true,
	"-method": true, "--method": true,
	"-max-file-size": true, "--max-file-size": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
