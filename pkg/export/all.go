package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"

	"golang.org/x/sync/errgroup"
)

// Export formats understood by ExportAll.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatHTML     = "html"
	FormatMarkdown = "md"
)

// AllFormats lists every format in output order.
var AllFormats = []string{FormatSVG, FormatPNG, FormatHTML, FormatMarkdown}

// AllOptions configures a multi-format export.
type AllOptions struct {
	Dir      string
	BaseName string   // File stem; defaults to "mindmap"
	Title    string   // Overrides the dataset title
	Formats  []string // Empty means AllFormats
	State    selection.State
}

// ExportAll writes every requested format into opts.Dir concurrently and
// returns the written paths sorted by name. The first failure cancels the
// rest.
func ExportAll(ctx context.Context, ds *model.Dataset, opts AllOptions) ([]string, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("no principles to export")
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = AllFormats
	}
	base := opts.BaseName
	if base == "" {
		base = "mindmap"
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)

	for i, format := range formats {
		i, format := i, strings.ToLower(format)
		path := filepath.Join(opts.Dir, base+"."+format)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			defer func() { debug.LogTiming("export "+format, time.Since(start)) }()

			var err error
			switch format {
			case FormatSVG, FormatPNG:
				err = SaveSnapshot(SnapshotOptions{
					Path:    path,
					Format:  format,
					Title:   opts.Title,
					Dataset: ds,
					State:   opts.State,
				})
			case FormatHTML:
				_, err = GenerateInteractiveHTML(InteractiveOptions{
					Dataset: ds,
					State:   opts.State,
					Title:   opts.Title,
					Path:    path,
				})
			case FormatMarkdown:
				err = SaveMarkdownToFile(ds, opts.Title, path)
			default:
				err = fmt.Errorf("unsupported format %q", format)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
