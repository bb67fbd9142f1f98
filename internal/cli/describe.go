package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/arnevik/axle"
	"github.com/arnevik/axle/internal/presentation/tui"
)

// DescribeOptions control the describe report.
type DescribeOptions struct {
	// ManifestPath adds an extents section resolved against the manifest.
	ManifestPath string
	// Plain skips terminal rendering and returns raw markdown.
	Plain bool
	// Raw appends a deep value dump of the loaded manifest tree.
	Raw bool
}

// Describe loads a spec and renders a report of its structure: the spec
// tree, the dimensions it names, and where each dimension sits in each
// leaf. With a manifest, extents are resolved and reported too.
func Describe(log *slog.Logger, specPath string, opts DescribeOptions) (string, error) {
	spec, err := LoadSpec(specPath)
	if err != nil {
		return "", err
	}

	var manifest any
	if opts.ManifestPath != "" {
		manifest, err = LoadManifest(opts.ManifestPath)
		if err != nil {
			return "", err
		}
	}
	if log != nil {
		log.Debug("describing spec", "path", specPath, "manifest", opts.ManifestPath)
	}

	md := buildReport(specPath, spec, manifest)
	out := md
	if !opts.Plain {
		render := tui.NewRenderer()
		rendered, err := render(md)
		if err != nil {
			return "", fmt.Errorf("failed to render report: %w", err)
		}
		out = rendered
	}
	if opts.Raw && manifest != nil {
		out += "\n" + spew.Sdump(manifest)
	}
	return out, nil
}

func buildReport(path string, spec *axle.Spec, manifest any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Spec %s\n\n", filepath.Base(path))
	fmt.Fprintf(&b, "```\n%s\n```\n\n", spec)

	dims := spec.Dimensions()
	fmt.Fprintf(&b, "**Dimensions:** %s\n\n", strings.Join(dims, ", "))

	b.WriteString("## Axes\n\n")
	b.WriteString("| Dimension | Leaf | Axis |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, d := range dims {
		for _, l := range spec.IndexFor(d).Leaves() {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", d, l.Path, l.Axis)
		}
	}

	if manifest != nil {
		b.WriteString("\n## Extents\n\n")
		b.WriteString("| Dimension | Extent |\n")
		b.WriteString("| --- | --- |\n")
		for _, d := range dims {
			n, err := spec.Extent(manifest, d)
			if err != nil {
				fmt.Fprintf(&b, "| %s | ? (%v) |\n", d, err)
				continue
			}
			fmt.Fprintf(&b, "| %s | %d |\n", d, n)
		}
	}
	return b.String()
}
