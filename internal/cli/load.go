// Package cli implements the axle command line: loading specs and data
// manifests from YAML and turning them into validation results and
// terminal reports.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/arnevik/axle"
	"github.com/arnevik/axle/internal/logging"
	"github.com/arnevik/axle/pkg/tensor"
	"github.com/arnevik/axle/pkg/tree"
)

// NewLogger configures the command logger. Verbose mode writes debug lines
// to stderr, keeping stdout for the actual output.
func NewLogger(verbose bool) *slog.Logger {
	if verbose {
		return logging.New(os.Stderr, slog.LevelDebug)
	}
	return logging.NewNop()
}

// LoadSpec reads a YAML spec file: mappings and sequences become the spec
// tree, string lists become dimension shapes.
//
//	receiver:
//	  signal: [transmitter, receiver, time]
//	  position: [receiver, xyz]
//	point: [xyz]
func LoadSpec(path string) (*axle.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	spec, err := axle.New(node)
	if err != nil {
		return nil, fmt.Errorf("invalid spec in %s: %w", filepath.Base(path), err)
	}
	return spec, nil
}

// extentsLeaf is the manifest's description of one array: its extents plus
// an informational element type.
type extentsLeaf struct {
	Extents []int  `mapstructure:"extents"`
	Dtype   string `mapstructure:"dtype"`
}

// LoadManifest reads a YAML data manifest: a tree mirroring the spec whose
// leaves are mappings with an "extents" key, each becoming a tensor.Meta.
// "extents" is reserved; a mapping carrying it is always a leaf. Scalar
// values stay scalar leaves.
//
//	receiver:
//	  signal: {extents: [16, 16, 100], dtype: float32}
//	  position: {extents: [16, 3], dtype: float32}
//	point: {extents: [3]}
func LoadManifest(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	out, err := manifestNode(nil, node)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest in %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

func manifestNode(p tree.Path, v any) (any, error) {
	switch n := v.(type) {
	case map[string]any:
		if _, ok := n["extents"]; ok {
			var leaf extentsLeaf
			if err := mapstructure.Decode(n, &leaf); err != nil {
				return nil, fmt.Errorf("failed to decode extents at %s: %w", p, err)
			}
			return tensor.Meta(leaf.Extents), nil
		}
		out := make(map[string]any, len(n))
		for k, c := range n {
			child, err := manifestNode(p.Child(k), c)
			if err != nil {
				return nil, err
			}
			out[k] = child
		}
		return out, nil
	case []any:
		out := make([]any, len(n))
		for i, c := range n {
			child, err := manifestNode(p.Child(fmt.Sprint(i)), c)
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	default:
		return v, nil
	}
}

// Validate loads a spec and a manifest and checks the manifest's extents
// against the spec's dimensions.
func Validate(log *slog.Logger, specPath, manifestPath string) error {
	if log == nil {
		log = logging.NewNop()
	}
	spec, err := LoadSpec(specPath)
	if err != nil {
		return err
	}
	log.Debug("spec loaded", "path", specPath, "dimensions", spec.Dimensions())

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	log.Debug("manifest loaded", "path", manifestPath)

	return spec.Validate(manifest)
}
