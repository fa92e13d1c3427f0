// Package trainconfig reads the YAML descriptor that drives a training
// run: the ordered list of feature-processor spec lines (spec.md §6),
// the resource root they resolve relative file arguments against, and
// the output model path.
package trainconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anglisano/nametag/logger"
)

// Descriptor is the on-disk shape of a training run.
type Descriptor struct {
	Name          string   `yaml:"name" json:"name"`
	FilePath      string   `yaml:"-" json:"file_path"`
	WindowDefault int32    `yaml:"window_default" json:"window_default"`
	ResourceRoot  string   `yaml:"resource_root" json:"resource_root"`
	ModelPath     string   `yaml:"model_path" json:"model_path"`
	Processors    []string `yaml:"processors" json:"processors"`
	Entities      []string `yaml:"entities" json:"entities"`
}

// Load reads and validates a single descriptor file, the way
// types.LoadConfigurations reads a directory of per-pipeline YAMLs, but
// synchronous: a training run has exactly one descriptor, not N.
func Load(path string) (*Descriptor, error) {
	trainLogger := logger.New("trainconfig.Load")

	buf, err := os.ReadFile(path)
	if err != nil {
		trainLogger.Err(err).Str("path", path).Msg("reading training descriptor")
		return nil, err
	}

	descriptor := Descriptor{FilePath: path}
	if err := yaml.Unmarshal(buf, &descriptor); err != nil {
		trainLogger.Err(err).Str("path", path).Msg("parsing training descriptor")
		return nil, err
	}

	if len(descriptor.Processors) == 0 {
		err := errors.New("training descriptor names no processors")
		trainLogger.Err(err).Str("path", path).Msg("validating training descriptor")
		return nil, err
	}
	if descriptor.ModelPath == "" {
		err := errors.New("training descriptor has no model_path")
		trainLogger.Err(err).Str("path", path).Msg("validating training descriptor")
		return nil, err
	}

	return &descriptor, nil
}

// pathArgProcessors names, for each feature processor that takes file
// path arguments, how many of its trailing args (after the window) are
// paths to resolve against ResourceRoot: BrownClusters takes one (its
// cluster file, followed by numeric prefix lengths); Gazetteers takes
// all of them (one or more gazetteer files).
var pathArgProcessors = map[string]int{
	"BrownClusters": 1,
	"Gazetteers":    -1, // -1 means "every trailing arg"
}

// ResolveLine expands one processor spec line from the descriptor
// (spec.md §6 format) against this descriptor's settings before it
// reaches ner.Model.AddProcessor: a window field of "default" becomes
// WindowDefault, and file-path arguments of BrownClusters/Gazetteers are
// joined with ResourceRoot unless already absolute or an s3:// URI.
func (d *Descriptor) ResolveLine(spec string) string {
	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return spec
	}
	if fields[1] == "default" {
		fields[1] = strconv.FormatInt(int64(d.WindowDefault), 10)
	}

	pathArgs, ok := pathArgProcessors[fields[0]]
	if ok && d.ResourceRoot != "" {
		for i := 2; i < len(fields); i++ {
			if pathArgs >= 0 && i-2 >= pathArgs {
				break
			}
			fields[i] = d.resolvePath(fields[i])
		}
	}
	return strings.Join(fields, " ")
}

func (d *Descriptor) resolvePath(arg string) string {
	if strings.HasPrefix(arg, "s3://") || filepath.IsAbs(arg) {
		return arg
	}
	return filepath.Join(d.ResourceRoot, arg)
}

// PathArgIndices returns the indices into strings.Fields(spec) that name
// file-path arguments for spec's processor, per pathArgProcessors. Empty
// if spec's processor takes no file-path arguments.
func PathArgIndices(spec string) []int {
	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return nil
	}
	pathArgs, ok := pathArgProcessors[fields[0]]
	if !ok {
		return nil
	}
	var indices []int
	for i := 2; i < len(fields); i++ {
		if pathArgs >= 0 && i-2 >= pathArgs {
			break
		}
		indices = append(indices, i)
	}
	return indices
}

// RewriteFields rebuilds spec with fields[i] replaced per replacements
// (a map from field index to new value), preserving every other field.
func RewriteFields(spec string, replacements map[int]string) string {
	fields := strings.Fields(spec)
	for i, v := range replacements {
		if i >= 0 && i < len(fields) {
			fields[i] = v
		}
	}
	return strings.Join(fields, " ")
}
