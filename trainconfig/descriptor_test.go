package trainconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDescriptor(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "descriptor.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRejectsMissingProcessorsAndModelPath(t *testing.T) {
	if _, err := Load(writeDescriptor(t, "model_path: out/ner.model\n")); err == nil {
		t.Fatal("expected an error for a descriptor with no processors")
	}
	if _, err := Load(writeDescriptor(t, "processors:\n  - \"Form 2\"\n")); err == nil {
		t.Fatal("expected an error for a descriptor with no model_path")
	}
}

func TestLoadParsesAWellFormedDescriptor(t *testing.T) {
	path := writeDescriptor(t, `
window_default: 2
resource_root: ./resources
model_path: ./out/ner.model
processors:
  - "Form default"
  - "Gazetteers default gaz/persons.txt"
entities:
  - url
  - email
`)
	d, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if d.WindowDefault != 2 || d.ResourceRoot != "./resources" || d.ModelPath != "./out/ner.model" {
		t.Fatalf("got %+v, want window_default=2 resource_root=./resources model_path=./out/ner.model", d)
	}
	if len(d.Processors) != 2 || len(d.Entities) != 2 {
		t.Fatalf("got %+v, want 2 processors and 2 entities", d)
	}
}

func TestResolveLineSubstitutesDefaultWindow(t *testing.T) {
	d := &Descriptor{WindowDefault: 3}
	got := d.ResolveLine("Form default")
	if got != "Form 3" {
		t.Fatalf("got %q, want %q", got, "Form 3")
	}
}

func TestResolveLineJoinsRelativeGazetteerPathsWithResourceRoot(t *testing.T) {
	d := &Descriptor{WindowDefault: 2, ResourceRoot: "resources"}
	got := d.ResolveLine("Gazetteers default persons.txt locations.txt")
	want := "Gazetteers 2 " + filepath.Join("resources", "persons.txt") + " " + filepath.Join("resources", "locations.txt")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveLineLeavesS3AndAbsolutePathsAlone(t *testing.T) {
	d := &Descriptor{ResourceRoot: "resources"}
	got := d.ResolveLine("BrownClusters 2 s3://bucket/clusters.tsv 4 6")
	want := "BrownClusters 2 s3://bucket/clusters.tsv 4 6"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveLineOnlyJoinsBrownClustersFirstArg(t *testing.T) {
	d := &Descriptor{ResourceRoot: "resources"}
	got := d.ResolveLine("BrownClusters 2 clusters.tsv 4 6")
	want := "BrownClusters 2 " + filepath.Join("resources", "clusters.tsv") + " 4 6"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPathArgIndicesAndRewriteFields(t *testing.T) {
	spec := "Gazetteers 2 persons.txt locations.txt"
	indices := PathArgIndices(spec)
	if len(indices) != 2 || indices[0] != 2 || indices[1] != 3 {
		t.Fatalf("got indices %v, want [2 3]", indices)
	}
	rewritten := RewriteFields(spec, map[int]string{2: "/tmp/persons.txt"})
	if rewritten != "Gazetteers 2 /tmp/persons.txt locations.txt" {
		t.Fatalf("got %q", rewritten)
	}

	if idx := PathArgIndices("URLEmailDetector 0 url email"); idx != nil {
		t.Fatalf("got %v, want nil: URLEmailDetector takes no file arguments", idx)
	}
}
