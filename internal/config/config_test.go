package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	body := "metric = \"jaccard\"\nn-kmers = 250\nbins = [0, 4, 16]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Metric != "jaccard" || f.NKmers != 250 {
		t.Fatalf("decoded %+v", f)
	}
	if len(f.Bins) != 3 || f.Bins[1] != 4 {
		t.Fatalf("bins decoded %v", f.Bins)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/does/not/exist.toml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("metric = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
