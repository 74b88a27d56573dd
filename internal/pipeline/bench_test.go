package pipeline

import (
	"fmt"
	"os"
	"testing"

	"github.com/theirongolddev/fsplan/internal/template"
)

func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	src := template.DefaultSource()
	for i := 0; i < 32; i++ {
		path := fmt.Sprintf("%s/plan-%02d.yaml", dir, i)
		if err := writeBench(path, src); err != nil {
			b.Fatal(err)
		}
	}
	files, err := Scan(dir)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := Load(files, nil)
		if res.FileErrors > 0 {
			b.Fatal(res.Failed[0].Err)
		}
	}
}

func BenchmarkParseFile(b *testing.B) {
	path := b.TempDir() + "/default.yaml"
	if err := writeBench(path, template.DefaultSource()); err != nil {
		b.Fatal(err)
	}
	f := DiscoveredFile{Path: path, Name: "default", Format: template.FormatYAML}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if pr := ParseFile(f); pr.Err != nil {
			b.Fatal(pr.Err)
		}
	}
}

func writeBench(path string, src []byte) error {
	return os.WriteFile(path, src, 0o600)
}
