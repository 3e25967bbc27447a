package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appErrors "bibfile/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestUniqueCommand(t *testing.T) {
	out, err := run(t, "unique", "x/y/paper.bib", "x/z/paper.bib")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join("y", "paper.bib") + "\n" + filepath.Join("z", "paper.bib") + "\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestFindCommand(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "2019", "paper.pdf")
	if err := os.MkdirAll(filepath.Dir(nested), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(nested, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "find", "--dirs", dir, "paper.pdf")
	if err != nil || strings.TrimSpace(out) != nested {
		t.Fatalf("expected %s, got %q (%v)", nested, out, err)
	}

	out, err = run(t, "find", "--dirs", dir, "--glob", "**/*.pdf")
	if err != nil || strings.TrimSpace(out) != nested {
		t.Fatalf("expected %s, got %q (%v)", nested, out, err)
	}

	if _, err := run(t, "find", "paper.pdf"); appErrors.KindOf(err) != appErrors.InvalidConfig {
		t.Fatalf("expected invalid config without dirs, got %v", err)
	}
}

func TestCopyCommandHonoursReplace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "refs.bib")
	if err := os.WriteFile(src, []byte("@misc{a}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "copy", src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(src + ".bak"); err != nil {
		t.Fatalf("expected backup copy: %v", err)
	}

	if _, err := run(t, "copy", src); appErrors.KindOf(err) != appErrors.AlreadyExists {
		t.Fatalf("expected already exists, got %v", err)
	}
	if _, err := run(t, "copy", "--replace", src); err != nil {
		t.Fatalf("unexpected error with --replace: %v", err)
	}
}

func TestRelinkDryRunWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scan.pdf"), []byte("%PDF-1.4\n%%EOF\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "relink", "--dirs", dir, "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Skipped 1 documents without metadata.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan.pdf")); err != nil {
		t.Fatalf("dry run must not touch files: %v", err)
	}
}

func TestInvalidPatternIsRejected(t *testing.T) {
	_, err := run(t, "name", "--pattern", `\begin{title}`, "x.pdf")
	if appErrors.KindOf(err) != appErrors.InvalidConfig {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

const packet = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
      <dc:title><rdf:Alt><rdf:li xml:lang="x-default">On Things</rdf:li></rdf:Alt></dc:title>
      <dc:creator><rdf:Seq><rdf:li>John Smith</rdf:li></rdf:Seq></dc:creator>
      <dc:relation><rdf:Bag><rdf:li>bibtexkey/Smith2019</rdf:li></rdf:Bag></dc:relation>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>`

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"+packet+"\n%%EOF\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportCommand(t *testing.T) {
	path := writePDF(t, t.TempDir(), "paper.pdf")

	out, err := run(t, "import", "--output", "yaml", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "key: Smith2019") || !strings.Contains(out, "title: On Things") {
		t.Fatalf("unexpected yaml output:\n%s", out)
	}

	out, err = run(t, "import", "--privacy-filter", "--privacy-fields", "title", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "title =") || !strings.Contains(out, "author = {John Smith}") {
		t.Fatalf("privacy filter not applied:\n%s", out)
	}
}

func TestNameCommand(t *testing.T) {
	path := writePDF(t, t.TempDir(), "scan.pdf")

	out, err := run(t, "name", "--pattern", `\bibtexkey - \title`, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "scan.pdf -> Smith2019 - On Things.pdf" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNameCommandResolvesConfiguredStrings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	abbreviated := strings.Replace(packet, "On Things", "#things#", 1)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"+abbreviated+"\n%%EOF\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bibfile.yml"), []byte("strings:\n  things: On Things\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	out, err := run(t, "name", "--pattern", `\title`, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "scan.pdf -> On Things.pdf" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRelinkRenamesInPlace(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "scan.pdf")

	out, err := run(t, "relink", "--dirs", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Renamed 1 documents") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "Smith2019.pdf")); err != nil {
		t.Fatalf("expected renamed document: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected source to be gone, got %v", err)
	}
}

func TestRelinkCopiesIntoTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "library")
	writePDF(t, dir, "scan.pdf")

	if _, err := run(t, "relink", "--dirs", dir, "--target", target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "Smith2019.pdf")); err != nil {
		t.Fatalf("expected copied document: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan.pdf")); err != nil {
		t.Fatalf("copy must keep the source: %v", err)
	}
}
