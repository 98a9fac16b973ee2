package mcpack

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/blang/semver"
	"github.com/klauspost/compress/zip"
)

func TestManifestJSON(t *testing.T) {
	m := NewManifest("pixels", "an image")
	m.Version = semver.MustParse("1.2.3")
	data, err := m.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var doc struct {
		FormatVersion int `json:"format_version"`
		Header        struct {
			Name             string `json:"name"`
			UUID             string `json:"uuid"`
			Version          []int  `json:"version"`
			MinEngineVersion []int  `json:"min_engine_version"`
		} `json:"header"`
		Modules []struct {
			Type string `json:"type"`
			UUID string `json:"uuid"`
		} `json:"modules"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.FormatVersion != 2 || doc.Header.Name != "pixels" {
		t.Fatalf("header %+v", doc)
	}
	if len(doc.Header.Version) != 3 || doc.Header.Version[2] != 3 {
		t.Fatalf("version %v", doc.Header.Version)
	}
	if doc.Header.MinEngineVersion[1] != 19 || doc.Header.MinEngineVersion[2] != 70 {
		t.Fatalf("min engine %v", doc.Header.MinEngineVersion)
	}
	if len(doc.Modules) != 1 || doc.Modules[0].Type != "data" {
		t.Fatalf("modules %+v", doc.Modules)
	}
	if doc.Header.UUID == "" || doc.Header.UUID == doc.Modules[0].UUID {
		t.Fatalf("uuids not distinct: %s %s", doc.Header.UUID, doc.Modules[0].UUID)
	}
}

func TestFrameLayout(t *testing.T) {
	f, err := NewFrame(NewManifest("pack", ""), nil)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.Function("data", "d0").WriteString("say hi\n")
	if err := f.SetTick("pack/aux/control"); err != nil {
		t.Fatalf("SetTick: %v", err)
	}
	if err := f.SetTick("pack/aux/control"); err != nil {
		t.Fatalf("SetTick: %v", err)
	}
	var paths []string
	_ = f.Root.Walk(func(p string, _ *File) error {
		paths = append(paths, p)
		return nil
	})
	want := []string{"manifest.json", "pack_icon.png", "functions/tick.json", "functions/pack/data/d0.mcfunction"}
	if len(paths) != len(want) {
		t.Fatalf("paths %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths %v, want %v", paths, want)
		}
	}
	tick, ok := f.Root.Lookup("functions/tick.json")
	if !ok {
		t.Fatalf("tick.json missing")
	}
	var doc tickDoc
	if err := json.Unmarshal(tick.Bytes(), &doc); err != nil || len(doc.Values) != 1 {
		t.Fatalf("tick.json %s", tick.String())
	}
}

func TestWritePolicies(t *testing.T) {
	out := t.TempDir()
	d := NewDir("p")
	d.File("a.txt").WriteString("one")
	if _, err := d.Write(out, Fail); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := d.Write(out, Fail); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	stale := filepath.Join(out, "p", "stale.txt")
	if err := os.WriteFile(stale, []byte("x"), 0644); err != nil {
		t.Fatalf("write stale: %v", err)
	}
	if _, err := d.Write(out, Merge); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Fatalf("merge removed stale file")
	}
	if _, err := d.Write(out, Replace); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("replace kept stale file")
	}
}

func TestFinishArchives(t *testing.T) {
	out := t.TempDir()
	f, err := NewFrame(NewManifest("zipme", "d"), nil)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.Structure("data").Write([]byte{1, 2, 3})
	dest, err := Finish(f.Root, out, Fail, true)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if filepath.Base(dest) != "zipme.mcpack" {
		t.Fatalf("dest %s", dest)
	}
	if _, err := os.Stat(filepath.Join(out, "zipme")); !os.IsNotExist(err) {
		t.Fatalf("source directory not removed")
	}
	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()
	var names []string
	for _, zf := range zr.File {
		names = append(names, zf.Name)
	}
	sort.Strings(names)
	want := []string{
		"zipme/functions/tick.json",
		"zipme/manifest.json",
		"zipme/pack_icon.png",
		"zipme/structures/zipme/data.mcstructure",
	}
	if len(names) != len(want) {
		t.Fatalf("entries %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("entries %v, want %v", names, want)
		}
	}
}

func TestFinishRespectsExistingArchive(t *testing.T) {
	out := t.TempDir()
	f, err := NewFrame(NewManifest("zipme", "d"), nil)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	dest, err := Finish(f.Root, out, Fail, true)
	if err != nil {
		t.Fatalf("first Finish: %v", err)
	}
	before, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	f.Structure("data").Write([]byte{1, 2, 3})
	if _, err := Finish(f.Root, out, Fail, true); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	after, err := os.ReadFile(dest)
	if err != nil || string(after) != string(before) {
		t.Fatalf("archive changed under Fail: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "zipme")); !os.IsNotExist(err) {
		t.Fatalf("pack directory written under Fail")
	}
	if _, err := Finish(f.Root, out, Replace, true); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced, _ := os.ReadFile(dest); string(replaced) == string(before) {
		t.Fatalf("archive not replaced")
	}
}

func TestArchiveFailureLeavesNothing(t *testing.T) {
	out := t.TempDir()
	dest := filepath.Join(out, "broken.mcpack")
	if err := Archive(filepath.Join(out, "missing"), dest); err == nil {
		t.Fatalf("archived a missing directory")
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("left behind %v", entries)
	}
}

func TestPackPrefixIsIdentifier(t *testing.T) {
	m := NewManifest("My Photo-2.final", "")
	if got := m.PackPrefix(); got != "my_photo_2_final" {
		t.Fatalf("prefix %q", got)
	}
	if m.Name != "My Photo-2.final" {
		t.Fatalf("name changed to %q", m.Name)
	}
	m.Prefix = ""
	if got := m.PackPrefix(); got != "my_photo_2_final" {
		t.Fatalf("fallback prefix %q", got)
	}
}
