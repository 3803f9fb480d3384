package environment_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mathtags/pkg/environment"
)

func TestLoadFS_RegistersDefinitions(t *testing.T) {
	reg := environment.DefaultRegistry()
	if err := environment.LoadFS(os.DirFS("testdata"), reg); err != nil {
		t.Fatalf("load: %v", err)
	}

	want := map[string]environment.Environment{
		"conj":  {Name: "conj", Class: "conjecture", Markdown: true},
		"chart": {Name: "chart", Class: "chart", Caption: "chartLabel", Script: "text/vega"},
		"photo": {Name: "photo", Marker: "{:.photo}"},
		"rmk":   {Name: "rmk", Class: "remark", Markdown: true},
	}
	for name, wantEnv := range want {
		got, err := reg.Get(name)
		if err != nil {
			t.Fatalf("get %s: %v", name, err)
		}
		if diff := cmp.Diff(wantEnv, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	out, err := reg.Render("photo", "<img>", `{"id":"p"}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "{:.photo}<img>" {
		t.Fatalf("unexpected figure-like output %q", out)
	}
}

func TestLoadFS_DuplicateAgainstBuiltin(t *testing.T) {
	fsys := fstest.MapFS{
		"envs.yaml": {Data: []byte("environments:\n  thm:\n    class: theorem\n")},
	}
	err := environment.LoadFS(fsys, environment.DefaultRegistry())
	if !errors.Is(err, environment.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if !strings.Contains(err.Error(), "envs.yaml") {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestLoadFS_InvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty.yaml":   "  \n",
		"broken.yaml":  "environments: [\n",
		"noclass.yaml": "environments:\n  conj:\n    markdown: true\n",
		"reserved.yaml": "environments:\n  for:\n    class: formula\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{name: {Data: []byte(data)}}
			if err := environment.LoadFS(fsys, environment.NewRegistry()); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	if err := environment.LoadFS(nil, environment.NewRegistry()); err != nil {
		t.Fatalf("nil fs should be a no-op: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	reg := environment.NewRegistry()
	if err := environment.LoadFile(filepath.Join("testdata", "remark.json"), reg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"rmk"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if err := environment.LoadFile(filepath.Join("testdata", "missing.yaml"), reg); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMarshal_ParsesBack(t *testing.T) {
	envs := []environment.Environment{
		{Name: "conj", Class: "conjecture", Markdown: true},
		{Name: "photo", Marker: "{:.photo}"},
	}
	data, err := environment.Marshal(envs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := environment.Parse(data, "generated.yaml")
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, data)
	}
	if diff := cmp.Diff(envs, got); diff != "" {
		t.Fatalf("environments mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_ReservedNameIsInvalid(t *testing.T) {
	fsys := fstest.MapFS{"envs.yaml": {Data: []byte("environments:\n  for:\n    class: formula\n")}}
	reg := environment.NewRegistry()

	err := environment.LoadFS(fsys, reg)
	if !errors.Is(err, environment.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if reg.Has("for") {
		t.Fatalf("reserved name must not be registered")
	}
}

func TestLoadFS_ParseErrorKeepsYAMLDetail(t *testing.T) {
	fsys := fstest.MapFS{"broken.yaml": {Data: []byte("environments:\n  conj: [\n")}}

	err := environment.LoadFS(fsys, environment.NewRegistry())
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.yaml") || !strings.Contains(err.Error(), "line") {
		t.Fatalf("error should name the file and the line: %v", err)
	}
}
