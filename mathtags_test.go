package mathtags_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	mathtags "github.com/goliatone/go-mathtags"
	"github.com/goliatone/go-mathtags/pkg/render/template/gotemplate"
)

func TestRender_Facade(t *testing.T) {
	got, err := mathtags.Render(mathtags.Corollary, "C", `{"id":"c1"}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div class="corollaryCaption" id="c1"><div class="corollary" markdown="1" id="c1">C</div></div>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestHostsAgree(t *testing.T) {
	reg := mathtags.NewRegistry()

	lq, err := mathtags.NewLiquid()
	if err != nil {
		t.Fatalf("liquid: %v", err)
	}
	pg, err := mathtags.NewPongo2(gotemplate.WithBaseDir(t.TempDir()))
	if err != nil {
		t.Fatalf("pongo2: %v", err)
	}

	for _, name := range reg.List() {
		want, err := reg.Render(name, "body", `{"id":"x"}`)
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}

		fromLiquid, err := lq.RenderString("{% "+name+` {"id":"x"} %}body{% end`+name+" %}", nil)
		if err != nil {
			t.Fatalf("liquid %s: %v", name, err)
		}
		if diff := cmp.Diff(want, fromLiquid); diff != "" {
			t.Errorf("liquid %s mismatch (-want +got):\n%s", name, diff)
		}

		fromPongo, err := pg.RenderString(`{% environment "`+name+`" '{"id":"x"}' %}body{% endenvironment %}`, nil)
		if err != nil {
			t.Fatalf("pongo2 %s: %v", name, err)
		}
		if diff := cmp.Diff(want, fromPongo); diff != "" {
			t.Errorf("pongo2 %s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestRenderPage(t *testing.T) {
	res, err := mathtags.RenderPage(context.Background(), []byte("---\nname: Yoneda\n---\n{% quiver %}{{ page.name }}{% endquiver %}"))
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	if res.Body != `<div class="quiver" id="">Yoneda</div>` {
		t.Fatalf("unexpected body %q", res.Body)
	}
}
