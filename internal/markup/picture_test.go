package markup

import (
	"strings"
	"testing"

	"github.com/yourwellnessgirly/site-tools/internal/model"
	"github.com/yourwellnessgirly/site-tools/internal/profile"
)

func heroPicture(t *testing.T) Picture {
	t.Helper()

	hero, err := profile.Get(profile.Hero)
	if err != nil {
		t.Fatalf("profile.Get() error = %v", err)
	}

	return Picture{
		URLPrefix:     "../images/recipes",
		Recipe:        "mango-yogurt-bites",
		BaseName:      "bites",
		Profile:       hero,
		Alt:           "Descriptive alt text for mango-yogurt-bites",
		Width:         1600,
		Height:        2000,
		Loading:       "eager",
		FetchPriority: "high",
	}
}

func TestRenderHero(t *testing.T) {
	got, err := Render(heroPicture(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `<picture>
    <source
        srcset="../images/recipes/mango-yogurt-bites/bites-400.webp 400w, ../images/recipes/mango-yogurt-bites/bites-800.webp 800w, ../images/recipes/mango-yogurt-bites/bites-1200.webp 1200w, ../images/recipes/mango-yogurt-bites/bites-1600.webp 1600w"
        type="image/webp">
    <img
        src="../images/recipes/mango-yogurt-bites/bites-1600.jpg"
        srcset="../images/recipes/mango-yogurt-bites/bites-400.jpg 400w, ../images/recipes/mango-yogurt-bites/bites-800.jpg 800w, ../images/recipes/mango-yogurt-bites/bites-1200.jpg 1200w, ../images/recipes/mango-yogurt-bites/bites-1600.jpg 1600w"
        sizes="(max-width: 480px) 100vw, (max-width: 768px) 100vw, (max-width: 1200px) 60vw, 735px"
        width="1600"
        height="2000"
        alt="Descriptive alt text for mango-yogurt-bites"
        loading="eager"
        fetchpriority="high" />
</picture>`

	if got != want {
		t.Errorf("Render() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderOmitsFetchPriority(t *testing.T) {
	p := heroPicture(t)
	p.FetchPriority = ""
	p.Loading = ""

	got, err := Render(p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Contains(got, "fetchpriority") {
		t.Error("fetchpriority rendered although empty")
	}
	if !strings.Contains(got, `loading="lazy" />`) {
		t.Errorf("expected default lazy loading, got:\n%s", got)
	}
}

func TestRenderEscapesAttributes(t *testing.T) {
	p := heroPicture(t)
	p.Alt = `Bars "with" <chocolate> & nuts`

	got, err := Render(p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(got, `alt="Bars &#34;with&#34; &lt;chocolate&gt; &amp; nuts"`) {
		t.Errorf("alt not escaped:\n%s", got)
	}
}

func TestSrcsetOrderAndFallbackForEveryProfile(t *testing.T) {
	for _, name := range profile.Names() {
		t.Run(name, func(t *testing.T) {
			prof, _ := profile.Get(name)
			p := Picture{URLPrefix: "/img/", Recipe: "r", BaseName: "b", Profile: prof}

			webp := strings.Split(p.Srcset(model.FormatWebP), ", ")
			jpeg := strings.Split(p.Srcset(model.FormatJPEG), ", ")
			if len(webp) != len(prof.Buckets) || len(jpeg) != len(prof.Buckets) {
				t.Fatalf("srcset lengths %d/%d, want %d", len(webp), len(jpeg), len(prof.Buckets))
			}

			for i, b := range prof.Buckets {
				if want := "/img/r/b-" + b.Label + ".webp " + b.Label + "w"; webp[i] != want {
					t.Errorf("webp[%d] = %q, want %q", i, webp[i], want)
				}
				if want := "/img/r/b-" + b.Label + ".jpg " + b.Label + "w"; jpeg[i] != want {
					t.Errorf("jpeg[%d] = %q, want %q", i, jpeg[i], want)
				}
			}

			html, err := Render(p)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			wantSrc := `src="/img/r/b-` + prof.Largest().Label + `.jpg"`
			if !strings.Contains(html, wantSrc) {
				t.Errorf("fallback src missing %s in:\n%s", wantSrc, html)
			}
		})
	}
}

func TestRenderRejectsEmptyProfile(t *testing.T) {
	if _, err := Render(Picture{Profile: model.SizeProfile{Name: "empty"}}); err == nil {
		t.Error("Render() expected error for empty profile")
	}
}
