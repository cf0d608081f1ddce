package responsive

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"slices"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"

	"github.com/yourwellnessgirly/site-tools/internal/model"
	"github.com/yourwellnessgirly/site-tools/internal/processor"
	"github.com/yourwellnessgirly/site-tools/internal/profile"
	"github.com/yourwellnessgirly/site-tools/internal/storage/file"
)

type recordingPublisher struct {
	keys      []string
	fail      bool
	failAfter int // fail once this many objects were stored, when > 0
}

func (p *recordingPublisher) Save(ctx context.Context, subdir, filename string, src io.Reader) (string, error) {
	if p.fail || (p.failAfter > 0 && len(p.keys) == p.failAfter) {
		return "", errors.New("bucket unavailable")
	}
	if _, err := io.ReadAll(src); err != nil {
		return "", err
	}
	key := path.Join("images/recipes", subdir, filename)
	p.keys = append(p.keys, key)
	return key, nil
}

func (p *recordingPublisher) Delete(ctx context.Context, subdir, filename string) error {
	key := path.Join("images/recipes", subdir, filename)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
	return nil
}

func newTestService(t *testing.T, src image.Image) (*Service, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	if src != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, src); err != nil {
			t.Fatalf("png.Encode() error = %v", err)
		}
		if err := afero.WriteFile(fsys, "/in/brownie.png", buf.Bytes(), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	outputs := file.NewStorage(fsys, "/out")
	p := processor.New(outputs, processor.NewJPEGEncoder(85), processor.NewWebPEncoder(80))

	return NewService(file.NewStorage(fsys, ""), outputs, p), fsys
}

func TestGenerateHeroFromWideSource(t *testing.T) {
	svc, fsys := newTestService(t, imaging.New(1000, 800, color.NRGBA{R: 150, G: 90, B: 40, A: 255}))

	res, err := svc.Generate(context.Background(), Request{
		Input:   "/in/brownie.png",
		Recipe:  "brownie-batter-bars",
		Profile: profile.Hero,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.BaseName != "brownie" {
		t.Errorf("BaseName = %q, want brownie", res.BaseName)
	}
	if res.Source != image.Pt(1000, 800) {
		t.Errorf("Source = %v, want (1000,800)", res.Source)
	}
	if len(res.Variants) != 8 {
		t.Fatalf("got %d variants, want 8", len(res.Variants))
	}

	for i, v := range res.Variants {
		bucket := res.Profile.Buckets[i/2]
		wantFormat := model.FormatJPEG
		if i%2 == 1 {
			wantFormat = model.FormatWebP
		}

		wantPath := "/out/brownie-batter-bars/" + model.VariantName("brownie", bucket.Label, wantFormat)
		if v.Path != wantPath || v.Format != wantFormat {
			t.Errorf("variants[%d] = %s %s, want %s %s", i, v.Format, v.Path, wantFormat, wantPath)
		}

		if ok, _ := afero.Exists(fsys, v.Path); !ok {
			t.Errorf("%s was not written", v.Path)
			continue
		}

		if wantFormat != model.FormatJPEG {
			continue
		}
		f, _ := fsys.Open(v.Path)
		cfg, err := jpeg.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", v.Path, err)
		}
		if cfg.Width != bucket.Width || cfg.Height != bucket.Height {
			t.Errorf("%s is %dx%d, want %dx%d", v.Path, cfg.Width, cfg.Height, bucket.Width, bucket.Height)
		}
	}
}

func TestGenerateUnknownProfileTouchesNothing(t *testing.T) {
	svc, fsys := newTestService(t, imaging.New(100, 100, color.White))

	_, err := svc.Generate(context.Background(), Request{Input: "/in/brownie.png", Recipe: "r", Profile: "banner"})
	if !errors.Is(err, profile.ErrUnknownProfile) {
		t.Fatalf("Generate() error = %v, want ErrUnknownProfile", err)
	}

	if ok, _ := afero.DirExists(fsys, "/out"); ok {
		t.Error("output directory created for unknown profile")
	}
}

func TestGenerateMissingSource(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Generate(context.Background(), Request{Input: "/in/missing.jpg", Recipe: "r", Profile: profile.Card})
	if err == nil {
		t.Fatal("Generate() expected error for missing source")
	}
}

func TestGenerateUndecodableSource(t *testing.T) {
	svc, fsys := newTestService(t, nil)
	if err := afero.WriteFile(fsys, "/in/broken.jpg", []byte("not a jpeg"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := svc.Generate(context.Background(), Request{Input: "/in/broken.jpg", Recipe: "r", Profile: profile.Card})
	if err == nil {
		t.Fatal("Generate() expected decode error")
	}
	if ok, _ := afero.DirExists(fsys, "/out/r"); ok {
		t.Error("variants written for undecodable source")
	}
}

func TestGenerateRejectsBadRecipeName(t *testing.T) {
	svc, _ := newTestService(t, imaging.New(100, 100, color.White))

	for _, recipe := range []string{"", "..", "a/b", " "} {
		if _, err := svc.Generate(context.Background(), Request{Input: "/in/brownie.png", Recipe: recipe, Profile: profile.Card}); err == nil {
			t.Errorf("Generate(recipe=%q) expected error", recipe)
		}
	}
}

func TestGeneratePublishes(t *testing.T) {
	svc, _ := newTestService(t, imaging.New(640, 480, color.White))
	pub := &recordingPublisher{}
	svc.WithPublisher(pub)

	res, err := svc.Generate(context.Background(), Request{Input: "/in/brownie.png", Recipe: "bars", Profile: profile.Process})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{
		"images/recipes/bars/brownie-400.jpg",
		"images/recipes/bars/brownie-400.webp",
		"images/recipes/bars/brownie-800.jpg",
		"images/recipes/bars/brownie-800.webp",
	}
	if len(res.Remote) != len(want) {
		t.Fatalf("Remote = %v, want %v", res.Remote, want)
	}
	for i := range want {
		if res.Remote[i] != want[i] {
			t.Errorf("Remote[%d] = %q, want %q", i, res.Remote[i], want[i])
		}
	}
}

func TestGeneratePublishFailureFails(t *testing.T) {
	svc, _ := newTestService(t, imaging.New(640, 480, color.White))
	svc.WithPublisher(&recordingPublisher{fail: true})

	if _, err := svc.Generate(context.Background(), Request{Input: "/in/brownie.png", Recipe: "bars", Profile: profile.Card}); err == nil {
		t.Fatal("Generate() expected publish error")
	}
}

func TestGeneratePartialPublishIsRolledBack(t *testing.T) {
	svc, _ := newTestService(t, imaging.New(640, 480, color.White))
	pub := &recordingPublisher{failAfter: 3}
	svc.WithPublisher(pub)

	if _, err := svc.Generate(context.Background(), Request{Input: "/in/brownie.png", Recipe: "bars", Profile: profile.Hero}); err == nil {
		t.Fatal("Generate() expected publish error")
	}
	if len(pub.keys) != 0 {
		t.Errorf("objects left in bucket: %v", pub.keys)
	}
}

func TestGenerateTrimsRecipeName(t *testing.T) {
	svc, fsys := newTestService(t, imaging.New(640, 480, color.White))

	res, err := svc.Generate(context.Background(), Request{Input: "/in/brownie.png", Recipe: " bars ", Profile: profile.Card})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.Recipe != "bars" {
		t.Errorf("Recipe = %q, want bars", res.Recipe)
	}
	if ok, _ := afero.Exists(fsys, "/out/bars/brownie-600.jpg"); !ok {
		t.Error("variants not written under the trimmed recipe folder")
	}
}
