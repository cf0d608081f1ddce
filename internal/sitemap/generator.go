package sitemap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/yourwellnessgirly/site-tools/internal/model"
)

// fileStorage defines the file operations the generator needs.
type fileStorage interface {
	Load(subdir, filename string) (io.ReadCloser, error)
	WriteAtomic(subdir, filename string, gen func(w io.Writer) error) (string, error)
}

// Summary describes a written sitemap.
type Summary struct {
	Output      string
	StaticCount int
	RecipePaths []string
}

// Generator reads the recipes document and writes the sitemap. It fails as a
// whole: the output is only replaced once the full document was rendered.
type Generator struct {
	storage fileStorage
	builder *Builder
}

// NewGenerator creates a Generator.
func NewGenerator(storage fileStorage, b *Builder) *Generator {
	return &Generator{storage: storage, builder: b}
}

// Run builds the sitemap from recipesPath and writes it to outputPath.
func (g *Generator) Run(ctx context.Context, recipesPath, outputPath string) (Summary, error) {
	recipes, err := g.loadRecipes(recipesPath)
	if err != nil {
		return Summary{}, err
	}

	static := g.builder.Static()
	dynamic, err := g.builder.Recipes(recipes)
	if err != nil {
		return Summary{}, err
	}

	var buf bytes.Buffer
	if err := g.builder.Render(&buf, static, dynamic); err != nil {
		return Summary{}, err
	}

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	dst, err := g.storage.WriteAtomic(filepath.Dir(outputPath), filepath.Base(outputPath), func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
	if err != nil {
		return Summary{}, fmt.Errorf("write sitemap: %w", err)
	}

	paths := make([]string, 0, len(dynamic))
	for _, e := range dynamic {
		paths = append(paths, e.Path)
	}

	return Summary{
		Output:      dst,
		StaticCount: len(static),
		RecipePaths: paths,
	}, nil
}

func (g *Generator) loadRecipes(path string) ([]model.RecipeRecord, error) {
	r, err := g.storage.Load(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("open recipes: %w", err)
	}
	defer r.Close()

	return ParseRecipes(r)
}
