package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"

	"shop-api/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

type stubCategoryRepo struct {
	calls []string
}

func (s *stubCategoryRepo) Upsert(_ context.Context, name string) (*domain.Category, error) {
	s.calls = append(s.calls, name)
	return &domain.Category{ID: int64(len(s.calls)), Name: name}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,description,price,category,image,color,color_code
Linen Shirt,Light summer shirt,39.9,Shirts,shirt-white.png,white,#ffffff
,,,,shirt-blue.png,blue,#0000ff
Canvas Tote,Everyday bag,12,Bags,tote.png,,
Denim Shirt,Washed denim,49.50,Shirts,,,
`
	repo := &stubProductRepo{}
	cats := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, cats, nil)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	shirts, bags := int64(1), int64(2)
	want := []domain.Product{
		{
			CategoryID:  &shirts,
			Name:        "Linen Shirt",
			Description: "Light summer shirt",
			Price:       decimal.RequireFromString("39.90"),
			Images: []domain.ProductImage{
				{Image: "shirt-white.png", Color: "white", ColorCode: "#ffffff"},
				{Image: "shirt-blue.png", Color: "blue", ColorCode: "#0000ff"},
			},
		},
		{
			CategoryID:  &bags,
			Name:        "Canvas Tote",
			Description: "Everyday bag",
			Price:       decimal.RequireFromString("12"),
			Images:      []domain.ProductImage{{Image: "tote.png"}},
		},
		{
			CategoryID:  &shirts,
			Name:        "Denim Shirt",
			Description: "Washed denim",
			Price:       decimal.RequireFromString("49.5"),
		},
	}
	opts := cmp.Options{
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(want, repo.items, opts); diff != "" {
		t.Fatalf("imported products mismatch (-want +got):\n%s", diff)
	}
	if len(cats.calls) != 2 {
		t.Fatalf("expected categories to be upserted once each, got %v", cats.calls)
	}
}

func TestCSVImporter_InvalidPrice(t *testing.T) {
	csvData := `name,price
Broken,abc
`
	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}, &stubCategoryRepo{}, nil)

	_, err := imp.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected invalid price error on line 2, got %v", err)
	}
}

func TestCSVImporter_MissingNameColumn(t *testing.T) {
	imp := NewCSVImporter(strings.NewReader("title,price\nx,1\n"), &stubProductRepo{}, &stubCategoryRepo{}, nil)
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected header error")
	}
}

func TestCSVImporter_RepoError(t *testing.T) {
	boom := errors.New("db down")
	imp := NewCSVImporter(strings.NewReader("name,price\nMug,5\n"), &stubProductRepo{err: boom}, &stubCategoryRepo{}, nil)

	count, err := imp.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected nothing imported, got %d", count)
	}
}
