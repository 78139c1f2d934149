package illustrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/catalog"
	"Unbewohnte/BoldBriefing/internal/inference"
)

type stubOracle struct {
	resp *inference.Response
	err  error
	last inference.Request
}

func (s *stubOracle) Name() string { return "stub" }
func (s *stubOracle) Ready() error { return nil }

func (s *stubOracle) Generate(_ context.Context, req inference.Request) (*inference.Response, error) {
	s.last = req
	return s.resp, s.err
}

func TestCategoryStyle(t *testing.T) {
	t.Parallel()

	cases := map[article.Category]string{
		article.Politics:      BaseStyle + ", symbolic, flags, parliament silhouette, neutral map",
		article.Entertainment: BaseStyle + ", concert lighting, red carpet, cinematic, celebrity silhouette",
		article.ClimateChange: BaseStyle + ", earth from space, weather patterns, nature photography style",
		article.StocksCrypto:  BaseStyle + ", digital finance abstract, blockchain nodes, market graph",
		article.WarsConflict:  BaseStyle + ", map based, neutral topographic, strategic overview, no violence",
		article.Business:      BaseStyle,
		article.AITech:        BaseStyle,
		article.Health:        BaseStyle,
	}
	for category, want := range cases {
		if got := CategoryStyle(category); got != want {
			t.Errorf("CategoryStyle(%s) = %q, want %q", category, got, want)
		}
	}
}

func TestStylePrefersCuratedPrompt(t *testing.T) {
	t.Parallel()

	queries := catalog.Default()
	conf, _ := queries.Get(article.Kenya, article.Health)
	conf.ImagePrompt = "clinic waiting room, warm light"
	queries.Set(article.Kenya, article.Health, conf)

	i := New(&stubOracle{}, queries, "")
	if got := i.Style(article.Kenya, article.Health); got != "clinic waiting room, warm light" {
		t.Fatalf("unexpected curated style %q", got)
	}
	if got := i.Style(article.Global, article.Health); got != BaseStyle {
		t.Fatalf("unexpected derived style %q", got)
	}
}

func TestIllustrateReturnsDataURL(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{resp: &inference.Response{
		Text: "here you go",
		Images: []inference.InlineImage{
			{MIMEType: "image/png"},
			{Data: []byte("abc")},
			{MIMEType: "image/jpeg", Data: []byte("zzz")},
		},
	}}
	i := New(oracle, nil, "")

	summary := strings.Repeat("é", 150)
	got, err := i.Illustrate(context.Background(), article.Brief{
		Headline: "Drought deepens",
		Summary:  summary,
		Category: article.ClimateChange,
		Region:   article.EastAfrica,
	})
	if err != nil {
		t.Fatalf("Illustrate: %v", err)
	}
	if got != "data:image/png;base64,YWJj" {
		t.Fatalf("unexpected data url %q", got)
	}

	if oracle.last.Image == nil || oracle.last.Image.AspectRatio != "16:9" {
		t.Fatalf("expected 16:9 image request, got %+v", oracle.last.Image)
	}
	prompt := oracle.last.Prompt
	if !strings.Contains(prompt, `Headline: "Drought deepens"`) {
		t.Fatalf("prompt lacks headline:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Context: "+strings.Repeat("é", 100)+"\n") {
		t.Fatalf("prompt context not truncated to 100 runes:\n%s", prompt)
	}
	if !strings.Contains(prompt, "earth from space") || !strings.Contains(prompt, "No text overlay") {
		t.Fatalf("prompt lacks style or constraint:\n%s", prompt)
	}
}

func TestIllustrateWithoutImage(t *testing.T) {
	t.Parallel()

	for _, resp := range []*inference.Response{nil, {Text: "sorry, text only"}} {
		i := New(&stubOracle{resp: resp}, nil, "")
		got, err := i.Illustrate(context.Background(), article.Brief{Headline: "x"})
		if err != nil || got != "" {
			t.Fatalf("expected empty result, got %q %v", got, err)
		}
	}
}

func TestIllustrateError(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	i := New(&stubOracle{err: boom}, nil, "")
	got, err := i.Illustrate(context.Background(), article.Brief{Headline: "x"})
	if !errors.Is(err, boom) || got != "" {
		t.Fatalf("expected wrapped error and empty result, got %q %v", got, err)
	}
}
