package inference

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestFromGenAIFlattensFirstCandidate(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "planning the answer", Thought: true},
						{Text: "Floods hit "},
						{Text: "Nairobi."},
						{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 0x50}}},
						{InlineData: &genai.Blob{MIMEType: "image/png"}},
					},
				},
				GroundingMetadata: &genai.GroundingMetadata{
					GroundingChunks: []*genai.GroundingChunk{
						{Web: &genai.GroundingChunkWeb{Title: "Daily Nation", URI: "https://nation.africa/a"}},
						{},
						{Web: &genai.GroundingChunkWeb{URI: "https://standardmedia.co.ke/b"}},
					},
				},
			},
			{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "ignored"}}},
			},
		},
	}

	out := fromGenAI(resp)
	if out.Text != "Floods hit Nairobi." {
		t.Fatalf("unexpected text %q", out.Text)
	}
	if len(out.Images) != 1 || out.Images[0].MIMEType != "image/png" || len(out.Images[0].Data) != 2 {
		t.Fatalf("unexpected images %+v", out.Images)
	}
	if len(out.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(out.Citations))
	}
	if out.Citations[0].Title != "Daily Nation" || out.Citations[1].Title != "" {
		t.Fatalf("unexpected citations %+v", out.Citations)
	}
}

func TestFromGenAIEmpty(t *testing.T) {
	t.Parallel()

	for _, resp := range []*genai.GenerateContentResponse{nil, {}, {Candidates: []*genai.Candidate{nil}}} {
		out := fromGenAI(resp)
		if out == nil || out.Text != "" || len(out.Images) != 0 || len(out.Citations) != 0 {
			t.Fatalf("expected empty response, got %+v", out)
		}
	}
}

func TestGeminiWithoutKeyIsNotReady(t *testing.T) {
	t.Parallel()

	g, err := NewGemini(context.Background(), GeminiConfig{})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if !errors.Is(g.Ready(), ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", g.Ready())
	}
	if _, err := g.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials from Generate, got %v", err)
	}
	if g.textModel != DefaultGeminiTextModel || g.imageModel != DefaultGeminiImageModel {
		t.Fatalf("unexpected default models %q %q", g.textModel, g.imageModel)
	}
}

func TestGeminiSendsImageAspectRatio(t *testing.T) {
	t.Parallel()

	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		if !strings.Contains(r.URL.Path, DefaultGeminiImageModel) {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"inlineData":{"mimeType":"image/png","data":"cG5n"}}]}}]}`))
	}))
	defer server.Close()

	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	resp, err := g.Generate(context.Background(), Request{
		Prompt: "newsroom at dawn",
		Image:  &ImageOptions{AspectRatio: "16:9"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Images) != 1 || string(resp.Images[0].Data) != "png" {
		t.Fatalf("unexpected images %+v", resp.Images)
	}

	var sent struct {
		GenerationConfig struct {
			ResponseModalities []string `json:"responseModalities"`
			ImageConfig        struct {
				AspectRatio string `json:"aspectRatio"`
			} `json:"imageConfig"`
		} `json:"generationConfig"`
	}
	if err := json.Unmarshal(<-bodies, &sent); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if sent.GenerationConfig.ImageConfig.AspectRatio != "16:9" {
		t.Fatalf("aspect ratio not sent: %+v", sent.GenerationConfig)
	}
	if len(sent.GenerationConfig.ResponseModalities) != 2 {
		t.Fatalf("unexpected modalities %v", sent.GenerationConfig.ResponseModalities)
	}
}
