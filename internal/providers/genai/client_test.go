package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nanobanana/internal/domain"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := NewClient(Options{APIKey: "test-key", BaseURL: url, Model: "gemini-test"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestEditImageSendsExpectedPayload(t *testing.T) {
	source := domain.UploadedImage{MIMEType: domain.MIMETypeJPEG, Data: []byte{0xff, 0xd8, 0xff}}
	result := []byte{0x89, 0x50, 0x4e, 0x47}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("unexpected key: %s", got)
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		contents := raw["contents"].([]any)
		first := contents[0].(map[string]any)
		if first["role"] != "user" {
			t.Errorf("unexpected role: %v", first["role"])
		}
		parts := first["parts"].([]any)
		if parts[0].(map[string]any)["text"] != "make it pop" {
			t.Errorf("unexpected prompt part: %v", parts[0])
		}
		inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
		if inline["mimeType"] != "image/jpeg" || inline["data"] != base64.StdEncoding.EncodeToString(source.Data) {
			t.Errorf("unexpected inline data: %v", inline)
		}
		modalities := raw["generationConfig"].(map[string]any)["responseModalities"].([]any)
		if len(modalities) != 2 || modalities[0] != "TEXT" || modalities[1] != "IMAGE" {
			t.Errorf("unexpected modalities: %v", modalities)
		}
		sys := raw["systemInstruction"].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"]
		if sys != "be a banana" {
			t.Errorf("unexpected system instruction: %v", sys)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": "here you go"},
					map[string]any{"inlineData": map[string]any{"mimeType": "image/png", "data": base64.StdEncoding.EncodeToString(result)}},
				}},
			}},
		})
	}))
	defer ts.Close()

	img, err := newTestClient(t, ts.URL).EditImage(context.Background(), EditRequest{
		Prompt:            "make it pop",
		SystemInstruction: "be a banana",
		Image:             source,
	})
	if err != nil {
		t.Fatalf("EditImage error: %v", err)
	}
	if img.MIMEType != domain.MIMETypePNG || string(img.Data) != string(result) {
		t.Fatalf("unexpected image: %+v", img)
	}
}

func TestEditImageStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted"}}`))
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).EditImage(context.Background(), EditRequest{
		Prompt: "prompt",
		Image:  domain.UploadedImage{MIMEType: domain.MIMETypePNG, Data: []byte{1}},
	})
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("error missing details: %v", err)
	}
}

func TestEditImageWithoutImagePart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"I cannot do that"}]},"finishReason":"SAFETY"}]}`))
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).EditImage(context.Background(), EditRequest{
		Prompt: "prompt",
		Image:  domain.UploadedImage{MIMEType: domain.MIMETypePNG, Data: []byte{1}},
	})
	if !errors.Is(err, domain.ErrNoImageInResponse) {
		t.Fatalf("expected ErrNoImageInResponse, got %v", err)
	}
	if !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected finish reason in error: %v", err)
	}
}

func TestExtractImageVariants(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "no candidates", body: `{"candidates":[]}`, wantErr: true},
		{name: "blocked prompt", body: `{"promptFeedback":{"blockReason":"OTHER"}}`, wantErr: true},
		{name: "bad base64", body: `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"***"}}]}}]}`, wantErr: true},
		{name: "image after text", body: `{"candidates":[{"content":{"parts":[{"text":"x"},{"inlineData":{"data":"AQID"}}]}}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var resp geminiGenerateContentResponse
			if err := json.Unmarshal([]byte(tc.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			img, err := extractImage(resp)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrNoImageInResponse) {
					t.Fatalf("expected ErrNoImageInResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(img.Data) != 3 {
				t.Fatalf("unexpected payload: %v", img.Data)
			}
		})
	}
}

func TestExtractImageKeepsReportedMIMEType(t *testing.T) {
	tests := []struct {
		reported string
		want     string
	}{
		{reported: "image/jpeg", want: domain.MIMETypeJPEG},
		{reported: "image/png", want: domain.MIMETypePNG},
		{reported: "", want: domain.MIMETypePNG},
		{reported: "application/octet-stream", want: domain.MIMETypePNG},
	}
	for _, tc := range tests {
		resp := geminiGenerateContentResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{InlineData: &geminiInlineData{MimeType: tc.reported, Data: "AQID"}}}},
		}}}
		img, err := extractImage(resp)
		if err != nil {
			t.Fatalf("extractImage(%q): %v", tc.reported, err)
		}
		if img.MIMEType != tc.want {
			t.Fatalf("extractImage(%q) mime = %q, want %q", tc.reported, img.MIMEType, tc.want)
		}
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestRedactKey(t *testing.T) {
	got := redactKey(`Post "https://x/models/m?key=secret": dial tcp`, "secret")
	if strings.Contains(got, "secret") {
		t.Fatalf("key not redacted: %s", got)
	}
}
