package generator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"stickerverse/internal/config"
)

type stubGenerator struct {
	calls atomic.Int32
	ref   string
	err   error
	delay time.Duration
}

func (s *stubGenerator) Generate(ctx context.Context, _ string) (string, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.ref, s.err
}

func TestDisabled_AlwaysFails(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestNew_DisabledProvider(t *testing.T) {
	gen, err := New(config.GeneratorConfig{
		Provider:     config.ImageProviderDisabled,
		Timeout:      time.Second,
		RateInterval: time.Millisecond,
		RateBurst:    1,
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "cat")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(config.GeneratorConfig{Provider: "midjourney"}, zap.NewNop())
	assert.Error(t, err)
}

func TestInstrumented_WrapsErrorsAndAppliesTimeout(t *testing.T) {
	stub := &stubGenerator{delay: time.Second}
	gen := &instrumentedGenerator{next: stub, provider: "stub", timeout: 10 * time.Millisecond, logger: zap.NewNop()}

	_, err := gen.Generate(context.Background(), "cat")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestInstrumented_EmptyReferenceIsFailure(t *testing.T) {
	gen := &instrumentedGenerator{next: &stubGenerator{}, provider: "stub", logger: zap.NewNop()}

	_, err := gen.Generate(context.Background(), "cat")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestInstrumented_PassesReferenceThrough(t *testing.T) {
	gen := &instrumentedGenerator{next: &stubGenerator{ref: "https://img/1.png"}, provider: "stub", logger: zap.NewNop()}

	ref, err := gen.Generate(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "https://img/1.png", ref)
}

func TestRateLimited_HonoursContextCancellation(t *testing.T) {
	stub := &stubGenerator{ref: "ok"}
	gen := NewRateLimited(stub, time.Hour, 1)

	_, err := gen.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Generate(ctx, "second")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, int32(1), stub.calls.Load(), "throttled call must not reach the provider")
}

func TestRateLimited_ZeroIntervalIsUnlimited(t *testing.T) {
	stub := &stubGenerator{ref: "ok"}
	gen := NewRateLimited(stub, 0, 0)

	for i := 0; i < 5; i++ {
		_, err := gen.Generate(context.Background(), "cat")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(5), stub.calls.Load())
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQID", DataURI("image/png", []byte{1, 2, 3}))
}

func TestImageRefFromGenAI(t *testing.T) {
	t.Run("bytes become data uri", func(t *testing.T) {
		ref, err := imageRefFromGenAI(&genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{ImageBytes: []byte{1, 2, 3}, MIMEType: "image/png"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,AQID", ref)
	})

	t.Run("missing mime defaults to png", func(t *testing.T) {
		ref, err := imageRefFromGenAI(&genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{ImageBytes: []byte{1}}}},
		})
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,AQ==", ref)
	})

	t.Run("empty response", func(t *testing.T) {
		_, err := imageRefFromGenAI(&genai.GenerateImagesResponse{})
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("storage uri without bytes", func(t *testing.T) {
		_, err := imageRefFromGenAI(&genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{GCSURI: "gs://bucket/sticker.png"}}},
		})
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("filtered image", func(t *testing.T) {
		_, err := imageRefFromGenAI(&genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{{RAIFilteredReason: "blocked"}},
		})
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})
}

func TestOpenAIGenerator_ReturnsDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	var gotPrompt, gotFormat string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt, _ = body["prompt"].(string)
		gotFormat, _ = body["response_format"].(string)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []map[string]string{{"b64_json": payload}},
		})
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("test-key", "", srv.URL+"/v1", zap.NewNop())
	ref, err := gen.Generate(context.Background(), "a happy cat")
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,"+payload, ref)
	assert.Equal(t, "a happy cat", gotPrompt)
	assert.Equal(t, "b64_json", gotFormat)
}

func TestOpenAIGenerator_ServerErrorIsGenerationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"content policy violation","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("test-key", "dall-e-3", srv.URL+"/v1", zap.NewNop())
	_, err := gen.Generate(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}
