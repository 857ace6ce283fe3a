package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func encodedTile(t *testing.T, size int, background, center color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, background)
		}
	}
	img.Set(size/2, size/2, center)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeRGBA(t *testing.T, data []byte, x, y int) color.RGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestWhitenBackground(t *testing.T) {
	navy := color.RGBA{R: 20, G: 30, B: 80, A: 255}

	cases := []struct {
		name       string
		background color.RGBA
		want       color.RGBA
	}{
		{"bright backdrop turns white", color.RGBA{R: 245, G: 245, B: 245, A: 255}, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"dark backdrop untouched", color.RGBA{R: 90, G: 90, B: 90, A: 255}, color.RGBA{R: 90, G: 90, B: 90, A: 255}},
		{"transition zone blends", color.RGBA{R: 230, G: 230, B: 230, A: 255}, color.RGBA{R: 249, G: 249, B: 249, A: 255}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := WhitenBackground(encodedTile(t, 8, tc.background, navy), DefaultBackgroundOptions)
			require.NoError(t, err)
			assert.Equal(t, tc.want, decodeRGBA(t, out, 0, 0))
			assert.Equal(t, navy, decodeRGBA(t, out, 4, 4))
		})
	}
}

func TestWhitenBackgroundProtectsCenter(t *testing.T) {
	light := color.RGBA{R: 250, G: 250, B: 250, A: 255}
	out, err := WhitenBackground(encodedTile(t, 8, light, light), DefaultBackgroundOptions)
	require.NoError(t, err)
	assert.Equal(t, light, decodeRGBA(t, out, 4, 4))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, decodeRGBA(t, out, 0, 7))
}

func TestWhitenBackgroundRejectsBadInput(t *testing.T) {
	_, err := WhitenBackground([]byte("not an image"), DefaultBackgroundOptions)
	assert.Error(t, err)

	tile := encodedTile(t, 4, color.RGBA{A: 255}, color.RGBA{A: 255})
	_, err = WhitenBackground(tile, BackgroundOptions{Lower: 240, Upper: 200, Protect: 0.5})
	assert.Error(t, err)
	_, err = WhitenBackground(tile, BackgroundOptions{Lower: 200, Upper: 240, Protect: 1.5})
	assert.Error(t, err)
}

func TestGenerateClothingImageWhitensBackground(t *testing.T) {
	tile := encodedTile(t, 8, color.RGBA{R: 245, G: 245, B: 245, A: 255}, color.RGBA{R: 20, G: 30, B: 80, A: 255})
	srv := fakeGemini(t, func(model, prompt string) (int, map[string]any) {
		return http.StatusOK, imageResponse("image/png", tile)
	})
	stylist := newTestStylist(t, srv.URL, nil)
	stylist.whiten = true

	generated, err := stylist.GenerateClothingImage(context.Background(), "Navy blazer")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(generated.ImageURL, "data:image/png;base64,"))

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(generated.ImageURL, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, decodeRGBA(t, data, 0, 0))
}

func TestGenerateClothingImageKeepsUndecodableImage(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	srv := fakeGemini(t, func(model, prompt string) (int, map[string]any) {
		return http.StatusOK, imageResponse("image/webp", raw)
	})
	stylist, err := NewGoogleStylist(context.Background(), StylistConfig{
		APIKey:           "fake-key",
		BaseURL:          srv.URL,
		TextModel:        "text-model",
		ImageModel:       "image-model",
		WhitenBackground: true,
	}, zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	generated, err := stylist.GenerateClothingImage(context.Background(), "Navy blazer")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", generated.MIMEType)
	assert.Equal(t, "data:image/webp;base64,"+base64.StdEncoding.EncodeToString(raw), generated.ImageURL)
}
