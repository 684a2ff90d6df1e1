package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNGDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func TestPrepareConvertsToJPEG(t *testing.T) {
	svc := NewService(1 << 20)

	out, err := svc.Prepare(testPNGDataURI(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	// 輸出本身也要能通過驗證
	assert.NoError(t, svc.Validate(out))
}

func TestPrepareRejectsGarbage(t *testing.T) {
	svc := NewService(1 << 20)

	tests := []struct {
		name  string
		input string
	}{
		{"not a data uri", "just some text"},
		{"bad base64", "data:image/png;base64,!!!not-base64!!!"},
		{"valid base64 but not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"missing payload", "data:image/png;base64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Prepare(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestPrepareEnforcesSizeLimit(t *testing.T) {
	svc := NewService(16)

	_, err := svc.Prepare(testPNGDataURI(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestValidateAcceptsSupportedFormats(t *testing.T) {
	svc := NewService(1 << 20)
	assert.NoError(t, svc.Validate(testPNGDataURI(t)))
}
