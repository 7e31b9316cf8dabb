package oss

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func TestConvertToWebPResizesKeepingAspect(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 400, 200)), WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestConvertToWebPRejectsNonImage(t *testing.T) {
	_, err := ConvertToWebP(bytes.NewReader([]byte("just some text")), DefaultWebPOptions)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestLocalBlobServiceRoundTrip(t *testing.T) {
	root := t.TempDir()
	svc := NewLocalBlobService(root, "/media")
	ctx := context.Background()

	url, err := svc.UploadAny(ctx, "materials/abc", fileHeader(t, "file", "notes week 1.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Contains(t, url, "/media/materials/abc/")
	assert.Contains(t, url, "notes_week_1.pdf")

	key, err := svc.KeyFromPublicURL(url)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByPublicURL(ctx, url))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalBlobServiceImageIsStoredAsWebP(t *testing.T) {
	svc := NewLocalBlobService(t.TempDir(), "/media")
	url, err := svc.UploadImage(context.Background(), "class_images", fileHeader(t, "image", "cover.png", pngBytes(t, 20, 20)))
	require.NoError(t, err)
	assert.Equal(t, ".webp", filepath.Ext(url))
}

func TestLocalBlobServiceRejectsUnknownType(t *testing.T) {
	svc := NewLocalBlobService(t.TempDir(), "/media")
	_, err := svc.UploadAny(context.Background(), "x", fileHeader(t, "file", "run.exe", []byte("MZ")))
	assert.Error(t, err)
}

func TestKeyFromPublicURLRejectsTraversal(t *testing.T) {
	svc := NewLocalBlobService(t.TempDir(), "/media")
	_, err := svc.KeyFromPublicURL("/media/../etc/passwd")
	assert.Error(t, err)
	_, err = svc.KeyFromPublicURL("https://elsewhere/x.png")
	assert.Error(t, err)
}
