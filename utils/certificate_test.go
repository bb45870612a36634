package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"bibleapp/config"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestParseCertificateMetadata(t *testing.T) {
	meta := ParseCertificateMetadata(nil)
	assert.Empty(t, meta.Color)
	assert.Nil(t, meta.Position)

	meta = ParseCertificateMetadata(datatypes.JSON(`{"color":"#1a2b3c","position":{"x":120,"y":340}}`))
	assert.Equal(t, "#1a2b3c", meta.Color)
	require.NotNil(t, meta.Position)
	assert.Equal(t, 120.0, meta.Position.X)
	assert.Equal(t, 340.0, meta.Position.Y)

	// Malformed metadata degrades to defaults instead of failing the render.
	meta = ParseCertificateMetadata([]byte(`{not json`))
	assert.Empty(t, meta.Color)
	assert.Nil(t, meta.Position)
}

func TestRenderCertificate(t *testing.T) {
	config.LoadConfig()
	dir := t.TempDir()

	templatePath := filepath.Join(dir, "template.png")
	require.NoError(t, imaging.Save(imaging.New(300, 150, color.White), templatePath))

	outPath := filepath.Join(dir, "out", "certificate.png")
	meta := ParseCertificateMetadata([]byte(`{"color":"#000000","position":{"x":150,"y":75}}`))

	require.NoError(t, RenderCertificate(templatePath, "Jane Doe", meta, outPath))

	rendered, err := imaging.Open(outPath)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 150), rendered.Bounds())
}

func TestRenderCertificateMissingTemplate(t *testing.T) {
	config.LoadConfig()
	dir := t.TempDir()

	err := RenderCertificate(filepath.Join(dir, "missing.png"), "Jane Doe", CertificateMetadata{}, filepath.Join(dir, "out.png"))
	assert.Error(t, err)
}
