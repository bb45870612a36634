package utils

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"bibleapp/config"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Names are drawn at a fixed size for consistency across templates.
const certificateFontSize = 72

// CertificateMetadata is the per-course layout stored on the courses row:
// the fill color and the anchor position of the recipient's name.
type CertificateMetadata struct {
	Color    string `json:"color"`
	Position *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position"`
}

// ParseCertificateMetadata decodes the stored metadata JSON. Empty or absent
// metadata yields the zero value, which falls back to black text centered on
// the template.
func ParseCertificateMetadata(raw []byte) CertificateMetadata {
	var meta CertificateMetadata
	if len(raw) == 0 {
		return meta
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		log.Printf("Invalid certificate metadata, using defaults: %v", err)
	}
	return meta
}

// RenderCertificate composites fullName onto the template image and writes
// the result as PNG to outPath. The template is drawn unmodified at its
// native dimensions; the name is horizontally centered on the metadata
// anchor, or on the template center when no position is stored.
func RenderCertificate(templatePath, fullName string, meta CertificateMetadata, outPath string) error {
	img, err := imaging.Open(templatePath)
	if err != nil {
		return err
	}

	dc := gg.NewContextForImage(img)
	dc.SetFontFace(certificateFontFace())

	if meta.Color != "" {
		dc.SetHexColor(meta.Color)
	} else {
		dc.SetHexColor("#000000")
	}

	x := float64(dc.Width()) / 2
	y := float64(dc.Height()) / 2
	if meta.Position != nil {
		x = meta.Position.X
		y = meta.Position.Y
	}

	// Match canvas fillText semantics: y is the baseline, x the center.
	w, _ := dc.MeasureString(fullName)
	dc.DrawString(fullName, x-w/2, y)

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	return imaging.Save(dc.Image(), outPath)
}

// certificateFontFace loads the preferred serif face, falling back to the
// secondary face and finally to a built-in face so rendering never fails on
// a missing font file.
func certificateFontFace() font.Face {
	face, err := gg.LoadFontFace(config.AppConfig.CertificateFontPath, certificateFontSize)
	if err == nil {
		return face
	}
	log.Printf("Certificate font unavailable (%v), trying fallback", err)

	face, err = gg.LoadFontFace(config.AppConfig.CertificateFallbackFont, certificateFontSize)
	if err == nil {
		return face
	}
	log.Printf("Fallback certificate font unavailable (%v), using built-in face", err)

	return basicfont.Face7x13
}
