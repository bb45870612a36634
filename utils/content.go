package utils

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var dataImagePattern = regexp.MustCompile(`^data:image/([A-Za-z0-9.+-]+);base64,(.+)$`)

// ExtractInlineImages walks chapter HTML, writes every base64-embedded image
// to uploadDir and rewrites its src to the served /uploads path. The database
// stores paths, not blobs. Content without inline images passes through
// unchanged.
func ExtractInlineImages(content, uploadDir string) (string, error) {
	if !strings.Contains(content, "data:image") {
		return content, nil
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return content, err
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return content, err
	}

	for _, n := range nodes {
		if err := rewriteInlineImages(n, uploadDir); err != nil {
			return content, err
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return content, err
		}
	}
	return buf.String(), nil
}

func rewriteInlineImages(n *html.Node, uploadDir string) error {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" {
				continue
			}
			matches := dataImagePattern.FindStringSubmatch(attr.Val)
			if matches == nil {
				continue
			}

			data, err := base64.StdEncoding.DecodeString(matches[2])
			if err != nil {
				return err
			}

			filename := "post-image-" + uuid.NewString() + "." + matches[1]
			if err := os.WriteFile(filepath.Join(uploadDir, filename), data, 0644); err != nil {
				return err
			}

			n.Attr[i].Val = GetFileURL(filename)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := rewriteInlineImages(c, uploadDir); err != nil {
			return err
		}
	}
	return nil
}
