package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrPathRewrite indicates relative path rewriting failed.
var ErrPathRewrite = errors.New("path rewrite failed")

// rewriteTargets maps element names to the attribute holding a
// rewritable path. Scripts are excluded on purpose, and srcset and
// CSS url() references are out of scope.
var rewriteTargets = map[string]string{
	"img": "src",
	"a":   "href",
}

// RewriteRelativePaths converts relative image and link paths into
// absolute file:// URLs resolved against sourceDir, so exported
// documents keep working when rendered or opened away from the source
// markdown. Anchors, data URIs, remote URLs, and absolute paths pass
// through untouched, as does anything that would escape sourceDir.
// An empty sourceDir disables rewriting.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathRewrite, err)
	}

	doc, isFragment, err := parseHTMLTree(htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathRewrite, err)
	}

	rewriteTree(doc, absSourceDir)

	out, err := renderHTMLTree(doc, isFragment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathRewrite, err)
	}
	return out, nil
}

// parseHTMLTree parses HTML content, handling both full documents and
// fragments. Fragments are parsed in body context so they do not grow
// an <html><body> wrapper.
func parseHTMLTree(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	bodyContext := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), bodyContext)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTMLTree renders the tree back to a string. Fragment children
// are rendered directly to keep the output a fragment.
func renderHTMLTree(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteTree walks the DOM and rewrites relative paths on target
// elements.
func rewriteTree(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode {
		if attrName, ok := rewriteTargets[n.Data]; ok {
			rewritePathAttr(n, attrName, sourceDir)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteTree(c, sourceDir)
	}
}

// rewritePathAttr rewrites one attribute when it holds a relative path
// that stays inside sourceDir.
func rewritePathAttr(n *html.Node, attrName, sourceDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(sourceDir, attr.Val)
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// isRelativePath reports whether the value is a rewritable relative
// path rather than a URL, anchor, or absolute path.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}
	if strings.HasPrefix(path, "#") {
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir reports whether absPath sits under dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL, converting
// Windows separators along the way.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
