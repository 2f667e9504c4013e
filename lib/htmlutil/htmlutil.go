package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var looksLikeHtml = regexp.MustCompile(`(?i)<(!doctype|html|head|body|script)\b`)

// ScriptText narrows an html document down to the concatenated contents of its
// <script> elements, which is where pages embed their serialized page state.
//
// Text that is not html or that has no scripts is returned unchanged, so
// callers can always run their patterns over the result.
func ScriptText(document string) string {
	if !looksLikeHtml.MatchString(document) {
		return document
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return document
	}

	var out strings.Builder
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			out.WriteString(GetText(node))
			out.WriteByte('\n')
		}
	})
	if out.Len() == 0 {
		return document
	}
	return out.String()
}
