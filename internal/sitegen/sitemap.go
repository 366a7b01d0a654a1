/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package sitegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/fulmenhq/docguard/internal/manifest"
)

// treeNode is one level of the navigation hierarchy.
type treeNode struct {
	name     string
	doc      *manifest.DocumentRecord
	children map[string]*treeNode
}

func buildTree(snap *manifest.Snapshot) *treeNode {
	root := &treeNode{children: map[string]*treeNode{}}
	for i := range snap.Documents {
		doc := &snap.Documents[i]
		parts := strings.Split(doc.Path, "/")
		cur := root
		for j, part := range parts {
			if cur.children[part] == nil {
				cur.children[part] = &treeNode{name: part, children: map[string]*treeNode{}}
			}
			cur = cur.children[part]
			if j == len(parts)-1 {
				cur.doc = doc
			}
		}
	}
	return root
}

func sortedChildren(n *treeNode) []*treeNode {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*treeNode, len(names))
	for i, name := range names {
		out[i] = n.children[name]
	}
	return out
}

// SiteMapMarkdown renders the hierarchical site map. Output is purely a
// function of the snapshot and alphabetically ordered, so repeated runs
// on an unchanged manifest are byte-identical.
func SiteMapMarkdown(snap *manifest.Snapshot) string {
	var b strings.Builder
	b.WriteString("# Site Map\n\n")
	b.WriteString(fmt.Sprintf("%d documents.\n\n", snap.Counts.Total))
	writeTreeLevel(&b, buildTree(snap), 0)
	return b.String()
}

func writeTreeLevel(b *strings.Builder, n *treeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, child := range sortedChildren(n) {
		if child.doc != nil {
			label := child.doc.Title
			if label == "" {
				label = child.name
			}
			suffix := ""
			if child.doc.IsRedirect {
				suffix = " *(redirect)*"
			} else if child.doc.Orphan {
				suffix = " *(unreadable)*"
			}
			fmt.Fprintf(b, "%s- [%s](%s)%s\n", indent, label, child.doc.Path, suffix)
		} else {
			fmt.Fprintf(b, "%s- **%s/**\n", indent, child.name)
		}
		writeTreeLevel(b, child, depth+1)
	}
}

// SiteMapXML renders the machine-readable sitemap. Paths are relative;
// a downstream renderer prepends its own base URL.
func SiteMapXML(snap *manifest.Snapshot) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", "http://www.sitemaps.org/schemas/sitemap/0.9")

	for i := range snap.Documents {
		rec := &snap.Documents[i]
		if rec.IsRedirect || rec.Orphan {
			continue
		}
		url := urlset.CreateElement("url")
		url.CreateElement("loc").SetText(rec.Path)
		if !rec.UpdatedAt.IsZero() {
			url.CreateElement("lastmod").SetText(rec.UpdatedAt.Format("2006-01-02"))
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// IndexRegion renders the generated block merged into aggregate index
// documents: top-level sections with their document counts and entries.
func IndexRegion(snap *manifest.Snapshot) string {
	var b strings.Builder
	b.WriteString("## Document Index\n\n")

	root := buildTree(snap)
	for _, child := range sortedChildren(root) {
		if child.doc != nil {
			label := child.doc.Title
			if label == "" {
				label = child.name
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", label, child.doc.Path)
			continue
		}
		fmt.Fprintf(&b, "- **%s/** (%d)\n", child.name, countDocs(child))
		for _, grand := range sortedChildren(child) {
			if grand.doc != nil {
				label := grand.doc.Title
				if label == "" {
					label = grand.name
				}
				fmt.Fprintf(&b, "  - [%s](%s)\n", label, grand.doc.Path)
			}
		}
	}
	return b.String()
}

func countDocs(n *treeNode) int {
	total := 0
	if n.doc != nil {
		total++
	}
	for _, child := range n.children {
		total += countDocs(child)
	}
	return total
}
