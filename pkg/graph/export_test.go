package graph

import (
	"strings"
	"testing"
)

func TestWriteGEXFIncludesNodesAndEdges(t *testing.T) {
	g, err := NewGraph(1, intSimilarity())
	if err != nil {
		t.Fatal(err)
	}
	g.AddNode("a", 1)
	g.AddNode("b", 2)
	link(g, "a", "b", 0.5)

	var buf strings.Builder
	if err := WriteGEXF(&buf, g, nil); err != nil {
		t.Fatalf("WriteGEXF() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("output does not start with an XML declaration:\n%s", out)
	}
	if !strings.Contains(out, `id="a"`) || !strings.Contains(out, `id="b"`) {
		t.Errorf("output missing expected node ids:\n%s", out)
	}
	if !strings.Contains(out, `source="a"`) || !strings.Contains(out, `target="b"`) {
		t.Errorf("output missing expected edge:\n%s", out)
	}
}

func TestWriteGEXFEscapesLabels(t *testing.T) {
	g, err := NewGraph(1, intSimilarity())
	if err != nil {
		t.Fatal(err)
	}
	g.AddNode("a", 1)

	var buf strings.Builder
	err = WriteGEXF(&buf, g, func(int) string { return `<tag> & "quote"` })
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<tag>") {
		t.Errorf("label should have been escaped:\n%s", buf.String())
	}
}
