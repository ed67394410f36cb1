package schema

import "testing"

func TestRegistry_FormulaIsAtomWithSourceAttr(t *testing.T) {
	ft, ok := Default().Node(TypeFormula)
	if !ok {
		t.Fatalf("formula type missing")
	}
	if !ft.IsAtom() {
		t.Fatalf("formula must be atomic")
	}
	if ft.Group != GroupInline {
		t.Fatalf("formula group=%v, want inline", ft.Group)
	}
	if got := ft.DefaultAttrs()[AttrSource]; got != "" {
		t.Fatalf("default source=%q, want empty", got)
	}
	if ft.View != ViewFormula {
		t.Fatalf("formula view=%q, want %q", ft.View, ViewFormula)
	}
}

func TestRegistry_ContentRules(t *testing.T) {
	cases := []struct {
		parent, child string
		want          bool
	}{
		{TypeDoc, TypeParagraph, true},
		{TypeDoc, TypeText, false},
		{TypeParagraph, TypeFormula, true},
		{TypeParagraph, TypeParagraph, false},
		{TypeBulletList, TypeListItem, true},
		{TypeListItem, TypeParagraph, true},
		{TypeListItem, TypeBulletList, false},
	}
	for _, tc := range cases {
		pt, ok := Default().Node(tc.parent)
		if !ok {
			t.Fatalf("missing type %q", tc.parent)
		}
		if got := pt.Allows(tc.child); got != tc.want {
			t.Fatalf("%s allows %s: got %v, want %v", tc.parent, tc.child, got, tc.want)
		}
	}
}

func TestRegistry_UnknownLookups(t *testing.T) {
	if _, ok := Default().Node("table"); ok {
		t.Fatalf("unexpected table type")
	}
	if _, ok := Default().Mark("underline"); ok {
		t.Fatalf("unexpected underline mark")
	}
}

func TestRegistry_MarkRanks(t *testing.T) {
	em, _ := Default().Mark(MarkEm)
	strong, _ := Default().Mark(MarkStrong)
	if em.Rank >= strong.Rank {
		t.Fatalf("rank em=%d strong=%d, want em first", em.Rank, strong.Rank)
	}
	got := Default().SortMarks([]string{MarkStrong, "bogus", MarkEm, MarkStrong})
	if len(got) != 2 || got[0] != MarkEm || got[1] != MarkStrong {
		t.Fatalf("SortMarks=%v", got)
	}
}

func TestNode_WithAttrDoesNotMutate(t *testing.T) {
	f := Formula("a")
	g := f.WithAttr(AttrSource, "b")
	if f.Attr(AttrSource) != "a" || g.Attr(AttrSource) != "b" {
		t.Fatalf("WithAttr mutated original: %q / %q", f.Attr(AttrSource), g.Attr(AttrSource))
	}
}

func TestNode_TextContent(t *testing.T) {
	d := Doc(Paragraph(Text("a"), Formula("x"), Placeholder("t", "b")), BulletList(ListItem(Paragraph(Text("c")))))
	if got := d.TextContent(); got != "abc" {
		t.Fatalf("TextContent=%q, want %q", got, "abc")
	}
}
