package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleDocs() map[string]*Node {
	return map[string]*Node{
		"empty": Doc(Paragraph()),
		"plain": Doc(Paragraph(Text("Find the radius."))),
		"marks": Doc(Paragraph(
			Text("solve "),
			Text("carefully", MarkStrong, MarkEm),
			Text(" now", MarkEm),
		)),
		"formula": Doc(Paragraph(Text("where "), Formula(`x^2+y^2=r^2`), Text("."))),
		"lists": Doc(
			Paragraph(Text("Options:")),
			BulletList(ListItem(Paragraph(Text("one"))), ListItem(Paragraph(Formula(`\frac{1}{2}`)))),
			OrderedList(ListItem(Paragraph())),
		),
		"image":       Doc(Paragraph(Image("https://cdn.example/a.png", "diagram"))),
		"placeholder": Doc(Paragraph(Placeholder("table", "a b"))),
		"awkward source": Doc(Paragraph(
			Formula("\\text{\"quoted\"} < 1 & \r\n \u2028 \x00 \\\\"),
			Formula(""),
			Formula("  spaced  "),
		)),
	}
}

func TestSerialize_RoundTripIsStable(t *testing.T) {
	for name, doc := range sampleDocs() {
		t.Run(name, func(t *testing.T) {
			s := Serialize(doc)
			parsed, issues := Parse(s)
			if len(issues) != 0 {
				t.Fatalf("issues parsing own output: %v", issues)
			}
			if got := Serialize(parsed); got != s {
				t.Fatalf("round trip changed value:\n got: %s\nwant: %s", got, s)
			}
		})
	}
}

func TestSerialize_FormulaSourceIsByteExact(t *testing.T) {
	src := "\\text{\"quoted\"} < 1 & \r\n \u2028 \x00 \\\\"
	parsed, _ := Parse(Serialize(Doc(Paragraph(Formula(src)))))
	got := parsed.Content[0].Content[0].Attr(AttrSource)
	if got != src {
		t.Fatalf("source=%q, want %q", got, src)
	}
}

func TestSerialize_EmptyDocIsEmptyString(t *testing.T) {
	if got := Serialize(Doc(Paragraph())); got != "" {
		t.Fatalf("empty doc serialized to %q, want empty", got)
	}
	if got := Serialize(Doc()); got != "" {
		t.Fatalf("doc without blocks serialized to %q, want empty", got)
	}
	doc, issues := Parse("")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if diff := cmp.Diff(Doc(Paragraph()), doc); diff != "" {
		t.Fatalf("parse empty (-want +got):\n%s", diff)
	}
}

func TestSerialize_MarksCanonicalOrder(t *testing.T) {
	a := Serialize(Doc(Paragraph(Text("x", MarkStrong, MarkEm, MarkStrong))))
	b := Serialize(Doc(Paragraph(Text("x", MarkEm, MarkStrong))))
	if a != b {
		t.Fatalf("mark order leaked into serialization:\n%s\n%s", a, b)
	}
	if !strings.Contains(a, `"marks":[{"type":"em"},{"type":"strong"}]`) {
		t.Fatalf("unexpected marks encoding: %s", a)
	}
}

func TestSerialize_FillsDefaultAttrsAndDropsUnknown(t *testing.T) {
	n := &Node{Type: TypeFormula, Attrs: map[string]string{"color": "red"}}
	got := Serialize(Doc(Paragraph(n)))
	want := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"formula","attrs":{"source":""}}]}]}`
	if got != want {
		t.Fatalf("serialize:\n got: %s\nwant: %s", got, want)
	}
}

func TestParse_UnknownNodeBecomesPlaceholder(t *testing.T) {
	in := `{"type":"doc","content":[{"type":"paragraph","content":[` +
		`{"type":"text","text":"a"},` +
		`{"type":"mention","attrs":{"id":7},"content":[{"type":"text","text":"@bob"}]},` +
		`{"type":"text","text":"b"}]}]}`
	doc, issues := Parse(in)

	want := Doc(Paragraph(Text("a"), Placeholder("mention", "@bob"), Text("b")))
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("parse (-want +got):\n%s", diff)
	}
	if len(issues) != 1 || issues[0].Kind != IssueUnknownNode {
		t.Fatalf("issues=%v, want one unknown-node", issues)
	}
	if got, want := issues[0].Path, "content[0].content[1]"; got != want {
		t.Fatalf("issue path=%q, want %q", got, want)
	}
}

func TestParse_UnknownMarkDropped(t *testing.T) {
	in := `{"type":"doc","content":[{"type":"paragraph","content":[` +
		`{"type":"text","text":"a","marks":[{"type":"underline"},{"type":"strong"}]}]}]}`
	doc, issues := Parse(in)
	if got := doc.Content[0].Content[0].Marks; !cmp.Equal(got, []string{MarkStrong}) {
		t.Fatalf("marks=%v, want [strong]", got)
	}
	if len(issues) != 1 || issues[0].Kind != IssueUnknownMark {
		t.Fatalf("issues=%v, want one unknown-mark", issues)
	}
}

func TestParse_NonStringAttrsAreCoerced(t *testing.T) {
	in := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"formula","attrs":{"source":42}}]}]}`
	doc, issues := Parse(in)
	if got := doc.Content[0].Content[0].Attr(AttrSource); got != "42" {
		t.Fatalf("source=%q, want %q", got, "42")
	}
	if len(issues) != 1 || issues[0].Kind != IssueInvalidAttr {
		t.Fatalf("issues=%v, want one invalid-attr", issues)
	}
}

func TestParse_MalformedFallsBackToPlainText(t *testing.T) {
	doc, issues := Parse("{not json\nsecond line")
	want := Doc(Paragraph(Text("{not json")), Paragraph(Text("second line")))
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("parse (-want +got):\n%s", diff)
	}
	if len(issues) != 1 || issues[0].Kind != IssueMalformed {
		t.Fatalf("issues=%v, want one malformed", issues)
	}
}

func TestParse_LegacyPlainText(t *testing.T) {
	doc, issues := Parse("What is 2+2?")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if got := doc.TextContent(); got != "What is 2+2?" {
		t.Fatalf("text=%q", got)
	}
}

func TestParse_RootWithoutDocIsWrapped(t *testing.T) {
	doc, issues := Parse(`{"type":"formula","attrs":{"source":"a"}}`)
	want := Doc(Paragraph(Formula("a")))
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("parse (-want +got):\n%s", diff)
	}
	if len(issues) != 1 || issues[0].Kind != IssueInvalidContent {
		t.Fatalf("issues=%v", issues)
	}
}

func TestParse_ArrayRootIsDocContent(t *testing.T) {
	doc, _ := Parse(`[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]`)
	want := Doc(Paragraph(Text("hi")))
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("parse (-want +got):\n%s", diff)
	}
}

func TestParse_ArrayOfValuesIsPlainText(t *testing.T) {
	for _, in := range []string{"[0, 1]", "[]", `["a", {"type":"paragraph"}]`, "[1, 2)"} {
		doc, issues := Parse(in)
		want := Doc(Paragraph(Text(in)))
		if diff := cmp.Diff(want, doc); diff != "" {
			t.Fatalf("Parse(%q) (-want +got):\n%s", in, diff)
		}
		for _, is := range issues {
			if is.Kind != IssueMalformed {
				t.Fatalf("Parse(%q) issues=%v", in, issues)
			}
		}
	}
}

func TestParse_MisplacedChildrenAreRewrapped(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		want   *Node
		issues int
	}{
		{
			name: "inline at block level",
			in: `{"type":"doc","content":[{"type":"text","text":"a"},{"type":"formula","attrs":{"source":"x"}},` +
				`{"type":"paragraph","content":[{"type":"text","text":"b"}]},{"type":"text","text":"c"}]}`,
			want:   Doc(Paragraph(Text("a"), Formula("x")), Paragraph(Text("b")), Paragraph(Text("c"))),
			issues: 2,
		},
		{
			name:   "paragraph inside paragraph",
			in:     `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"paragraph","content":[{"type":"text","text":"a"}]}]}]}`,
			want:   Doc(Paragraph(Text("a"))),
			issues: 1,
		},
		{
			name:   "list item at block level",
			in:     `{"type":"doc","content":[{"type":"list_item","content":[{"type":"paragraph"}]}]}`,
			want:   Doc(BulletList(ListItem(Paragraph()))),
			issues: 1,
		},
		{
			name:   "text directly in a list",
			in:     `{"type":"doc","content":[{"type":"bullet_list","content":[{"type":"text","text":"a"}]}]}`,
			want:   Doc(BulletList(ListItem(Paragraph(Text("a"))))),
			issues: 1,
		},
		{
			name:   "unknown node at block level",
			in:     `{"type":"doc","content":[{"type":"table","content":[{"type":"text","text":"t"}]}]}`,
			want:   Doc(Paragraph(Placeholder("table", "t"))),
			issues: 2,
		},
	}
	for _, tc := range cases {
		doc, issues := Parse(tc.in)
		if diff := cmp.Diff(tc.want, doc, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", tc.name, diff)
		}
		if len(issues) != tc.issues {
			t.Fatalf("%s: issues=%v, want %d", tc.name, issues, tc.issues)
		}
		if last := issues[len(issues)-1]; last.Kind != IssueInvalidContent {
			t.Fatalf("%s: last issue=%v, want invalid-content", tc.name, last)
		}
	}
}

func TestParse_UntypedChildBecomesPlaceholder(t *testing.T) {
	doc, issues := Parse(`{"type":"doc","content":[{"type":"paragraph","content":["loose"]}]}`)
	want := Doc(Paragraph(Placeholder("", "loose")))
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("parse (-want +got):\n%s", diff)
	}
	if len(issues) != 1 {
		t.Fatalf("issues=%v", issues)
	}
}

func TestParse_NestedListKept(t *testing.T) {
	in := `{"type":"doc","content":[{"type":"bullet_list","content":[{"type":"list_item","content":[` +
		`{"type":"paragraph","content":[{"type":"text","text":"a"}]},` +
		`{"type":"ordered_list","content":[{"type":"list_item","content":[{"type":"paragraph"}]}]}]}]}]}`
	doc, issues := Parse(in)
	want := Doc(BulletList(&Node{Type: TypeListItem, Content: []*Node{
		Paragraph(Text("a")),
		OrderedList(ListItem(Paragraph())),
	}}))
	if diff := cmp.Diff(want, doc, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("parse (-want +got):\n%s", diff)
	}
	if len(issues) != 0 {
		t.Fatalf("issues=%v, want none", issues)
	}
}
