package texrender

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestRender_UnicodeText(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`x^2+y^2=r^2`, "x²+y²=r²"},
		{`a_1 + a_n`, "a₁+aₙ"},
		{`\frac{a+b}{2}`, "(a+b)/2"},
		{`\sqrt{x}`, "√x"},
		{`\sqrt[3]{8}`, "∛8"},
		{`\alpha \le \beta`, "α≤β"},
		{`\mathbb{R}^n`, "ℝⁿ"},
		{`\sin x`, "sin x"},
		{`\text{if } x`, "if x"},
		{`\left( \frac{1}{x} \right)`, "(1/x)"},
		{`\begin{pmatrix}a & b \\ c & d\end{pmatrix}`, "(a b; c d)"},
		{`e^{i\pi}`, "e^(iπ)"},
		{`x^{10}`, "x¹⁰"},
	}
	for _, tc := range cases {
		res := Render(tc.src)
		if !res.OK {
			t.Fatalf("Render(%q) failed: %v", tc.src, res.Err)
		}
		if res.Text != tc.want {
			t.Fatalf("Render(%q).Text=%q, want %q", tc.src, res.Text, tc.want)
		}
		if res.Markup == "" {
			t.Fatalf("Render(%q) returned empty markup", tc.src)
		}
	}
}

func TestRender_CommonCommands(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`\overrightarrow{AB}`, "(AB)\u20d7"},
		{`a \longrightarrow b`, "a⟶b"},
		{`\lbrace x \rbrace`, "{x}"},
		{`\square`, "□"},
		{`\underbrace{a+b}_{n}`, "(a+b)ₙ"},
		{`\xrightarrow{f}`, "→^f"},
		{`\xrightarrow[g]{}`, "→_g"},
		{`\overset{a}{b}`, "b^a"},
		{`\underset{1}{x}`, "x₁"},
		{`\boxed{x}`, "[x]"},
		{`\dagger`, "†"},
		{`\mathscr{L}`, "L"},
		{`a \lt b`, "a<b"},
		{`\begin{array}{cc} a & b \\ \hline c & d \end{array}`, "[a b; c d]"},
		{`\cancel{x}`, "x\u0338"},
		{`p \Longrightarrow q`, "p⟹q"},
		{`a \nmid b`, "a∤b"},
		{`\left\lbrace x \right.`, "{x"},
		{`\textcolor{red}{x}`, "x"},
		{`\color{blue} y`, "y"},
		{`a\hspace{1em}b`, "a b"},
	}
	for _, tc := range cases {
		res := Render(tc.src)
		if !res.OK {
			t.Fatalf("Render(%q) failed: %v", tc.src, res.Err)
		}
		if res.Text != tc.want {
			t.Fatalf("Render(%q).Text=%q, want %q", tc.src, res.Text, tc.want)
		}
	}
}

func TestRender_Failures(t *testing.T) {
	cases := []struct {
		src    string
		offset int
		msg    string
	}{
		{`\notarealcommand{`, 0, "undefined control sequence"},
		{`{x`, 0, "missing }"},
		{`x}`, 1, "unexpected }"},
		{`\frac{1}`, 0, `missing argument for \frac`},
		{`\left( x`, 0, `missing \right`},
		{`x \right)`, 2, `\right without matching \left`},
		{`\begin{matrix} a \end{pmatrix}`, 17, `ended by \end{pmatrix}`},
		{`\begin{foo} a \end{foo}`, 0, "unknown environment"},
		{`a & b`, 2, "misplaced alignment tab"},
		{`x^2^3`, 3, "double superscript"},
		{`x \`, 2, `stray \`},
		{"\xff", 0, "invalid UTF-8"},
	}
	for _, tc := range cases {
		res := Render(tc.src)
		if res.OK {
			t.Fatalf("Render(%q) unexpectedly OK: %q", tc.src, res.Text)
		}
		var se *SyntaxError
		if !errors.As(res.Err, &se) {
			t.Fatalf("Render(%q).Err=%v, want *SyntaxError", tc.src, res.Err)
		}
		if se.Offset != tc.offset {
			t.Fatalf("Render(%q) offset=%d, want %d (%v)", tc.src, se.Offset, tc.offset, se)
		}
		if !strings.Contains(se.Msg, tc.msg) {
			t.Fatalf("Render(%q) msg=%q, want substring %q", tc.src, se.Msg, tc.msg)
		}
		if res.Text != tc.src {
			t.Fatalf("fallback text=%q, want raw source", res.Text)
		}
		if !strings.HasPrefix(res.Markup, `<code class="formula-error">`) {
			t.Fatalf("fallback markup=%q", res.Markup)
		}
	}
}

func TestRender_FallbackMarkupIsEscaped(t *testing.T) {
	res := Render(`<b>\oops`)
	if res.OK {
		t.Fatalf("expected failure")
	}
	if strings.Contains(res.Markup, "<b>") {
		t.Fatalf("markup not escaped: %q", res.Markup)
	}
}

func TestRender_EmptySource(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\t"} {
		res := Render(src)
		if !res.OK || !res.Empty {
			t.Fatalf("Render(%q)=%+v, want OK empty placeholder", src, res)
		}
		if res.Text != EmptyText {
			t.Fatalf("Render(%q).Text=%q, want %q", src, res.Text, EmptyText)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	const src = `\sum_{i=1}^n i = \frac{n(n+1)}{2}`
	first := Render(src)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Render(src); got != first {
				t.Errorf("Render not deterministic: %+v vs %+v", got, first)
			}
		}()
	}
	wg.Wait()
}

func TestValidate(t *testing.T) {
	if err := Validate(`\frac{a}{b}`); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := Validate(""); err != nil {
		t.Fatalf("Validate empty: %v", err)
	}
	if err := Validate(`\frac{a}`); err == nil {
		t.Fatalf("Validate accepted missing argument")
	}
}

func TestRenderAll_IndexAligned(t *testing.T) {
	sources := []string{`x^2`, `\bad`, ``, `\alpha`}
	res, err := RenderAll(context.Background(), nil, sources, 2)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(res) != len(sources) {
		t.Fatalf("len=%d, want %d", len(res), len(sources))
	}
	if res[0].Text != "x²" || res[1].OK || !res[2].Empty || res[3].Text != "α" {
		t.Fatalf("unexpected results: %+v", res)
	}
}

func TestRenderAll_UsesRenderer(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	r := RendererFunc(func(src string) Result {
		mu.Lock()
		seen[src] = true
		mu.Unlock()
		return Result{OK: true, Text: strings.ToUpper(src)}
	})
	res, err := RenderAll(context.Background(), r, []string{"a", "b"}, 0)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if res[0].Text != "A" || res[1].Text != "B" || len(seen) != 2 {
		t.Fatalf("results=%+v seen=%v", res, seen)
	}
}

func TestRenderAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderAll(ctx, nil, []string{"x"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
