package texrender

type cmdKind uint8

const (
	cmdSymbol cmdKind = iota
	cmdFunc
	cmdAccent
	cmdFont
	cmdText
	cmdFrac
	cmdBinom
	cmdSqrt
	cmdSpace
	cmdModifier
	cmdLeft
	cmdRight
	cmdBegin
	cmdEnd
	cmdNewline
	cmdPmod
	cmdOverset
	cmdUnderset
	cmdXArrow
	cmdWrap
	cmdPhantom
	cmdSkip
	cmdColor
	cmdTextColor
)

type command struct {
	kind cmdKind
	out  string

	// Closing text for cmdWrap.
	close string
}

func sym(s string) command    { return command{kind: cmdSymbol, out: s} }
func fn(s string) command     { return command{kind: cmdFunc, out: s} }
func accent(s string) command { return command{kind: cmdAccent, out: s} }
func font(s string) command   { return command{kind: cmdFont, out: s} }
func xarrow(s string) command { return command{kind: cmdXArrow, out: s} }
func wrap(open, close string) command {
	return command{kind: cmdWrap, out: open, close: close}
}

var modifier = command{kind: cmdModifier}

// commands is the closed set of control sequences the pipeline accepts.
// Anything else is reported as an undefined control sequence.
var commands = map[string]command{
	// Greek.
	"alpha": sym("α"), "beta": sym("β"), "gamma": sym("γ"), "delta": sym("δ"),
	"epsilon": sym("ϵ"), "varepsilon": sym("ε"), "zeta": sym("ζ"), "eta": sym("η"),
	"theta": sym("θ"), "vartheta": sym("ϑ"), "iota": sym("ι"), "kappa": sym("κ"),
	"lambda": sym("λ"), "mu": sym("μ"), "nu": sym("ν"), "xi": sym("ξ"),
	"pi": sym("π"), "varpi": sym("ϖ"), "rho": sym("ρ"), "varrho": sym("ϱ"),
	"sigma": sym("σ"), "varsigma": sym("ς"), "tau": sym("τ"), "upsilon": sym("υ"),
	"phi": sym("ϕ"), "varphi": sym("φ"), "chi": sym("χ"), "psi": sym("ψ"),
	"omega": sym("ω"),
	"Gamma": sym("Γ"), "Delta": sym("Δ"), "Theta": sym("Θ"), "Lambda": sym("Λ"),
	"Xi": sym("Ξ"), "Pi": sym("Π"), "Sigma": sym("Σ"), "Upsilon": sym("Υ"),
	"Phi": sym("Φ"), "Psi": sym("Ψ"), "Omega": sym("Ω"),

	// Binary operators.
	"pm": sym("±"), "mp": sym("∓"), "times": sym("×"), "div": sym("÷"),
	"cdot": sym("⋅"), "ast": sym("∗"), "star": sym("⋆"), "circ": sym("∘"),
	"bullet": sym("•"), "oplus": sym("⊕"), "ominus": sym("⊖"), "otimes": sym("⊗"),
	"cap": sym("∩"), "cup": sym("∪"), "setminus": sym("∖"), "wedge": sym("∧"),
	"vee": sym("∨"), "land": sym("∧"), "lor": sym("∨"), "neg": sym("¬"),
	"lnot": sym("¬"), "not": sym("¬"),
	"dagger": sym("†"), "dag": sym("†"), "ddagger": sym("‡"), "ddag": sym("‡"),
	"amalg": sym("⨿"), "odot": sym("⊙"), "oslash": sym("⊘"), "bigcirc": sym("◯"),
	"diamond": sym("⋄"), "uplus": sym("⊎"), "sqcap": sym("⊓"), "sqcup": sym("⊔"),
	"wr": sym("≀"), "triangleleft": sym("◁"), "triangleright": sym("▷"),
	"bigtriangleup": sym("△"), "bigtriangledown": sym("▽"), "lhd": sym("⊲"), "rhd": sym("⊳"),
	"unlhd": sym("⊴"), "unrhd": sym("⊵"), "ltimes": sym("⋉"), "rtimes": sym("⋊"),
	"cdotp": sym("⋅"), "centerdot": sym("⋅"), "boxplus": sym("⊞"), "boxminus": sym("⊟"),
	"boxtimes": sym("⊠"), "boxdot": sym("⊡"), "divideontimes": sym("⋇"), "dotplus": sym("∔"),
	"intercal": sym("⊺"), "barwedge": sym("⊼"), "veebar": sym("⊻"),

	// Relations and arrows.
	"le": sym("≤"), "leq": sym("≤"), "ge": sym("≥"), "geq": sym("≥"),
	"ne": sym("≠"), "neq": sym("≠"), "approx": sym("≈"), "equiv": sym("≡"),
	"sim": sym("∼"), "simeq": sym("≃"), "cong": sym("≅"), "propto": sym("∝"),
	"ll": sym("≪"), "gg": sym("≫"), "in": sym("∈"), "notin": sym("∉"),
	"ni": sym("∋"), "subset": sym("⊂"), "supset": sym("⊃"), "subseteq": sym("⊆"),
	"supseteq": sym("⊇"), "perp": sym("⊥"), "parallel": sym("∥"), "mid": sym("∣"),
	"to": sym("→"), "rightarrow": sym("→"), "leftarrow": sym("←"), "gets": sym("←"),
	"Rightarrow": sym("⇒"), "Leftarrow": sym("⇐"), "leftrightarrow": sym("↔"),
	"Leftrightarrow": sym("⇔"), "iff": sym("⇔"), "implies": sym("⟹"), "mapsto": sym("↦"),
	"uparrow": sym("↑"), "downarrow": sym("↓"),
	"Uparrow": sym("⇑"), "Downarrow": sym("⇓"), "updownarrow": sym("↕"), "Updownarrow": sym("⇕"),
	"longrightarrow": sym("⟶"), "longleftarrow": sym("⟵"), "longleftrightarrow": sym("⟷"),
	"Longrightarrow": sym("⟹"), "Longleftarrow": sym("⟸"), "Longleftrightarrow": sym("⟺"),
	"impliedby": sym("⟸"), "longmapsto": sym("⟼"), "hookrightarrow": sym("↪"),
	"hookleftarrow": sym("↩"), "rightharpoonup": sym("⇀"), "rightharpoondown": sym("⇁"),
	"leftharpoonup": sym("↼"), "leftharpoondown": sym("↽"), "rightleftharpoons": sym("⇌"),
	"leftrightharpoons": sym("⇋"), "leftrightarrows": sym("⇆"), "rightleftarrows": sym("⇄"),
	"rightrightarrows": sym("⇉"), "leftleftarrows": sym("⇇"), "nearrow": sym("↗"),
	"searrow": sym("↘"), "swarrow": sym("↙"), "nwarrow": sym("↖"), "leadsto": sym("⇝"),
	"nrightarrow": sym("↛"), "nleftarrow": sym("↚"), "nRightarrow": sym("⇏"),
	"nLeftarrow": sym("⇍"), "nLeftrightarrow": sym("⇎"), "circlearrowleft": sym("↺"),
	"circlearrowright": sym("↻"), "curvearrowleft": sym("↶"), "curvearrowright": sym("↷"),
	"twoheadrightarrow": sym("↠"), "twoheadleftarrow": sym("↞"), "rightsquigarrow": sym("⇝"),
	"lt": sym("<"), "gt": sym(">"), "nmid": sym("∤"), "nparallel": sym("∦"),
	"nleq": sym("≰"), "ngeq": sym("≱"), "nless": sym("≮"), "ngtr": sym("≯"),
	"nsubseteq": sym("⊈"), "nsupseteq": sym("⊉"), "subsetneq": sym("⊊"), "supsetneq": sym("⊋"),
	"leqslant": sym("⩽"), "geqslant": sym("⩾"), "leqq": sym("≦"), "geqq": sym("≧"),
	"lesssim": sym("≲"), "gtrsim": sym("≳"), "prec": sym("≺"), "succ": sym("≻"),
	"preceq": sym("⪯"), "succeq": sym("⪰"), "sqsubset": sym("⊏"), "sqsupset": sym("⊐"),
	"sqsubseteq": sym("⊑"), "sqsupseteq": sym("⊒"), "vdash": sym("⊢"), "dashv": sym("⊣"),
	"models": sym("⊨"), "vDash": sym("⊨"), "asymp": sym("≍"), "doteq": sym("≐"),
	"bowtie": sym("⋈"), "Join": sym("⋈"), "ncong": sym("≇"), "nsim": sym("≁"),
	"coloneqq": sym("≔"), "eqqcolon": sym("≕"), "triangleq": sym("≜"), "smile": sym("⌣"),
	"frown": sym("⌢"), "owns": sym("∋"), "lll": sym("⋘"), "ggg": sym("⋙"),
	"approxeq": sym("≊"), "backsim": sym("∽"), "between": sym("≬"), "pitchfork": sym("⋔"),
	"circeq": sym("≗"), "risingdotseq": sym("≓"), "fallingdotseq": sym("≒"),
	"trianglelefteq": sym("⊴"), "trianglerighteq": sym("⊵"), "Subset": sym("⋐"), "Supset": sym("⋑"),

	// Large operators.
	"sum": sym("∑"), "prod": sym("∏"), "coprod": sym("∐"), "int": sym("∫"),
	"iint": sym("∬"), "iiint": sym("∭"), "oint": sym("∮"), "bigcup": sym("⋃"),
	"bigcap": sym("⋂"), "bigoplus": sym("⨁"), "bigotimes": sym("⨂"), "bigodot": sym("⨀"),
	"biguplus": sym("⨄"), "bigsqcup": sym("⨆"), "bigvee": sym("⋁"), "bigwedge": sym("⋀"),
	"oiint": sym("∯"), "oiiint": sym("∰"), "iiiint": sym("⨌"), "smallint": sym("∫"),

	// Miscellaneous symbols and delimiters.
	"infty": sym("∞"), "partial": sym("∂"), "nabla": sym("∇"), "forall": sym("∀"),
	"exists": sym("∃"), "nexists": sym("∄"), "emptyset": sym("∅"), "varnothing": sym("∅"),
	"angle": sym("∠"), "triangle": sym("△"), "degree": sym("°"), "prime": sym("′"),
	"hbar": sym("ℏ"), "ell": sym("ℓ"), "Re": sym("ℜ"), "Im": sym("ℑ"),
	"aleph": sym("ℵ"), "therefore": sym("∴"), "because": sym("∵"), "ldots": sym("…"),
	"cdots": sym("⋯"), "vdots": sym("⋮"), "ddots": sym("⋱"), "dots": sym("…"),
	"langle": sym("⟨"), "rangle": sym("⟩"), "lfloor": sym("⌊"), "rfloor": sym("⌋"),
	"lceil": sym("⌈"), "rceil": sym("⌉"), "vert": sym("|"), "Vert": sym("‖"),
	"lvert": sym("|"), "rvert": sym("|"), "backslash": sym(`\`),
	"lVert": sym("‖"), "rVert": sym("‖"), "lbrace": sym("{"), "rbrace": sym("}"),
	"lbrack": sym("["), "rbrack": sym("]"), "lgroup": sym("⟮"), "rgroup": sym("⟯"),
	"ulcorner": sym("⌜"), "urcorner": sym("⌝"), "llcorner": sym("⌞"), "lrcorner": sym("⌟"),
	"square": sym("□"), "Box": sym("□"), "blacksquare": sym("■"), "lozenge": sym("◊"),
	"Diamond": sym("◊"), "blacklozenge": sym("⧫"), "diamondsuit": sym("♢"), "heartsuit": sym("♡"),
	"clubsuit": sym("♣"), "spadesuit": sym("♠"), "flat": sym("♭"), "natural": sym("♮"),
	"sharp": sym("♯"), "top": sym("⊤"), "bot": sym("⊥"), "checkmark": sym("✓"),
	"surd": sym("√"), "wp": sym("℘"), "mho": sym("℧"), "complement": sym("∁"),
	"imath": sym("ı"), "jmath": sym("ȷ"), "eth": sym("ð"), "beth": sym("ℶ"),
	"gimel": sym("ℷ"), "daleth": sym("ℸ"), "S": sym("§"), "P": sym("¶"),
	"copyright": sym("©"), "pounds": sym("£"), "circledR": sym("®"), "maltese": sym("✠"),
	"vartriangle": sym("△"), "triangledown": sym("▽"), "blacktriangle": sym("▲"),
	"blacktriangledown": sym("▼"), "measuredangle": sym("∡"), "sphericalangle": sym("∢"),
	"varkappa": sym("ϰ"), "digamma": sym("ϝ"), "Finv": sym("Ⅎ"), "Game": sym("⅁"),
	"colon": sym(":"), "dotsc": sym("…"), "dotso": sym("…"), "dotsb": sym("⋯"),
	"dotsm": sym("⋯"), "dotsi": sym("⋯"), "mathellipsis": sym("…"), "textbackslash": sym(`\`),
	"infin": sym("∞"), "isin": sym("∈"), "empty": sym("∅"), "exist": sym("∃"),

	// Control symbols.
	"{": sym("{"), "}": sym("}"), "%": sym("%"), "$": sym("$"), "#": sym("#"),
	"&": sym("&"), "_": sym("_"), "|": sym("‖"),

	// Named functions.
	"sin": fn("sin"), "cos": fn("cos"), "tan": fn("tan"), "cot": fn("cot"),
	"sec": fn("sec"), "csc": fn("csc"), "arcsin": fn("arcsin"), "arccos": fn("arccos"),
	"arctan": fn("arctan"), "sinh": fn("sinh"), "cosh": fn("cosh"), "tanh": fn("tanh"),
	"log": fn("log"), "ln": fn("ln"), "lg": fn("lg"), "exp": fn("exp"),
	"lim": fn("lim"), "liminf": fn("lim inf"), "limsup": fn("lim sup"), "max": fn("max"),
	"min": fn("min"), "sup": fn("sup"), "inf": fn("inf"), "det": fn("det"),
	"gcd": fn("gcd"), "deg": fn("deg"), "dim": fn("dim"), "ker": fn("ker"),
	"arg": fn("arg"), "Pr": fn("Pr"), "bmod": fn("mod"), "mod": fn("mod"),
	"coth": fn("coth"), "hom": fn("hom"), "sh": fn("sh"), "ch": fn("ch"),
	"th": fn("th"), "cth": fn("cth"), "tg": fn("tg"), "ctg": fn("ctg"),
	"cotg": fn("cotg"), "cosec": fn("cosec"), "arctg": fn("arctg"), "arcctg": fn("arcctg"),
	"injlim": fn("inj lim"), "projlim": fn("proj lim"), "varlimsup": fn("lim sup"),
	"varliminf": fn("lim inf"),

	// Accents take one argument and add a combining mark.
	"hat": accent("̂"), "widehat": accent("̂"), "bar": accent("̄"),
	"overline": accent("̅"), "underline": accent("̲"), "vec": accent("⃗"),
	"dot": accent("̇"), "ddot": accent("̈"), "tilde": accent("̃"),
	"widetilde": accent("̃"), "acute": accent("́"), "grave": accent("̀"),
	"breve": accent("̆"), "check": accent("̌"), "mathring": accent("̊"),
	"overrightarrow": accent("⃗"), "overleftarrow": accent("⃖"),
	"overleftrightarrow": accent("⃡"), "underrightarrow": accent("⃯"),
	"underleftarrow": accent("⃮"), "cancel": accent("̸"), "bcancel": accent("̸"),
	"xcancel": accent("̸"), "sout": accent("̶"),
	// Braces only bracket their argument; labels attach as scripts.
	"overbrace": accent(""), "underbrace": accent(""),

	"overset": {kind: cmdOverset}, "stackrel": {kind: cmdOverset}, "underset": {kind: cmdUnderset},

	"xrightarrow": xarrow("→"), "xleftarrow": xarrow("←"), "xRightarrow": xarrow("⇒"),
	"xLeftarrow": xarrow("⇐"), "xleftrightarrow": xarrow("↔"), "xLeftrightarrow": xarrow("⇔"),
	"xmapsto": xarrow("↦"), "xhookrightarrow": xarrow("↪"), "xhookleftarrow": xarrow("↩"),
	"xlongequal": xarrow("="),

	"boxed": wrap("[", "]"), "fbox": wrap("[", "]"),
	"phantom": {kind: cmdPhantom}, "hphantom": {kind: cmdPhantom}, "vphantom": {kind: cmdPhantom},
	"hspace": {kind: cmdSkip, out: " "}, "mspace": {kind: cmdSkip, out: " "},
	"color": {kind: cmdColor}, "textcolor": {kind: cmdTextColor}, "colorbox": {kind: cmdTextColor},

	// Font switches take one argument.
	"mathbb": font("mathbb"), "mathbf": font("mathbf"), "mathrm": font("mathrm"),
	"mathit": font("mathit"), "mathcal": font("mathcal"), "mathfrak": font("mathfrak"),
	"mathsf": font("mathsf"), "mathtt": font("mathtt"), "boldsymbol": font("boldsymbol"),
	"mathscr": font("mathscr"), "mathnormal": font("mathnormal"), "bm": font("bm"),
	"bold": font("mathbf"), "Bbb": font("mathbb"), "mathop": font("mathop"),
	"mathrel": font("mathrel"), "mathbin": font("mathbin"), "mathord": font("mathord"),
	"substack": font("substack"), "mathrlap": font("mathrlap"), "mathllap": font("mathllap"),
	"mathclap": font("mathclap"), "rlap": font("rlap"), "llap": font("llap"),

	// Raw text arguments.
	"text": {kind: cmdText}, "textrm": {kind: cmdText}, "textit": {kind: cmdText},
	"textbf": {kind: cmdText}, "mbox": {kind: cmdText}, "operatorname": {kind: cmdText, out: "op"},
	"textsf": {kind: cmdText}, "texttt": {kind: cmdText}, "textnormal": {kind: cmdText},
	"textup": {kind: cmdText}, "textmd": {kind: cmdText}, "emph": {kind: cmdText},
	"hbox": {kind: cmdText},

	"frac": {kind: cmdFrac}, "dfrac": {kind: cmdFrac}, "tfrac": {kind: cmdFrac}, "cfrac": {kind: cmdFrac},
	"binom": {kind: cmdBinom}, "dbinom": {kind: cmdBinom}, "tbinom": {kind: cmdBinom},
	"sqrt": {kind: cmdSqrt},
	"pmod": {kind: cmdPmod},

	",": {kind: cmdSpace, out: " "}, ";": {kind: cmdSpace, out: " "}, ":": {kind: cmdSpace, out: " "},
	">": {kind: cmdSpace, out: " "}, "!": {kind: cmdSpace}, " ": {kind: cmdSpace, out: " "},
	"quad": {kind: cmdSpace, out: "  "}, "qquad": {kind: cmdSpace, out: "    "},
	"enspace": {kind: cmdSpace, out: " "}, "thinspace": {kind: cmdSpace, out: " "},
	"medspace": {kind: cmdSpace, out: " "}, "thickspace": {kind: cmdSpace, out: " "},
	"negthinspace": {kind: cmdSpace}, "negmedspace": {kind: cmdSpace}, "negthickspace": {kind: cmdSpace},

	"big": modifier, "Big": modifier, "bigg": modifier, "Bigg": modifier,
	"bigl": modifier, "bigr": modifier, "Bigl": modifier, "Bigr": modifier,
	"biggl": modifier, "biggr": modifier, "Biggl": modifier, "Biggr": modifier,
	"bigm": modifier, "Bigm": modifier, "biggm": modifier, "Biggm": modifier,
	"displaystyle": modifier, "textstyle": modifier, "scriptstyle": modifier,
	"scriptscriptstyle": modifier, "limits": modifier, "nolimits": modifier,
	"hline": modifier, "hdashline": modifier, "nonumber": modifier, "notag": modifier,
	"mathstrut": modifier, "strut": modifier, "allowbreak": modifier, "nobreak": modifier,

	"left": {kind: cmdLeft}, "right": {kind: cmdRight},
	"begin": {kind: cmdBegin}, "end": {kind: cmdEnd},
	`\`: {kind: cmdNewline},
}

// environment describes how a \begin{...} block is bracketed in text output.
type environment struct {
	open, close string
	colSpec     bool
}

var environments = map[string]environment{
	"matrix":      {open: "[", close: "]"},
	"smallmatrix": {open: "[", close: "]"},
	"pmatrix":     {open: "(", close: ")"},
	"bmatrix":     {open: "[", close: "]"},
	"Bmatrix":     {open: "{", close: "}"},
	"vmatrix":     {open: "|", close: "|"},
	"Vmatrix":     {open: "‖", close: "‖"},
	"cases":       {open: "{ "},
	"aligned":     {},
	"align":       {},
	"align*":      {},
	"gathered":    {},
	"split":       {},
	"array":       {open: "[", close: "]", colSpec: true},
	"darray":      {open: "[", close: "]", colSpec: true},
	"subarray":    {colSpec: true},
	"alignedat":   {colSpec: true},
	"alignat":     {colSpec: true},
	"alignat*":    {colSpec: true},
	"gather":      {},
	"gather*":     {},
	"equation":    {},
	"equation*":   {},
	"multline":    {},
	"multline*":   {},
	"dcases":      {open: "{ "},
	"rcases":      {close: " }"},
}

// delimiters accepted after \left and \right.
var charDelims = map[string]string{
	"(": "(", ")": ")", "[": "[", "]": "]", "|": "|", "/": "/", ".": "",
	"<": "⟨", ">": "⟩",
}

var cmdDelims = map[string]bool{
	"{": true, "}": true, "langle": true, "rangle": true, "lfloor": true, "rfloor": true,
	"lceil": true, "rceil": true, "vert": true, "Vert": true, "lvert": true, "rvert": true,
	"|": true, "backslash": true, "uparrow": true, "downarrow": true,
	"lbrace": true, "rbrace": true, "lbrack": true, "rbrack": true, "lVert": true, "rVert": true,
	"Uparrow": true, "Downarrow": true, "updownarrow": true, "Updownarrow": true,
	"lgroup": true, "rgroup": true, "ulcorner": true, "urcorner": true, "llcorner": true,
	"lrcorner": true, "lt": true, "gt": true,
}

var blackboard = map[rune]rune{
	'R': 'ℝ', 'N': 'ℕ', 'Z': 'ℤ', 'Q': 'ℚ', 'C': 'ℂ', 'P': 'ℙ', 'H': 'ℍ',
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶', '7': '⁷',
	'8': '⁸', '9': '⁹', '+': '⁺', '-': '⁻', '−': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'n': 'ⁿ', 'i': 'ⁱ', '′': '′',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆', '7': '₇',
	'8': '₈', '9': '₉', '+': '₊', '-': '₋', '−': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'o': 'ₒ', 'x': 'ₓ', 'i': 'ᵢ', 'j': 'ⱼ', 'k': 'ₖ', 'n': 'ₙ',
	'm': 'ₘ', 'r': 'ᵣ', 'u': 'ᵤ', 'v': 'ᵥ', 't': 'ₜ', 's': 'ₛ', 'p': 'ₚ', 'l': 'ₗ',
	'h': 'ₕ',
}
