package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

// LoadOptions carries what a theme needs from its environment.
type LoadOptions struct {
	Screen   pixfmt.Screen
	BootType BootType
	// Dir resolves relative paths when parsing from a reader.
	Dir    string
	Logger Logger
	// Runner executes exec text commands; nil runs Shell with os/exec.
	Runner      Runner
	ExecTimeout time.Duration
	// Env looks up variables for eval texts; nil uses the process env.
	Env func(string) string
}

// Load reads the theme in dir for the screen in opts. Malformed lines and
// missing resources do not fail the load; they are recorded in the theme's
// Diagnostics and logged.
func Load(dir string, opts LoadOptions) (*Theme, error) {
	scr := opts.Screen
	if err := scr.Validate(); err != nil {
		return nil, err
	}
	cf, err := FindConfig(dir, scr.XRes, scr.YRes)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cf.Path)
	if err != nil {
		return nil, fmt.Errorf("open theme config: %w", err)
	}
	defer f.Close()

	t := newTheme(scr)
	t.Name = filepath.Base(dir)
	t.Dir = dir
	t.ConfigPath = cf.Path
	t.XRes, t.YRes = cf.W, cf.H
	t.XMarg, t.YMarg = (scr.XRes-cf.W)/2, (scr.YRes-cf.H)/2
	if err := t.parse(f, filepath.Base(cf.Path), opts); err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Infof("theme", "loaded %s (%dx%d, %d objects, %d diagnostics)",
			cf.Path, cf.W, cf.H, len(t.Objects), len(t.Diagnostics))
	}
	return t, nil
}

// Parse builds a theme from a config read from r. The config is taken to
// match the screen resolution exactly.
func Parse(r io.Reader, name string, opts LoadOptions) (*Theme, error) {
	if err := opts.Screen.Validate(); err != nil {
		return nil, err
	}
	t := newTheme(opts.Screen)
	t.Name = name
	t.Dir = opts.Dir
	t.ConfigPath = name
	if err := t.parse(r, name, opts); err != nil {
		return nil, err
	}
	return t, nil
}

type setting struct {
	value string
	line  int
}

type parser struct {
	t    *Theme
	opts LoadOptions
	file string
	line int

	toks []token
	pos  int

	inType   bool
	skipType bool
	inTbox   bool

	inter     *Box
	interLine int
	interCol  int

	settings map[string]setting
}

var settingKeys = map[string]bool{
	"pic": true, "silentpic": true, "pic256": true, "silentpic256": true,
	"bg_color": true, "tx": true, "ty": true, "tw": true, "th": true,
	"text_x": true, "text_y": true, "text_size": true, "text_color": true, "text_font": true,
}

func (t *Theme) parse(r io.Reader, name string, opts LoadOptions) error {
	p := &parser{t: t, opts: opts, file: name, settings: make(map[string]setting)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		p.line++
		p.parseLine(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	p.dropInter()
	if p.inType {
		p.report(&Diagnostic{Col: 1, Expected: "</type>", Msg: "unterminated type block"})
	}
	p.finish()
	return nil
}

func (p *parser) report(d *Diagnostic) {
	if d.File == "" {
		d.File = p.file
	}
	if d.Line == 0 {
		d.Line = p.line
	}
	p.t.Diagnostics = append(p.t.Diagnostics, *d)
	if p.opts.Logger != nil {
		p.opts.Logger.Errorf("theme", "%v", d)
	}
}

// dropInter discards an inter box that found no partner.
func (p *parser) dropInter() {
	if p.inter == nil {
		return
	}
	p.report(&Diagnostic{Line: p.interLine, Col: p.interCol, Expected: "box", Msg: "inter box without a following box"})
	p.inter = nil
}

func (p *parser) parseLine(line string) {
	if isComment(line) {
		return
	}
	toks, d := lexLine(line)
	if d != nil {
		if !p.skipType {
			p.report(d)
		}
		return
	}
	p.toks, p.pos = toks, 0
	first := toks[0]

	if first.kind == tokVector {
		p.parseBlock(first)
		return
	}
	if p.skipType {
		return
	}
	if key, val, ok := strings.Cut(first.text, "="); ok && first.kind == tokWord {
		p.dropInter()
		p.parseSetting(first, key, val)
		return
	}

	p.pos++
	if first.text != "box" {
		p.dropInter()
	}
	switch first.text {
	case "box":
		pending := p.inter
		if d := p.parseBox(); d != nil {
			p.report(d)
			if pending != nil && p.inter == pending {
				p.dropInter()
			}
		}
	case "icon":
		d = p.parseIcon()
	case "anim":
		d = p.parseAnim()
	case "text":
		d = p.parseText()
	case "qrcode":
		d = p.parseQRCode()
	default:
		d = &Diagnostic{Col: first.col, Expected: "directive", Found: first.text, Msg: "unknown directive"}
	}
	if d != nil {
		p.report(d)
	}
}

func (p *parser) parseBlock(tok token) {
	fields := strings.Fields(tok.text)
	if len(fields) == 0 {
		p.report(&Diagnostic{Col: tok.col, Expected: "block name", Msg: "empty block"})
		return
	}
	switch fields[0] {
	case "type":
		if p.inType {
			p.report(&Diagnostic{Col: tok.col, Msg: "nested type block"})
			return
		}
		p.inType = true
		p.skipType = true
		for _, f := range fields[1:] {
			bt, ok := ParseBootType(f)
			if !ok {
				p.report(&Diagnostic{Col: tok.col, Expected: "boot type", Found: f})
				continue
			}
			if bt == p.opts.BootType {
				p.skipType = false
			}
		}
	case "/type":
		if !p.inType {
			p.report(&Diagnostic{Col: tok.col, Msg: "</type> without <type>"})
		}
		p.inType, p.skipType = false, false
	case "textbox":
		if !p.skipType {
			p.inTbox = true
		}
	case "/textbox":
		if !p.skipType {
			p.inTbox = false
		}
	default:
		if !p.skipType {
			p.report(&Diagnostic{Col: tok.col, Expected: "type or textbox block", Found: fields[0]})
		}
	}
}

func (p *parser) parseSetting(tok token, key, val string) {
	if !settingKeys[key] {
		p.report(&Diagnostic{Col: tok.col, Expected: "setting", Found: key, Msg: "unknown setting"})
		return
	}
	if val == "" && len(p.toks) > 1 {
		val = p.toks[1].text
	}
	val = strings.Trim(val, `"`)
	switch key {
	case "bg_color", "text_color":
		if !isColor(val) {
			p.report(&Diagnostic{Col: tok.col + len(key) + 1, Expected: "colour", Found: val})
			return
		}
	case "tx", "ty", "tw", "th", "text_x", "text_y", "text_size":
		if _, err := parseInt(val); err != nil {
			p.report(&Diagnostic{Col: tok.col + len(key) + 1, Expected: "integer", Found: val})
			return
		}
	}
	p.settings[key] = setting{value: val, line: p.line}
}

// token helpers

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) endCol() int {
	if len(p.toks) == 0 {
		return 1
	}
	last := p.toks[len(p.toks)-1]
	return last.col + len(last.text) + 1
}

func (p *parser) missing(expected string) *Diagnostic {
	return &Diagnostic{Col: p.endCol(), Expected: expected}
}

func (p *parser) word(expected string) (token, *Diagnostic) {
	tok, ok := p.peek()
	if !ok {
		return token{}, p.missing(expected)
	}
	if tok.kind != tokWord {
		return token{}, &Diagnostic{Col: tok.col, Expected: expected, Found: tok.text}
	}
	p.pos++
	return tok, nil
}

func (p *parser) integer(expected string) (int, *Diagnostic) {
	tok, d := p.word(expected)
	if d != nil {
		return 0, d
	}
	v, err := parseInt(tok.text)
	if err != nil {
		return 0, &Diagnostic{Col: tok.col, Expected: expected, Found: tok.text, Msg: err.Error()}
	}
	return v, nil
}

func (p *parser) colorArg() (color.NRGBA, *Diagnostic) {
	tok, d := p.word("colour")
	if d != nil {
		return color.NRGBA{}, d
	}
	c, ok := parseColor(tok.text)
	if !ok {
		return c, &Diagnostic{Col: tok.col, Expected: "colour (#rrggbb[aa] or 0xrrggbb[aa])", Found: tok.text}
	}
	return c, nil
}

func (p *parser) str(expected string) (string, *Diagnostic) {
	tok, ok := p.peek()
	if !ok {
		return "", p.missing(expected)
	}
	if tok.kind != tokString {
		return "", &Diagnostic{Col: tok.col, Expected: expected, Found: tok.text}
	}
	p.pos++
	return tok.text, nil
}

// accept consumes the next token when it is one of words.
func (p *parser) accept(words ...string) (string, bool) {
	tok, ok := p.peek()
	if !ok || tok.kind != tokWord {
		return "", false
	}
	for _, w := range words {
		if tok.text == w {
			p.pos++
			return w, true
		}
	}
	return "", false
}

func (p *parser) end() *Diagnostic {
	if tok, ok := p.peek(); ok {
		return &Diagnostic{Col: tok.col, Expected: "end of line", Found: tok.text}
	}
	return nil
}

// blend parses blendin(ms) and blendout(ms) modifiers.
func (p *parser) blend(b *Base) (bool, *Diagnostic) {
	tok, ok := p.peek()
	if !ok || tok.kind != tokWord {
		return false, nil
	}
	var dst *time.Duration
	var arg string
	switch {
	case strings.HasPrefix(tok.text, "blendin("):
		dst, arg = &b.BlendIn, tok.text[len("blendin("):]
	case strings.HasPrefix(tok.text, "blendout("):
		dst, arg = &b.BlendOut, tok.text[len("blendout("):]
	default:
		return false, nil
	}
	arg, closed := strings.CutSuffix(arg, ")")
	if !closed {
		return false, &Diagnostic{Col: tok.col, Expected: "')'", Found: tok.text}
	}
	ms, err := parseInt(arg)
	if err != nil || ms < 0 {
		return false, &Diagnostic{Col: tok.col, Expected: "milliseconds", Found: arg}
	}
	*dst = time.Duration(ms) * time.Millisecond
	p.pos++
	return true, nil
}

func (p *parser) blends(b *Base) *Diagnostic {
	for {
		ok, d := p.blend(b)
		if d != nil || !ok {
			return d
		}
	}
}

// binding parses an optional service-state keyword and service name.
func (p *parser) binding(bind *Binding) *Diagnostic {
	tok, ok := p.peek()
	if !ok || tok.kind != tokWord || strings.HasPrefix(tok.text, "blend") {
		return nil
	}
	st, ok := ParseSvcState(tok.text)
	if !ok {
		return &Diagnostic{Col: tok.col, Expected: "service state", Found: tok.text, Msg: "unknown service state"}
	}
	p.pos++
	if st == SvcAlways {
		return nil
	}
	name, d := p.word("service name")
	if d != nil {
		return d
	}
	bind.Service, bind.State = name.text, st
	return nil
}

func (p *parser) rect() (layout.Rect, *Diagnostic) {
	var v [4]int
	names := [4]string{"x1", "y1", "x2", "y2"}
	for i := range v {
		n, d := p.integer(names[i])
		if d != nil {
			return layout.Rect{}, d
		}
		v[i] = n
	}
	return layout.R(v[0], v[1], v[2], v[3]), nil
}

func (p *parser) vector() (layout.Rect, *Diagnostic) {
	tok, ok := p.peek()
	if !ok {
		return layout.Rect{}, p.missing("<x1,y1,x2,y2>")
	}
	if tok.kind != tokVector {
		return layout.Rect{}, &Diagnostic{Col: tok.col, Expected: "<x1,y1,x2,y2>", Found: tok.text}
	}
	parts := strings.Split(tok.text, ",")
	if len(parts) != 4 {
		return layout.Rect{}, &Diagnostic{Col: tok.col, Expected: "four coordinates", Found: tok.text}
	}
	var v [4]int
	for i, s := range parts {
		n, err := parseInt(strings.TrimSpace(s))
		if err != nil {
			return layout.Rect{}, &Diagnostic{Col: tok.col, Expected: "integer", Found: s}
		}
		v[i] = n
	}
	p.pos++
	return layout.R(v[0], v[1], v[2], v[3]), nil
}

func (p *parser) finishObject(obj Object) {
	if tx, ok := obj.(*Text); ok {
		tx.maxW, tx.maxH = p.t.Screen.XRes, p.t.Screen.YRes
		tx.logger = p.opts.Logger
	}
	b := obj.base()
	b.startBlendIn()
	p.t.add(obj)
}

// directives

func (p *parser) parseBox() *Diagnostic {
	var noover, inter, silent bool
	for {
		w, ok := p.accept("noover", "inter", "silent")
		if !ok {
			break
		}
		switch w {
		case "noover":
			noover = true
		case "inter":
			inter = true
		case "silent":
			silent = true
		}
	}
	r, d := p.rect()
	if d != nil {
		return d
	}
	shape := BoxShape{Rect: r.Translate(p.t.XMarg, p.t.YMarg)}
	c, d := p.colorArg()
	if d != nil {
		return d
	}
	shape.C = [4]color.NRGBA{c, c, c, c}
	if tok, ok := p.peek(); ok && tok.kind == tokWord && !strings.HasPrefix(tok.text, "blend") {
		for i := 1; i < 4; i++ {
			if shape.C[i], d = p.colorArg(); d != nil {
				d.Msg = "box takes 1 or 4 colours"
				return d
			}
		}
	}
	modes := ModeVerbose
	if silent {
		modes = ModeSilent
	}
	b := &Box{Base: newBase(modes, true), Shape: shape, NoOver: noover}
	if d := p.blends(&b.Base); d != nil {
		return d
	}
	if d := p.end(); d != nil {
		return d
	}

	if src := p.inter; src != nil {
		p.inter = nil
		target := shape
		src.Target = &target
		p.finishObject(src)
		return nil
	}
	if inter {
		p.inter, p.interLine, p.interCol = b, p.line, p.toks[0].col
		return nil
	}
	p.finishObject(b)
	return nil
}

func (p *parser) checkFits(w, h int, what string) *Diagnostic {
	if w > p.t.Screen.XRes || h > p.t.Screen.YRes {
		return &Diagnostic{Col: p.toks[0].col, Msg: fmt.Sprintf("%s is %dx%d, larger than the %dx%d screen",
			what, w, h, p.t.Screen.XRes, p.t.Screen.YRes)}
	}
	return nil
}

func (p *parser) parseIcon() *Diagnostic {
	file, d := p.word("icon file")
	if d != nil {
		return d
	}
	x, d := p.integer("x")
	if d != nil {
		return d
	}
	y, d := p.integer("y")
	if d != nil {
		return d
	}
	ic := &Icon{Base: newBase(ModeSilent, true), X: x + p.t.XMarg, Y: y + p.t.YMarg}
	if _, ok := p.accept("crop"); ok {
		from, d := p.vector()
		if d != nil {
			return d
		}
		ic.Crop = &from
		if tok, ok := p.peek(); ok && tok.kind == tokVector {
			to, d := p.vector()
			if d != nil {
				return d
			}
			ic.CropTo = &to
		}
	}
	if d := p.binding(&ic.Binding); d != nil {
		return d
	}
	if d := p.blends(&ic.Base); d != nil {
		return d
	}
	if d := p.end(); d != nil {
		return d
	}
	img, err := p.t.iconImage(p.t.resolvePath(file.text))
	if err != nil {
		return &Diagnostic{Col: file.col, Msg: err.Error()}
	}
	b := img.Img.Rect
	if d := p.checkFits(b.Dx(), b.Dy(), "icon "+file.text); d != nil {
		return d
	}
	ic.Image = img
	if ic.HasService() {
		ic.Visible, ic.Opacity = false, 0
	}
	p.finishObject(ic)
	return nil
}

func (p *parser) parseAnim() *Diagnostic {
	mt, d := p.word("once, loop or proportional")
	if d != nil {
		return d
	}
	mode, ok := ParseAnimMode(mt.text)
	if !ok {
		return &Diagnostic{Col: mt.col, Expected: "once, loop or proportional", Found: mt.text}
	}
	file, d := p.word("animation file")
	if d != nil {
		return d
	}
	x, d := p.integer("x")
	if d != nil {
		return d
	}
	y, d := p.integer("y")
	if d != nil {
		return d
	}
	a := &Anim{Base: newBase(ModeSilent, true), X: x + p.t.XMarg, Y: y + p.t.YMarg, Mode: mode}
	if d := p.binding(&a.Binding); d != nil {
		return d
	}
	if d := p.blends(&a.Base); d != nil {
		return d
	}
	if d := p.end(); d != nil {
		return d
	}
	anim, err := p.t.animation(p.t.resolvePath(file.text))
	if err != nil {
		return &Diagnostic{Col: file.col, Msg: err.Error()}
	}
	b := anim.Frames[0].Rect
	if d := p.checkFits(b.Dx(), b.Dy(), "animation "+file.text); d != nil {
		return d
	}
	a.Anim = anim
	if a.HasService() {
		a.Visible, a.Opacity = false, 0
	}
	p.finishObject(a)
	return nil
}

func (p *parser) modes(def Mode) Mode {
	var m Mode
	for {
		w, ok := p.accept("silent", "verbose")
		if !ok {
			break
		}
		pm, _ := ParseMode(w)
		m |= pm
	}
	if m == 0 {
		return def
	}
	return m
}

func (p *parser) parseText() *Diagnostic {
	modes := p.modes(ModeSilent)
	fontTok, d := p.word("font file")
	if d != nil {
		return d
	}
	var style Style
	if tok, ok := p.peek(); ok && tok.kind == tokWord {
		if st, ok := ParseStyle(tok.text); ok {
			style = st
			p.pos++
		}
	}
	size, d := p.integer("font size")
	if d != nil {
		return d
	}
	if size < 1 || size > p.t.Screen.YRes {
		return &Diagnostic{Col: p.toks[p.pos-1].col, Expected: fmt.Sprintf("font size 1..%d", p.t.Screen.YRes),
			Found: p.toks[p.pos-1].text}
	}
	x, d := p.integer("x")
	if d != nil {
		return d
	}
	halign := AlignStart
	if w, ok := p.accept("left", "middle", "right"); ok {
		halign = map[string]Align{"left": AlignStart, "middle": AlignMiddle, "right": AlignEnd}[w]
	}
	y, d := p.integer("y")
	if d != nil {
		return d
	}
	valign := AlignStart
	if w, ok := p.accept("top", "middle", "bottom"); ok {
		valign = map[string]Align{"top": AlignStart, "middle": AlignMiddle, "bottom": AlignEnd}[w]
	}
	col, d := p.colorArg()
	if d != nil {
		return d
	}
	kind := TextLiteral
	if w, ok := p.accept("exec", "eval"); ok {
		kind = TextExec
		if w == "eval" {
			kind = TextEval
		}
	}
	src, d := p.str("quoted string")
	if d != nil {
		return d
	}
	tx := &Text{
		Base:   newBase(modes, true),
		X:      x + p.t.XMarg,
		Y:      y + p.t.YMarg,
		HAlign: halign,
		VAlign: valign,
		Style:  style,
		Color:  col,
		Kind:   kind,
		Source: src,
		env:    p.opts.Env,
	}
	if d := p.blends(&tx.Base); d != nil {
		return d
	}
	if d := p.end(); d != nil {
		return d
	}
	if kind == TextExec {
		out, err := runExec(p.opts.Runner, p.opts.ExecTimeout, src)
		if err != nil {
			p.report(&Diagnostic{Col: fontTok.col, Msg: err.Error()})
		}
		tx.Source = out
	}
	f, err := p.t.font(p.t.resolvePath(fontTok.text), size)
	if err != nil {
		p.report(&Diagnostic{Col: fontTok.col, Msg: fmt.Sprintf("font: %v, using built-in font", err)})
	}
	tx.Font = f
	if p.inTbox {
		tx.Kind = TextLog
		tx.LogLine = len(p.t.TextBox)
		tx.Visible, tx.Opacity = false, 0
		p.t.TextBox = append(p.t.TextBox, tx)
	}
	p.finishObject(tx)
	return nil
}

func (p *parser) parseQRCode() *Diagnostic {
	modes := p.modes(ModeSilent)
	x, d := p.integer("x")
	if d != nil {
		return d
	}
	y, d := p.integer("y")
	if d != nil {
		return d
	}
	size, d := p.integer("size")
	if d != nil {
		return d
	}
	if size <= 0 {
		return &Diagnostic{Col: p.toks[p.pos-1].col, Expected: "positive size", Found: p.toks[p.pos-1].text}
	}
	payload, d := p.str("quoted payload")
	if d != nil {
		return d
	}
	ic := &Icon{Base: newBase(modes, true), X: x + p.t.XMarg, Y: y + p.t.YMarg}
	if d := p.binding(&ic.Binding); d != nil {
		return d
	}
	if d := p.blends(&ic.Base); d != nil {
		return d
	}
	if d := p.end(); d != nil {
		return d
	}
	img, err := p.t.qrImage(payload, size)
	if err != nil {
		return &Diagnostic{Col: p.toks[0].col, Msg: err.Error()}
	}
	// the encoder grows the image when size is below the symbol's minimum
	if d := p.checkFits(img.Img.Rect.Dx(), img.Img.Rect.Dy(), "qrcode"); d != nil {
		return d
	}
	ic.Image = img
	if ic.HasService() {
		ic.Visible, ic.Opacity = false, 0
	}
	p.finishObject(ic)
	return nil
}

// finish applies the key/value settings once every line is read.
func (p *parser) finish() {
	t := p.t
	for _, tx := range t.TextBox {
		tx.LogLines = len(t.TextBox)
	}
	get := func(key string) (setting, bool) {
		s, ok := p.settings[key]
		return s, ok
	}
	num := func(key string, def int) int {
		if s, ok := get(key); ok {
			v, _ := parseInt(s.value)
			return v
		}
		return def
	}

	if s, ok := get("bg_color"); ok {
		t.BgColor, _ = parseColor(s.value)
	}
	if _, ok := get("tx"); ok {
		x, y := num("tx", 0), num("ty", 0)
		w, h := num("tw", t.XRes), num("th", t.YRes)
		t.TextArea = layout.R(x, y, x+w-1, y+h-1).Translate(t.XMarg, t.YMarg)
	}

	pics := []struct {
		key string
		dst **Picture
	}{{"pic", &t.Verbose}, {"silentpic", &t.Silent}}
	for _, pc := range pics {
		s, ok := get(pc.key)
		if !ok {
			continue
		}
		pic, err := t.loadPicture(t.resolvePath(s.value))
		if err != nil {
			p.report(&Diagnostic{Line: s.line, Col: 1, Msg: err.Error()})
			continue
		}
		*pc.dst = pic
	}
	for _, pc := range []struct {
		key string
		dst **Picture
	}{{"pic256", &t.Verbose}, {"silentpic256", &t.Silent}} {
		s, ok := get(pc.key)
		if !ok {
			continue
		}
		pal, err := t.loadPaletted(t.resolvePath(s.value))
		if err != nil {
			p.report(&Diagnostic{Line: s.line, Col: 1, Msg: err.Error()})
			continue
		}
		if *pc.dst == nil {
			*pc.dst = &Picture{Path: s.value}
		}
		(*pc.dst).Paletted = pal
	}

	if p.hasMessageSettings() {
		p.buildMessage(num)
	}
	t.buildBackgrounds()
}

func (p *parser) hasMessageSettings() bool {
	for k := range p.settings {
		if strings.HasPrefix(k, "text_") {
			return true
		}
	}
	return false
}

func (p *parser) buildMessage(num func(string, int) int) {
	t := p.t
	size := num("text_size", 0)
	if size < 0 || size > t.Screen.YRes {
		p.report(&Diagnostic{Line: p.settings["text_size"].line, Col: 1,
			Msg: fmt.Sprintf("text_size %d outside 1..%d, using the default size", size, t.Screen.YRes)})
		size = 0
	}
	path := ""
	if s, ok := p.settings["text_font"]; ok {
		path = t.resolvePath(s.value)
	}
	f, err := t.font(path, size)
	if err != nil {
		p.report(&Diagnostic{Line: p.settings["text_font"].line, Col: 1,
			Msg: fmt.Sprintf("font: %v, using built-in font", err)})
	}
	col := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if s, ok := p.settings["text_color"]; ok {
		col, _ = parseColor(s.value)
	}
	tx := &Text{Base: newBase(ModeSilent, true), Font: f, Color: col, Kind: TextMessage}
	// unset coordinates centre the message horizontally, near the bottom
	if _, ok := p.settings["text_x"]; ok {
		tx.X = num("text_x", 0) + t.XMarg
	} else {
		tx.X, tx.HAlign = t.XMarg+t.XRes/2, AlignMiddle
	}
	if _, ok := p.settings["text_y"]; ok {
		tx.Y = num("text_y", 0) + t.YMarg
	} else {
		tx.Y, tx.VAlign = t.YMarg+t.YRes*9/10, AlignMiddle
	}
	t.Message = tx
	p.finishObject(tx)
}
