package omxml

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/openmath/openmath-go/om"
)

type Colorable struct {
	Kind om.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	TagColor ColorAttr = iota
	AttrNameColor
	AttrValueColor
	TextColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

// NewColors builds the default palette: dim blue markup, warm attribute
// names, per-kind payload colors.
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range om.Kinds() {
		able := Colorable{Kind: k, Attr: TagColor}
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = AttrNameColor
		colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
		able.Attr = AttrValueColor
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	}
	able := Colorable{Attr: TextColor}

	able.Kind = om.OMI
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Kind = om.OMSTR
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Kind = om.OMB
	colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()

	able = Colorable{Kind: om.OMF, Attr: AttrValueColor}
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able = Colorable{Kind: om.OMV, Attr: AttrValueColor}
	colors.Map[able] = color.CyanString
	able = Colorable{Kind: om.OMS, Attr: AttrValueColor}
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k om.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k om.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}

// AutoColors returns the default palette when f is an interactive
// terminal, nil otherwise. Pass the result through EncodeColors only
// when non-nil.
func AutoColors(f *os.File) *Colors {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return NewColors()
	}
	return nil
}
