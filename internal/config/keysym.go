package config

import "github.com/jezek/xgb/xproto"

// Keysym values from X11/keysymdef.h for the names bindings may use.
// Latin letters and digits map directly onto their codepoints.
var keysyms = map[string]uint32{
	"space":     0x0020,
	"return":    0xff0d,
	"tab":       0xff09,
	"escape":    0xff1b,
	"backspace": 0xff08,
	"delete":    0xffff,
	"left":      0xff51,
	"up":        0xff52,
	"right":     0xff53,
	"down":      0xff54,
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		keysyms[string(c)] = uint32(c)
	}
	for c := '0'; c <= '9'; c++ {
		keysyms[string(c)] = uint32(c)
	}
}

var modifiers = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"lock":    xproto.ModMaskLock,
	"control": xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"alt":     xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"super":   xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}
