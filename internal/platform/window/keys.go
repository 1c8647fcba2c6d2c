package window

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// keyNames maps the key names used in the input config to Ebitengine keys.
// Letter names are case-insensitive since a window sees keys, not text.
var keyNames = map[string]ebiten.Key{
	"left":  ebiten.KeyArrowLeft,
	"right": ebiten.KeyArrowRight,
	"up":    ebiten.KeyArrowUp,
	"down":  ebiten.KeyArrowDown,
	"space": ebiten.KeySpace,
	" ":     ebiten.KeySpace,
	"enter": ebiten.KeyEnter,
	"tab":   ebiten.KeyTab,

	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"0": ebiten.KeyDigit0, "1": ebiten.KeyDigit1, "2": ebiten.KeyDigit2,
	"3": ebiten.KeyDigit3, "4": ebiten.KeyDigit4, "5": ebiten.KeyDigit5,
	"6": ebiten.KeyDigit6, "7": ebiten.KeyDigit7, "8": ebiten.KeyDigit8,
	"9": ebiten.KeyDigit9,
}

// Keys resolves config key names to distinct Ebitengine keys. Names with
// no window equivalent, such as "ctrl+x", are skipped.
func Keys(names []string) []ebiten.Key {
	var keys []ebiten.Key
	seen := make(map[ebiten.Key]bool)
	for _, name := range names {
		k, ok := keyNames[name]
		if !ok {
			k, ok = keyNames[strings.ToLower(name)]
		}
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}
