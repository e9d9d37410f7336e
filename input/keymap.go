package input

// Key identifies a keyboard key, adapted from the window-system-facing
// key enumeration into the server-facing wire keycode space: values
// are transmitted to clients as-is rather than translated through a
// platform keymap.
type Key int

// Keyboard keys.
const (
	KeyUnknown Key = iota
	KeyGrave
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyMinus
	KeyEqual
	KeyBackspace
	KeyTab
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyLBracket
	KeyRBracket
	KeyBackslash
	KeyCapsLock
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeySemicolon
	KeyApostrophe
	KeyReturn
	KeyLShift
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM
	KeyComma
	KeyPeriod
	KeySlash
	KeyRShift
	KeyLCtrl
	KeyLAlt
	KeySpace
	KeyRAlt
	KeyRCtrl
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Modifier is a bitmask of keyboard modifiers active alongside a key
// or button event.
type Modifier int

// Modifier flags.
const (
	ModCapsLock Modifier = 1 << iota
	ModShift
	ModCtrl
	ModAlt
	// ModReleased marks a key/button event as a release rather than a
	// press; the wire protocol folds this into the same modifier mask
	// the original compositor tested with VK_MODIFIER_RELEASED.
	ModReleased
)

// Button identifies a pointer button.
type Button int

// Pointer buttons.
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonSide
	ButtonForward
	ButtonBackward
)

// Edge identifies which edge(s) of a surface a resize drag is
// anchored to.
type Edge int

// Surface resize edges.
const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeTopLeft
	EdgeBottomLeft
	EdgeRight
	EdgeTopRight
	EdgeBottomRight
)
