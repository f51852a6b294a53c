package app

// Key names a control the application reacts to.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyW
	KeyS
	KeyA
	KeyD
	KeyF
	KeyG
	Key1
	Key2
	Key3
	Key4
	KeySpace
	KeyM
	KeyN
	KeyO
	KeyEscape

	keyCount
)

var keyNames = [keyCount]string{
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyW:      "w",
	KeyS:      "s",
	KeyA:      "a",
	KeyD:      "d",
	KeyF:      "f",
	KeyG:      "g",
	Key1:      "1",
	Key2:      "2",
	Key3:      "3",
	Key4:      "4",
	KeySpace:  "space",
	KeyM:      "m",
	KeyN:      "n",
	KeyO:      "o",
	KeyEscape: "escape",
}

func (k Key) String() string {
	if k >= 0 && k < keyCount {
		return keyNames[k]
	}
	return "unknown"
}

// Keys returns every key in declaration order.
func Keys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Input reports keyboard state for the frame being stepped.
type Input interface {
	// Pressed reports whether k is held down.
	Pressed(k Key) bool
	// JustPressed reports whether k went down since the previous frame.
	JustPressed(k Key) bool
}

// NoInput is an Input with every key released.
type NoInput struct{}

func (NoInput) Pressed(Key) bool     { return false }
func (NoInput) JustPressed(Key) bool { return false }

// KeyState is an Input fed by discrete press and release events, as
// delivered by a terminal. Call EndFrame after each step.
type KeyState struct {
	down [keyCount]bool
	edge [keyCount]bool
}

// Press marks k as held. A press of a key already held (auto-repeat) is
// not a new edge.
func (s *KeyState) Press(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	if !s.down[k] {
		s.edge[k] = true
	}
	s.down[k] = true
}

// Release marks k as up.
func (s *KeyState) Release(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	s.down[k] = false
}

// ReleaseAll marks every key as up.
func (s *KeyState) ReleaseAll() {
	s.down = [keyCount]bool{}
}

// EndFrame clears the just-pressed edges.
func (s *KeyState) EndFrame() {
	s.edge = [keyCount]bool{}
}

func (s *KeyState) Pressed(k Key) bool {
	return k >= 0 && k < keyCount && (s.down[k] || s.edge[k])
}

func (s *KeyState) JustPressed(k Key) bool {
	return k >= 0 && k < keyCount && s.edge[k]
}
