package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		event  sdl.Event
		want   Event
		wantOK bool
	}{
		{"quit", &sdl.QuitEvent{}, Event{Type: EventQuit}, true},
		{"key down", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_Z}}, Event{Type: EventKeyDown, Key: sdl.SCANCODE_Z}, true},
		{"key repeat ignored", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1}, Event{}, false},
		{"motion", &sdl.MouseMotionEvent{X: 10, Y: 20, XRel: 2, YRel: -3}, Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DeltaX: 2, DeltaY: -3}, true},
		{"button down", &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 5, Y: 6}, Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT, MouseX: 5, MouseY: 6}, true},
		{"wheel", &sdl.MouseWheelEvent{Y: -2}, Event{Type: EventMouseWheel, Wheel: -2}, true},
		{"resize", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 640, Data2: 480}, Event{Type: EventWindowResize, Width: 640, Height: 480}, true},
		{"other window event", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MOVED}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestButtonAndMouseTracking(t *testing.T) {
	in := New()

	in.push(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT, MouseX: 1, MouseY: 2})
	assert.True(t, in.IsButtonDown(sdl.BUTTON_LEFT))
	assert.False(t, in.IsButtonDown(sdl.BUTTON_RIGHT))

	in.push(Event{Type: EventMouseMove, MouseX: 30, MouseY: 40})
	x, y := in.Mouse()
	assert.Equal(t, 30, x)
	assert.Equal(t, 40, y)

	in.push(Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT, MouseX: 31, MouseY: 41})
	assert.False(t, in.IsButtonDown(sdl.BUTTON_LEFT))
	assert.Len(t, in.Events(), 3)
}

func TestWheelAndKeys(t *testing.T) {
	in := New()
	in.push(Event{Type: EventMouseWheel, Wheel: 1})
	in.push(Event{Type: EventMouseWheel, Wheel: -0.25})
	in.push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_C})

	assert.InDelta(t, 0.75, in.Wheel(), 1e-6)
	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_C))
	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_Z))
}
