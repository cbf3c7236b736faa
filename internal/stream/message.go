package stream

import (
	"errors"
	"fmt"

	"github.com/san-kum/graphsim/internal/drag"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/session"
)

var (
	ErrUnknownMessage = errors.New("stream: unknown message type")
	ErrBadMessage     = errors.New("stream: malformed message")
)

// Message is what a browser sends. Coordinates are screen pixels relative
// to the layout container; ScrollX/ScrollY carry the page scroll offset.
type Message struct {
	Type     string                `json:"type"`
	X        float64               `json:"x"`
	Y        float64               `json:"y"`
	ScrollX  float64               `json:"scroll_x,omitempty"`
	ScrollY  float64               `json:"scroll_y,omitempty"`
	DX       float64               `json:"dx,omitempty"`
	DY       float64               `json:"dy,omitempty"`
	Factor   float64               `json:"factor,omitempty"`
	Width    float64               `json:"width,omitempty"`
	Height   float64               `json:"height,omitempty"`
	Settings *dynamo.ForceSettings `json:"settings,omitempty"`
}

func (m Message) event() drag.Event {
	return drag.Event{Position: dynamo.V(m.X, m.Y), Scroll: dynamo.V(m.ScrollX, m.ScrollY)}
}

// Command converts the message into a session command.
func (m Message) Command() (session.Command, error) {
	switch m.Type {
	case "down":
		return session.Down(m.event()), nil
	case "move":
		return session.Move(m.event()), nil
	case "up":
		return session.Up(m.event()), nil
	case "pan":
		return session.Pan(dynamo.V(m.DX, m.DY)), nil
	case "zoom":
		if m.Factor <= 0 {
			return nil, fmt.Errorf("%w: zoom factor %v", ErrBadMessage, m.Factor)
		}
		return session.Zoom(dynamo.V(m.X, m.Y), m.Factor), nil
	case "resize":
		if m.Width <= 0 || m.Height <= 0 {
			return nil, fmt.Errorf("%w: size %vx%v", ErrBadMessage, m.Width, m.Height)
		}
		return session.Resize(dynamo.NewContainerBound(m.X, m.Y, m.Width, m.Height)), nil
	case "settings":
		if m.Settings == nil {
			return nil, fmt.Errorf("%w: settings missing", ErrBadMessage)
		}
		if err := m.Settings.Validate(); err != nil {
			return nil, err
		}
		return session.Settings(*m.Settings), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}
