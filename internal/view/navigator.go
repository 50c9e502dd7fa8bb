// Package view sequences the client screens and prepares what they show.
package view

import (
	"github.com/pageza/fridgechef/backend/internal/session"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// Screen identifies one step of the flow
type Screen string

const (
	ScreenLanding    Screen = "landing"
	ScreenUpload     Screen = "upload"
	ScreenModeSelect Screen = "mode-select"
	ScreenBrowse     Screen = "browse"
	ScreenChat       Screen = "chat"
	ScreenDetail     Screen = "detail"
)

// Greeting opens every health chat
const Greeting = "Hi! I'm your therapeutic cooking assistant. I can recommend recipes based on your health needs using the ingredients you have. What's bothering you today, or what health goal would you like to work towards?"

// Navigator moves between screens, redirecting when a screen's
// precondition does not hold
type Navigator struct {
	state   *session.State
	current Screen
	// previous is where "back" from the detail screen returns to
	previous Screen
}

func NewNavigator(state *session.State) *Navigator {
	return &Navigator{state: state, current: ScreenLanding, previous: ScreenLanding}
}

func (n *Navigator) Current() Screen { return n.current }

// resolve applies the gates: every screen after upload needs ingredients,
// and detail also needs a selected recipe
func (n *Navigator) resolve(target Screen) Screen {
	switch target {
	case ScreenModeSelect, ScreenBrowse, ScreenChat:
		if !n.state.HasIngredients() {
			return ScreenUpload
		}
	case ScreenDetail:
		if !n.state.HasIngredients() {
			return ScreenUpload
		}
		if _, ok := n.state.Selected(); !ok {
			return ScreenBrowse
		}
	}
	return target
}

// Go navigates to target and returns the screen actually shown
func (n *Navigator) Go(target Screen) Screen {
	from := n.current
	to := n.resolve(target)

	// Choosing chat from mode-select starts a new conversation
	if to == ScreenChat && (from == ScreenModeSelect || len(n.state.Transcript()) == 0) {
		n.state.ResetTranscript(types.ChatMessage{Role: types.RoleAssistant, Content: Greeting})
	}

	if to == ScreenDetail && from != ScreenDetail {
		n.previous = from
	}
	n.current = to
	return to
}

// OpenRecipe selects recipe and shows its detail screen
func (n *Navigator) OpenRecipe(recipe types.Recipe) Screen {
	n.state.SelectRecipe(recipe)
	return n.Go(ScreenDetail)
}

// Back returns to the screen a user would expect from the current one
func (n *Navigator) Back() Screen {
	switch n.current {
	case ScreenUpload:
		return n.Go(ScreenLanding)
	case ScreenModeSelect:
		return n.Go(ScreenUpload)
	case ScreenBrowse, ScreenChat:
		return n.Go(ScreenModeSelect)
	case ScreenDetail:
		n.state.ClearSelection()
		return n.Go(n.previous)
	default:
		return n.current
	}
}

// StartOver resets the session and returns to the landing screen
func (n *Navigator) StartOver() Screen {
	n.state.Reset()
	n.previous = ScreenLanding
	n.current = ScreenLanding
	return n.current
}
