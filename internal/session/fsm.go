package session

import (
	"errors"
	"fmt"
)

// Screen is the page the operator is looking at.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenOTPSetup
	ScreenOTPChallenge
	ScreenAdmins
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenHome:
		return "home"
	case ScreenOTPSetup:
		return "otp_setup"
	case ScreenOTPChallenge:
		return "otp_challenge"
	case ScreenAdmins:
		return "admins"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Authenticated reports whether the screen shows operator data.
func (s Screen) Authenticated() bool {
	return s == ScreenHome || s == ScreenAdmins
}

func (s Screen) isOTP() bool {
	return s == ScreenOTPSetup || s == ScreenOTPChallenge
}

// Event drives a screen transition.
type Event int

const (
	EventChallengeIssued Event = iota
	EventSetupRequired
	EventAuthenticated
	// EventResume is a cancel from an OTP screen while a token is held.
	EventResume
	// EventAbandon is a cancel from an OTP screen without a token.
	EventAbandon
	EventShowAdmins
	EventShowInvites
	EventLogout
	EventUnauthorized
)

func (e Event) String() string {
	switch e {
	case EventChallengeIssued:
		return "challenge_issued"
	case EventSetupRequired:
		return "setup_required"
	case EventAuthenticated:
		return "authenticated"
	case EventResume:
		return "resume"
	case EventAbandon:
		return "abandon"
	case EventShowAdmins:
		return "show_admins"
	case EventShowInvites:
		return "show_invites"
	case EventLogout:
		return "logout"
	case EventUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ErrInvalidTransition is returned when an event has no edge from the
// current screen.
var ErrInvalidTransition = errors.New("invalid screen transition")

var transitions = map[Screen]map[Event]Screen{
	ScreenLogin: {
		EventChallengeIssued: ScreenOTPChallenge,
		EventSetupRequired:   ScreenOTPSetup,
		EventAuthenticated:   ScreenHome,
	},
	ScreenHome: {
		EventSetupRequired: ScreenOTPSetup,
		EventShowAdmins:    ScreenAdmins,
		EventShowInvites:   ScreenHome,
	},
	ScreenAdmins: {
		EventShowInvites: ScreenHome,
		EventShowAdmins:  ScreenAdmins,
	},
	ScreenOTPSetup: {
		EventAuthenticated: ScreenHome,
		EventResume:        ScreenHome,
		EventAbandon:       ScreenLogin,
	},
	ScreenOTPChallenge: {
		EventAuthenticated: ScreenHome,
		EventResume:        ScreenHome,
		EventAbandon:       ScreenLogin,
	},
}

// Next returns the screen ev leads to from s. Logout and unauthorized lead
// to Login from anywhere.
func Next(s Screen, ev Event) (Screen, bool) {
	if ev == EventLogout || ev == EventUnauthorized {
		return ScreenLogin, true
	}
	next, ok := transitions[s][ev]
	return next, ok
}
