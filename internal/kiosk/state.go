// Package kiosk drives the unattended station terminal. The four-phase
// machine is a pure transition function over an explicit state value; the
// Machine interpreter owns the ticker and the network client and feeds
// their outcomes back in as events.
package kiosk

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase is the kiosk's screen. Every transition between phases is a direct
// response to one event; nothing moves the machine implicitly.
type Phase string

const (
	PhaseOffline Phase = "offline"
	PhaseReady   Phase = "ready"
	PhaseActive  Phase = "active"
	PhaseResult  Phase = "result"
)

// ActiveSession is the session captured when a scan starts the countdown.
type ActiveSession struct {
	SessionID      uuid.UUID
	PartyName      string
	RFIDTag        string
	SessionMinutes int
}

// Result is the outcome screen after a stop. Points is nil when the stop
// call itself failed; Err then carries the message shown in its place.
type Result struct {
	PartyName            string
	Points               *int
	ElapsedSeconds       int
	RemainingPointsAdded int
	Err                  string
}

// State is the complete kiosk state. It is a value; Transition never
// mutates its input.
type State struct {
	Phase     Phase
	StationID int

	// ready
	Err string

	// active
	Session   *ActiveSession
	Remaining int // seconds, counted down locally between server syncs
	Hint      string
	HintShown bool
	Stopping  bool

	// result
	Result   *Result
	StaffErr string
}

// NewState returns the initial offline state.
func NewState() State {
	return State{Phase: PhaseOffline}
}

// Event is one external input to the machine: a scan, a timer tick, or the
// resolution of a network call the machine itself requested.
type Event interface{ isEvent() }

type (
	// SelectStation binds the kiosk to a controller and brings it online.
	SelectStation struct{ StationID int }

	// ScanTag is a party RFID submitted on the ready screen.
	ScanTag struct{ Tag string }

	// StatusResolved carries the outcome of a status check for a scanned tag.
	StatusResolved struct {
		Tag    string
		Status string
		Err    error
	}

	// StartResolved carries the outcome of a start/resume call.
	StartResolved struct {
		Tag string
		Res *StartResponse
		Err error
	}

	// Tick is one second of local countdown.
	Tick struct{}

	// ManualStop is the explicit end-session action on the active screen.
	ManualStop struct{}

	// StopResolved carries the outcome of the stop call.
	StopResolved struct {
		Res *StopResponse
		Err error
	}

	// ToggleHint shows or hides the storyline overlay without leaving active.
	ToggleHint struct{}

	// StaffScan is an RFID submitted on the result screen to release it.
	StaffScan struct{ Tag string }

	// StaffResolved carries the outcome of the staff tag check.
	StaffResolved struct {
		OK  bool
		Err error
	}
)

func (SelectStation) isEvent()  {}
func (ScanTag) isEvent()        {}
func (StatusResolved) isEvent() {}
func (StartResolved) isEvent()  {}
func (Tick) isEvent()           {}
func (ManualStop) isEvent()     {}
func (StopResolved) isEvent()   {}
func (ToggleHint) isEvent()     {}
func (StaffScan) isEvent()      {}
func (StaffResolved) isEvent()  {}

// Effect is a side effect the interpreter must perform after a transition.
// Ticker effects run synchronously; network effects resolve asynchronously
// into the corresponding *Resolved event.
type Effect interface{ isEffect() }

type (
	CheckStatus struct{ Tag string }
	StartStart  struct{ Tag string }
	StopStop    struct{ Tag string }
	CheckStaff  struct{ Tag string }
	StartTicker struct{}
	StopTicker  struct{}
)

func (CheckStatus) isEffect() {}
func (StartStart) isEffect()  {}
func (StopStop) isEffect()    {}
func (CheckStaff) isEffect()  {}
func (StartTicker) isEffect() {}
func (StopTicker) isEffect()  {}

const connectionError = "Connection error. Please try again."

// Transition is the pure step function. Events that do not apply to the
// current phase are ignored: the state comes back unchanged with no effects.
func Transition(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case SelectStation:
		if s.Phase != PhaseOffline {
			return s, nil
		}
		s.Phase = PhaseReady
		s.StationID = e.StationID
		return s, nil

	case ScanTag:
		if s.Phase != PhaseReady {
			return s, nil
		}
		if e.Tag == "" {
			s.Err = "RFID tag is required."
			return s, nil
		}
		s.Err = ""
		return s, []Effect{CheckStatus{Tag: e.Tag}}

	case StatusResolved:
		if s.Phase != PhaseReady {
			return s, nil
		}
		if e.Err != nil {
			s.Err = connectionError
			return s, nil
		}
		if e.Status != "active" {
			status := e.Status
			if status == "" {
				status = "unknown"
			}
			s.Err = fmt.Sprintf("Session is not active (status: %s).", status)
			return s, nil
		}
		return s, []Effect{StartStart{Tag: e.Tag}}

	case StartResolved:
		if s.Phase != PhaseReady {
			return s, nil
		}
		if e.Err != nil {
			s.Err = e.Err.Error()
			return s, nil
		}
		s.Phase = PhaseActive
		s.Err = ""
		s.Session = &ActiveSession{
			SessionID:      e.Res.SessionID,
			PartyName:      e.Res.PartyName,
			RFIDTag:        e.Tag,
			SessionMinutes: e.Res.SessionMinutes,
		}
		s.Remaining = e.Res.RemainingSeconds
		s.Hint = e.Res.StorylineHint
		s.HintShown = false
		s.Stopping = false
		return s, []Effect{StartTicker{}}

	case Tick:
		if s.Phase != PhaseActive || s.Stopping {
			return s, nil
		}
		if s.Remaining > 0 {
			s.Remaining--
		}
		if s.Remaining > 0 {
			return s, nil
		}
		return beginStop(s)

	case ManualStop:
		if s.Phase != PhaseActive || s.Stopping {
			return s, nil
		}
		return beginStop(s)

	case StopResolved:
		if s.Phase != PhaseActive || !s.Stopping {
			return s, nil
		}
		s.Phase = PhaseResult
		s.Stopping = false
		s.StaffErr = ""
		res := &Result{}
		if s.Session != nil {
			res.PartyName = s.Session.PartyName
		}
		if e.Err != nil {
			res.Err = e.Err.Error()
		} else {
			points := e.Res.TotalPoints
			res.PartyName = e.Res.PartyName
			res.Points = &points
			res.ElapsedSeconds = e.Res.ElapsedSeconds
			res.RemainingPointsAdded = e.Res.RemainingPointsAdded
		}
		s.Result = res
		return s, nil

	case ToggleHint:
		if s.Phase != PhaseActive {
			return s, nil
		}
		s.HintShown = !s.HintShown
		return s, nil

	case StaffScan:
		if s.Phase != PhaseResult {
			return s, nil
		}
		if e.Tag == "" {
			s.StaffErr = "RFID tag is required."
			return s, nil
		}
		s.StaffErr = ""
		return s, []Effect{CheckStaff{Tag: e.Tag}}

	case StaffResolved:
		if s.Phase != PhaseResult {
			return s, nil
		}
		if e.Err != nil {
			s.StaffErr = e.Err.Error()
			return s, nil
		}
		if !e.OK {
			s.StaffErr = "User is not a staff member."
			return s, nil
		}
		// full reset of session-local state
		return State{Phase: PhaseReady, StationID: s.StationID}, nil
	}
	return s, nil
}

// beginStop arms the one-shot stop: the flag blocks any second trigger and
// the ticker is stopped before the network call fires, so a tick can never
// land mid-stop.
func beginStop(s State) (State, []Effect) {
	s.Stopping = true
	tag := ""
	if s.Session != nil {
		tag = s.Session.RFIDTag
	}
	return s, []Effect{StopTicker{}, StopStop{Tag: tag}}
}
