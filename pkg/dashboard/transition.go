package dashboard

import (
	"time"
)

// Trigger identifies what asked for a refresh.
type Trigger int

const (
	TriggerMount Trigger = iota
	TriggerPeriodic
	TriggerManual
	TriggerRetry
)

// String returns the trigger name used in logs and metric labels.
func (t Trigger) String() string {
	switch t {
	case TriggerMount:
		return "mount"
	case TriggerPeriodic:
		return "periodic"
	case TriggerManual:
		return "manual"
	case TriggerRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Event is an input to Transition.
type Event interface {
	isEvent()
}

// RefreshRequested asks for a new fetch. Retry is set only for
// TriggerRetry and names the ScheduleRetry generation that fired.
type RefreshRequested struct {
	Trigger Trigger
	Retry   uint64
}

// FetchSucceeded carries the briefing returned by fetch Seq.
type FetchSucceeded struct {
	Seq      uint64
	Briefing Briefing
	At       time.Time
}

// FetchFailed reports that fetch Seq returned an error.
type FetchFailed struct {
	Seq uint64
	Err error
}

func (RefreshRequested) isEvent() {}
func (FetchSucceeded) isEvent()   {}
func (FetchFailed) isEvent()      {}

// Effect is a side effect requested by Transition. The Controller carries
// them out; Transition itself never touches clocks or goroutines.
type Effect interface {
	isEffect()
}

// StartFetch starts fetch Seq.
type StartFetch struct {
	Seq uint64
}

// CancelFetch cancels the in-flight fetch Seq, which a newer one replaced.
type CancelFetch struct {
	Seq uint64
}

// ScheduleRetry arms the single retry timer. The timer must deliver
// RefreshRequested{Trigger: TriggerRetry, Retry: Gen}.
type ScheduleRetry struct {
	After time.Duration
	Gen   uint64
}

// CancelRetry disarms the retry timer.
type CancelRetry struct{}

func (StartFetch) isEffect()    {}
func (CancelFetch) isEffect()   {}
func (ScheduleRetry) isEffect() {}
func (CancelRetry) isEffect()   {}

// Machine is the complete refresh state: the published State plus the
// bookkeeping Transition needs. The zero value is not usable; call
// NewMachine.
type Machine struct {
	State State

	retryDelay   time.Duration
	started      bool
	lastSeq      uint64
	inFlight     uint64 // 0 when idle
	retryPending bool
	retryGen     uint64
}

// NewMachine returns a machine in PhaseUninitialized. now stamps the
// initial LastUpdated value, matching what the kiosk shows before the first
// sync completes.
func NewMachine(retryDelay time.Duration, now time.Time) Machine {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return Machine{
		State: State{
			Phase:       PhaseUninitialized,
			LastUpdated: FormatSyncTime(now),
		},
		retryDelay: retryDelay,
	}
}

// InFlight returns the sequence number of the fetch being awaited, or 0.
func (m Machine) InFlight() uint64 { return m.inFlight }

// RetryPending reports whether the retry timer is armed.
func (m Machine) RetryPending() bool { return m.retryPending }

// Started reports whether any refresh has been requested.
func (m Machine) Started() bool { return m.started }

// Transition applies ev to m and returns the next machine along with the
// effects to perform, in order.
func Transition(m Machine, ev Event) (Machine, []Effect) {
	switch ev := ev.(type) {
	case RefreshRequested:
		return m.onRefresh(ev)
	case FetchSucceeded:
		return m.onSuccess(ev)
	case FetchFailed:
		return m.onFailure(ev)
	default:
		return m, nil
	}
}

func (m Machine) onRefresh(ev RefreshRequested) (Machine, []Effect) {
	// A timer can fire after CancelRetry; only the armed generation counts.
	if ev.Trigger == TriggerRetry && (!m.retryPending || ev.Retry != m.retryGen) {
		return m, nil
	}

	var effects []Effect

	if m.retryPending {
		m.retryPending = false
		// The retry timer delivered this event; it is already spent.
		if ev.Trigger != TriggerRetry {
			effects = append(effects, CancelRetry{})
		}
	}

	if m.inFlight != 0 {
		effects = append(effects, CancelFetch{Seq: m.inFlight})
	}

	if !m.started {
		m.started = true
		m.State.Phase = PhaseLoading
		m.State.Loading = true
		m.State.Error = ""
	} else if m.State.Phase != PhaseLoading {
		// A superseded first fetch keeps the full loading state.
		m.State.Phase = PhaseRefreshing
	}

	m.lastSeq++
	m.inFlight = m.lastSeq
	effects = append(effects, StartFetch{Seq: m.inFlight})
	return m, effects
}

func (m Machine) onSuccess(ev FetchSucceeded) (Machine, []Effect) {
	if ev.Seq == 0 || ev.Seq != m.inFlight {
		return m, nil
	}
	m.inFlight = 0

	weather := ev.Briefing.Weather

	var news []NewsItem
	if ev.Briefing.News != nil {
		news = make([]NewsItem, len(ev.Briefing.News))
		copy(news, ev.Briefing.News)
	}

	m.State = State{
		Phase:       PhaseReady,
		News:        news,
		Weather:     &weather,
		Loading:     false,
		Error:       "",
		LastUpdated: FormatSyncTime(ev.At),
		UpdatedAt:   ev.At,
	}
	return m, nil
}

func (m Machine) onFailure(ev FetchFailed) (Machine, []Effect) {
	if ev.Seq == 0 || ev.Seq != m.inFlight {
		return m, nil
	}
	m.inFlight = 0

	m.State.Phase = PhaseError
	m.State.Loading = false
	m.State.Error = ErrorMessage
	m.retryPending = true
	m.retryGen++
	return m, []Effect{ScheduleRetry{After: m.retryDelay, Gen: m.retryGen}}
}
