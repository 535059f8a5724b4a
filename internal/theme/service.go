package theme

import (
	"fmt"
	"time"
)

// SvcState is the init-system state of a service an icon or animation is
// bound to.
type SvcState int

const (
	SvcNone SvcState = iota
	// SvcAlways marks objects that are shown regardless of any service.
	SvcAlways
	SvcStart
	SvcStarted
	SvcStop
	SvcStopped
	SvcStartFailed
	SvcStopFailed
	SvcInactiveStart
	SvcInactiveStop
)

var svcStateNames = []string{
	SvcAlways:        "display-always",
	SvcStart:         "svc_start",
	SvcStarted:       "svc_started",
	SvcStop:          "svc_stop",
	SvcStopped:       "svc_stopped",
	SvcStartFailed:   "svc_start_failed",
	SvcStopFailed:    "svc_stop_failed",
	SvcInactiveStart: "svc_inactive_start",
	SvcInactiveStop:  "svc_inactive_stop",
}

// ParseSvcState parses a service-state keyword.
func ParseSvcState(s string) (SvcState, bool) {
	for i, name := range svcStateNames {
		if name != "" && name == s {
			return SvcState(i), true
		}
	}
	return SvcNone, false
}

func (s SvcState) String() string {
	if int(s) > 0 && int(s) < len(svcStateNames) {
		return svcStateNames[s]
	}
	return fmt.Sprintf("svcstate(%d)", int(s))
}

// Binding ties an object's visibility to one service's state.
type Binding struct {
	Service string
	State   SvcState
}

// HasService reports whether the object depends on a service at all.
func (b Binding) HasService() bool { return b.Service != "" }

func bindingOf(obj Object) (*Binding, *Base) {
	switch o := obj.(type) {
	case *Icon:
		return &o.Binding, &o.Base
	case *Anim:
		return &o.Binding, &o.Base
	}
	return nil, nil
}

// NotifyService updates every icon and animation bound to service name for
// its new state. Objects whose visibility changes are invalidated; the
// number of such objects is returned.
func (t *Theme) NotifyService(name string, state SvcState, now time.Time) int {
	n := 0
	for _, obj := range t.Objects {
		bind, base := bindingOf(obj)
		if bind == nil || bind.Service != name {
			continue
		}
		vis := bind.State == state
		if vis != base.Visible {
			base.SetVisible(vis, now)
			base.Invalid = true
			n++
		}
	}
	return n
}

// ApplyServices replays a whole service table, as after loading a new theme
// mid-boot.
func (t *Theme) ApplyServices(states map[string]SvcState, now time.Time) {
	for _, obj := range t.Objects {
		bind, base := bindingOf(obj)
		if bind == nil || !bind.HasService() {
			continue
		}
		vis := states[bind.Service] == bind.State
		if vis != base.Visible {
			base.SetVisible(vis, now)
			base.Invalid = true
		}
	}
}
