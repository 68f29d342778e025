package input

import (
	"time"

	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
)

// Handler manages input processing with debouncing for UI actions
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  300 * time.Millisecond,
		now:            time.Now,
	}
}

// ProcessEvent reports whether an event should be handled. Press events of
// engine actions are debounced; rate changes repeat freely so holding a key
// keeps adjusting the rate.
func (h *Handler) ProcessEvent(act action.Action, typ event.Type) bool {
	if typ != event.Press || action.GetInfo(act).Category == action.CategoryCamera {
		return true
	}

	now := h.now()
	if lastTime, exists := h.lastActionTime[act]; exists {
		if now.Sub(lastTime) < h.debounceDelay {
			return false
		}
	}
	h.lastActionTime[act] = now
	return true
}
