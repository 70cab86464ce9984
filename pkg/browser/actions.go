package browser

import (
	"fmt"
	"strings"

	"github.com/probelab/uiprobe/pkg/poll"
)

// The interaction helpers below all share one shape: a predicate over the
// session's Prober, driven by the condition poller. A missing element,
// a hidden element, or any transient remote failure is a not-ready
// outcome and causes a retry; only the deadline ends a wait. Side effects
// (clicking, typing) happen inside the predicate as its terminal action,
// so they may repeat across attempts where noted.

// waitFor runs pred under the session's polling defaults.
func (s *Session) waitFor(description string, opts ActionOptions, pred poll.Predicate) error {
	s.UpdateLastUsed()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = s.timeout
	}

	return poll.Until(pred, poll.Options{
		Timeout:     timeout,
		Interval:    s.pollInterval,
		Description: description,
	})
}

// WaitVisible waits until the element exists and is displayed.
func (s *Session) WaitVisible(loc Locator, opts ActionOptions) error {
	return s.waitFor(fmt.Sprintf("element %s to be visible", loc), opts, func() (poll.Outcome, error) {
		el, err := s.probe.Find(loc)
		if err != nil {
			return poll.NotReady, err
		}
		if el == nil {
			return poll.NotReady, nil
		}
		visible, err := el.Visible()
		if err != nil {
			return poll.NotReady, err
		}
		if !visible {
			return poll.NotReady, nil
		}
		return poll.Ready, nil
	})
}

// WaitAbsent waits until the element is missing from the document or
// present but not displayed. It is the exact inverse of WaitVisible:
// both states count as absent.
func (s *Session) WaitAbsent(loc Locator, opts ActionOptions) error {
	return s.waitFor(fmt.Sprintf("element %s to be absent", loc), opts, func() (poll.Outcome, error) {
		el, err := s.probe.Find(loc)
		if err != nil {
			return poll.NotReady, err
		}
		if el == nil {
			return poll.Ready, nil
		}
		visible, err := el.Visible()
		if err != nil {
			return poll.NotReady, err
		}
		if visible {
			return poll.NotReady, nil
		}
		return poll.Ready, nil
	})
}

// ClickWhenReady waits until the element exists, then clicks it.
//
// The click is the outcome-producing action of each polling attempt: if
// an attempt finds the element but the click fails, the next attempt
// clicks again. An element that is transiently clickable and then
// navigates away can therefore receive more than one click. That is the
// operation's contract, not an accident; callers needing exactly-once
// clicks should gate on WaitVisible first.
func (s *Session) ClickWhenReady(loc Locator, opts ActionOptions) error {
	return s.waitFor(fmt.Sprintf("element %s to accept a click", loc), opts, func() (poll.Outcome, error) {
		el, err := s.probe.Find(loc)
		if err != nil {
			return poll.NotReady, err
		}
		if el == nil {
			return poll.NotReady, nil
		}
		if err := el.Click(); err != nil {
			return poll.NotReady, err
		}
		return poll.Ready, nil
	})
}

// SetValue waits until the element exists, clears it, types value, and
// reads the field back. The attempt only succeeds when the read-back
// equals value: typing can race the page's own rendering, so the
// round-trip check is the correctness gate, not the send itself. A
// mismatch is recoverable and retried until the deadline, at which point
// it surfaces inside the timeout error.
func (s *Session) SetValue(loc Locator, value string, opts ActionOptions) error {
	return s.waitFor(fmt.Sprintf("field %s to hold %q", loc, value), opts, func() (poll.Outcome, error) {
		el, err := s.probe.Find(loc)
		if err != nil {
			return poll.NotReady, err
		}
		if el == nil {
			return poll.NotReady, nil
		}
		if err := el.Clear(); err != nil {
			return poll.NotReady, err
		}
		if err := el.Type(value); err != nil {
			return poll.NotReady, err
		}
		got, err := el.Value()
		if err != nil {
			return poll.NotReady, err
		}
		if got != value {
			return poll.NotReady, &VerificationMismatchError{Locator: loc, Want: value, Got: got}
		}
		return poll.Ready, nil
	})
}

// SetChecked waits until the checkbox exists, then clicks it only if its
// current checked state differs from checked. Calling it again with the
// same desired state is a no-op, so the operation is idempotent.
func (s *Session) SetChecked(loc Locator, checked bool, opts ActionOptions) error {
	return s.waitFor(fmt.Sprintf("checkbox %s to be checked=%t", loc, checked), opts, func() (poll.Outcome, error) {
		el, err := s.probe.Find(loc)
		if err != nil {
			return poll.NotReady, err
		}
		if el == nil {
			return poll.NotReady, nil
		}
		current, err := el.Checked()
		if err != nil {
			return poll.NotReady, err
		}
		if current == checked {
			return poll.Ready, nil
		}
		if err := el.Click(); err != nil {
			return poll.NotReady, err
		}
		return poll.Ready, nil
	})
}

// SelectByText opens the dropdown behind trigger, then waits for an
// option matching text (compared after trimming whitespace) among the
// elements matched by option, and clicks it. An option text that never
// appears results in a timeout, not a crash.
func (s *Session) SelectByText(trigger, option Locator, text string, opts ActionOptions) error {
	if err := s.ClickWhenReady(trigger, opts); err != nil {
		return err
	}

	want := strings.TrimSpace(text)
	return s.waitFor(fmt.Sprintf("option %q under %s", text, option), opts, func() (poll.Outcome, error) {
		candidates, err := s.probe.FindAll(option)
		if err != nil {
			return poll.NotReady, err
		}
		for _, el := range candidates {
			label, err := el.Text()
			if err != nil {
				return poll.NotReady, err
			}
			if strings.TrimSpace(label) != want {
				continue
			}
			if err := el.Click(); err != nil {
				return poll.NotReady, err
			}
			return poll.Ready, nil
		}
		return poll.NotReady, nil
	})
}
