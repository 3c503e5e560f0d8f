package notifier

import "errors"

var _ Notifier = (*Fanout)(nil)

// Fanout delivers every notification to all configured sinks.
// A failing sink does not stop the others; errors are joined.
type Fanout struct {
	sinks []Notifier
}

// NewFanout creates a Fanout over the given sinks.
func NewFanout(sinks ...Notifier) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) SendVerificationEmail(name, email, link string, dryRun bool) error {
	var errs []error
	for _, s := range f.sinks {
		errs = append(errs, s.SendVerificationEmail(name, email, link, dryRun))
	}
	return errors.Join(errs...)
}

func (f *Fanout) SendPasswordResetOTP(name, email, otp string, dryRun bool) error {
	var errs []error
	for _, s := range f.sinks {
		errs = append(errs, s.SendPasswordResetOTP(name, email, otp, dryRun))
	}
	return errors.Join(errs...)
}

func (f *Fanout) SendMatchConfirmed(event *MatchEvent, dryRun bool) error {
	var errs []error
	for _, s := range f.sinks {
		errs = append(errs, s.SendMatchConfirmed(event, dryRun))
	}
	return errors.Join(errs...)
}

func (f *Fanout) SendMatchRescheduled(event *MatchEvent, dryRun bool) error {
	var errs []error
	for _, s := range f.sinks {
		errs = append(errs, s.SendMatchRescheduled(event, dryRun))
	}
	return errors.Join(errs...)
}

func (f *Fanout) SendMatchCancelled(event *MatchEvent, dryRun bool) error {
	var errs []error
	for _, s := range f.sinks {
		errs = append(errs, s.SendMatchCancelled(event, dryRun))
	}
	return errors.Join(errs...)
}
