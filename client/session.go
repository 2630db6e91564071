package client

import (
	"context"
	"errors"

	"github.com/mindcare/therapist-api/pkg/apperror"
)

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Notifier receives the transient success and error messages a submit
// produces.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

const submitFallbackMessage = "Profile could not be updated. Please try again."

// Session drives one profile panel: it resolves the identity, loads the
// record, owns the form and the pending image preview, and submits changes.
// States move loading -> ready | error; only a fresh session or an explicit
// Refetch goes back to loading.
type Session struct {
	client   *Client
	notifier Notifier

	identity Identity
	state    State
	form     *Form
	record   *Record
	loadErr  error
	preview  *Preview
	imageURL string
}

func NewSession(c *Client, notifier Notifier) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Session{
		client:   c,
		notifier: notifier,
		identity: c.Resolver().Resolve(),
		state:    StateLoading,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Identity() Identity {
	return s.identity
}

func (s *Session) Form() *Form {
	return s.form
}

func (s *Session) Record() *Record {
	return s.record
}

func (s *Session) LoadError() error {
	return s.loadErr
}

// ImageURL is the currently displayable image reference: the pending
// preview's placeholder while one is selected, otherwise the resolved
// server-provided reference.
func (s *Session) ImageURL() string {
	return s.imageURL
}

func (s *Session) Preview() *Preview {
	return s.preview
}

// Load fetches the profile (the client retries once internally) and settles
// the session into ready or error.
func (s *Session) Load(ctx context.Context) error {
	record, err := s.client.FetchProfile(ctx, s.identity.TherapistID)
	if err != nil {
		s.state = StateError
		s.loadErr = err
		return err
	}

	s.record = record
	s.form = NewForm(record, s.identity.Role)
	s.imageURL = s.client.ResolveImageURL(record.ImagePath)
	s.state = StateReady
	s.loadErr = nil
	return nil
}

// Refetch is the only path back to loading.
func (s *Session) Refetch(ctx context.Context) error {
	s.state = StateLoading
	s.loadErr = nil
	return s.Load(ctx)
}

// SelectImage validates and stages an image candidate. The previous preview
// is released when superseded.
func (s *Session) SelectImage(name, contentType string, data []byte) error {
	if s.state != StateReady {
		return apperror.NewInvalidInput("profile is not loaded", nil)
	}

	candidate, err := NewUploadCandidate(name, contentType, data)
	if err != nil {
		s.notifier.Error(apperror.UserMessage(err, "Image was rejected"))
		return err
	}
	if err := s.form.SetImage(candidate); err != nil {
		return err
	}

	s.preview.Release()
	s.preview = candidate.NewPreview()
	return nil
}

// DeselectImage drops the pending candidate and reverts the displayed image
// to the last server-provided reference.
func (s *Session) DeselectImage() {
	if s.form != nil {
		s.form.ClearImage()
	}
	s.preview.Release()
	s.preview = nil
	if s.record != nil {
		s.imageURL = s.client.ResolveImageURL(s.record.ImagePath)
	}
}

// Submit sends the changed fields and the pending image, if any. On success
// the snapshot resets to the submitted values and the shared cache already
// holds the merged record; on failure edits stay in place for correction.
func (s *Session) Submit(ctx context.Context) error {
	if s.state != StateReady {
		return apperror.NewInvalidInput("profile is not loaded", nil)
	}

	if !s.form.HasChanges() {
		s.notifier.Success("Nothing to update")
		return nil
	}

	changes := s.form.Changes()
	for field := range changes {
		if err := s.form.ValidateField(field); err != nil {
			s.notifier.Error(apperror.UserMessage(err, submitFallbackMessage))
			return err
		}
	}

	record, message, err := s.client.UpdateProfile(ctx, s.identity.TherapistID, changes, s.form.Image())
	if err != nil {
		s.notifier.Error(submitErrorMessage(err))
		return err
	}

	s.record = record
	s.form.ApplyRecord(record)
	s.preview.Release()
	s.preview = nil
	s.imageURL = s.client.ResolveImageURL(record.ImagePath)

	if message == "" {
		message = "Profile updated successfully"
	}
	s.notifier.Success(message)
	return nil
}

// Close releases the pending preview. Safe to call more than once.
func (s *Session) Close() {
	s.preview.Release()
	s.preview = nil
}

// submitErrorMessage prefers the server's detail, then the error's own
// message, then a fixed fallback.
func submitErrorMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Details != "" {
		return appErr.Details
	}
	return apperror.UserMessage(err, submitFallbackMessage)
}
