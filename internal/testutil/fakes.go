package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anonto42/connectin/backend/pkg/mailer"
)

// SentEmail is one call recorded by Mailer.
type SentEmail struct {
	To      string
	Payload mailer.Payload
}

// Mailer records NotifyByEmail calls and optionally fails them.
type Mailer struct {
	mu   sync.Mutex
	Err  error
	sent []SentEmail
}

func (m *Mailer) NotifyByEmail(_ context.Context, to string, payload mailer.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentEmail{To: to, Payload: payload})
	return m.Err
}

func (m *Mailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail{}, m.sent...)
}

// ImageStore stands in for object storage.
type ImageStore struct {
	mu        sync.Mutex
	UploadErr error
	DeleteErr error
	uploads   int
	deleted   []string
}

var ErrUnavailable = errors.New("storage unavailable")

func (s *ImageStore) Upload(_ context.Context, dataURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	s.uploads++
	return fmt.Sprintf("https://storage.test/images/%d.png", s.uploads), nil
}

func (s *ImageStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, url)
	return s.DeleteErr
}

func (s *ImageStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.deleted...)
}
