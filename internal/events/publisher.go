package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event subjects, relative to the publisher prefix.
const (
	SubjectGradesSaved     = "grades.saved"
	SubjectAttendanceSaved = "attendance.saved"
)

// Envelope wraps every published payload.
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// GradesSaved is emitted after a grade sheet is replaced.
type GradesSaved struct {
	Kind         string `json:"kind"`
	TeacherID    uint   `json:"teacher_id"`
	SubjectID    uint   `json:"subject_id"`
	ClassID      uint   `json:"class_id"`
	Semester     int    `json:"semester"`
	AcademicYear string `json:"academic_year"`
	Rows         int    `json:"rows"`
}

// AttendanceSaved is emitted after an attendance sheet is replaced.
type AttendanceSaved struct {
	TeacherID uint           `json:"teacher_id"`
	SubjectID uint           `json:"subject_id"`
	ClassID   uint           `json:"class_id"`
	Date      string         `json:"date"`
	Counts    map[string]int `json:"counts"`
}

// Publisher emits domain events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
	source string
	logger zerolog.Logger
	now    func() time.Time
}

// NewPublisher builds a NATS-backed publisher. A nil connection yields a publisher that drops events.
func NewPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) Publisher {
	return &natsPublisher{
		conn:   conn,
		prefix: strings.Trim(prefix, "."),
		source: uuid.NewString(),
		logger: logger.With().Str("component", "event_publisher").Logger(),
		now:    time.Now,
	}
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	if p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullSubject := p.subject(subject)
	payload, err := p.encode(subject, data)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(fullSubject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", fullSubject, err)
	}

	p.logger.Debug().Str("subject", fullSubject).Msg("event published")
	return nil
}

func (p *natsPublisher) subject(subject string) string {
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

func (p *natsPublisher) encode(subject string, data interface{}) ([]byte, error) {
	envelope := Envelope{
		ID:         uuid.NewString(),
		Type:       subject,
		Source:     p.source,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", subject, err)
	}
	return payload, nil
}
