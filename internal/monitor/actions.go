package monitor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/metrics"
	"nurse-triage-backend/internal/notification"
	"nurse-triage-backend/internal/registry"
)

const (
	MsgNurseConfirmed = "Human Nurse CONFIRMED AI protocol execution"

	minEscalationReason = 5
	minNoteLength       = 10
	notePreviewLength   = 50
)

// Actions records what the nurse does in response to the advisory.
type Actions struct {
	log       audit.Appender
	pager     Pager
	patientID func() string
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewActions creates the nurse action recorder. pager and m may be nil.
func NewActions(log audit.Appender, pager Pager, patientID func() string, logger *zap.Logger, m *metrics.Metrics) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{
		log:       log,
		pager:     pager,
		patientID: patientID,
		logger:    logger.Named("actions"),
		metrics:   m,
	}
}

// Confirm records that the nurse accepted the AI protocol.
func (a *Actions) Confirm() {
	a.log.Append(MsgNurseConfirmed)
	a.metrics.NurseAction("confirm")
	a.logger.Info("nurse confirmed protocol", zap.String("patient_id", a.patientID()))
}

// Escalate alerts the senior nurse. The reason must have at least five
// characters once trimmed.
func (a *Actions) Escalate(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < minEscalationReason {
		return &registry.ValidationError{
			Field:  "reason",
			Reason: fmt.Sprintf("must be at least %d characters", minEscalationReason),
		}
	}

	id := a.patientID()
	a.log.Append(fmt.Sprintf("ESCALATION: Senior Nurse alerted. Reason: %s", reason))
	if a.pager != nil {
		a.pager.Dispatch(notification.PageJob{
			Kind:      notification.KindSeniorNurse,
			PatientID: id,
			Message:   fmt.Sprintf("Escalation for patient %s: %s", id, reason),
		})
	}
	a.metrics.NurseAction("escalate")
	a.logger.Info("escalated to senior nurse", zap.String("patient_id", id))
	return nil
}

// Document records a nurse note and returns the preview that was logged.
func (a *Actions) Document(note string) (string, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return "", &registry.ValidationError{Field: "note", Reason: "is required"}
	}
	if utf8.RuneCountInString(note) < minNoteLength {
		return "", &registry.ValidationError{
			Field:  "note",
			Reason: fmt.Sprintf("must be at least %d characters", minNoteLength),
		}
	}

	preview := note
	if runes := []rune(note); len(runes) > notePreviewLength {
		preview = string(runes[:notePreviewLength]) + "..."
	}
	a.log.Append(fmt.Sprintf("Note Documented: \"%s\"", preview))
	a.metrics.NurseAction("document")
	return preview, nil
}
