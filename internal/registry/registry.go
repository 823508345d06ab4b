// Package registry holds the single patient shown on the dashboard.
package registry

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/metrics"
	"nurse-triage-backend/internal/model"
	"nurse-triage-backend/internal/parse"
	"nurse-triage-backend/internal/vitals"
)

const dateLayout = "2006-01-02"

// Processor runs a reading through classification and advisory.
type Processor interface {
	Process(patientID string, r model.VitalsReading) (vitals.Classification, error)
}

// Registered is the current patient plus its derived age.
type Registered struct {
	Record model.PatientRecord `json:"patient"`
	Age    int                 `json:"age"`
}

// Registry holds at most one patient. Registering replaces it.
type Registry struct {
	mu       sync.RWMutex
	current  *Registered
	validate *validator.Validate

	processor Processor
	log       audit.Appender
	clock     clock.PassiveClock
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New creates an empty registry.
func New(processor Processor, log audit.Appender, clk clock.PassiveClock, logger *zap.Logger, m *metrics.Metrics) *Registry {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Registry{
		validate:  v,
		processor: processor,
		log:       log,
		clock:     clk,
		logger:    logger.Named("registry"),
		metrics:   m,
	}
}

// Register validates rec and makes it the current patient. Its initial
// vitals are stamped with the current time and run through the processor
// before the registration is audited. On a ValidationError nothing changes.
func (r *Registry) Register(rec model.PatientRecord) (*Registered, error) {
	if err := r.validate.Struct(rec); err != nil {
		return nil, fromValidator(err)
	}
	if _, err := parse.ParseBloodPressure(rec.InitialVitals.BloodPressure); err != nil {
		return nil, &ValidationError{Field: "vitals.bp", Reason: "must be formatted as systolic/diastolic"}
	}
	dob, err := time.Parse(dateLayout, rec.DateOfBirth)
	if err != nil {
		return nil, &ValidationError{Field: "date_of_birth", Reason: "must be a date formatted as YYYY-MM-DD"}
	}

	now := r.clock.Now()
	reg := &Registered{Record: rec, Age: now.Year() - dob.Year()}
	reg.Record.InitialVitals.ObservedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = reg
	if _, err := r.processor.Process(rec.PatientID, reg.Record.InitialVitals); err != nil {
		r.logger.Error("initial vitals could not be processed",
			zap.String("patient_id", rec.PatientID), zap.Error(err))
	}

	r.log.Append(fmt.Sprintf("New patient registered: %s - %s", rec.PatientID, rec.FullName()))
	r.log.Append(fmt.Sprintf("Initial vitals recorded: HR %d, BP %s, Temp %s°F",
		rec.InitialVitals.HeartRate, rec.InitialVitals.BloodPressure, rec.InitialVitals.TemperatureString()))

	r.metrics.PatientRegistered()
	r.logger.Info("patient registered", zap.String("patient_id", rec.PatientID), zap.Int("age", reg.Age))

	out := *reg
	return &out, nil
}

// Current returns a copy of the registered patient, or nil.
func (r *Registry) Current() *Registered {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil
	}
	out := *r.current
	return &out
}

// PatientID returns the registered patient's id, or def when none is registered.
func (r *Registry) PatientID(def string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return def
	}
	return r.current.Record.PatientID
}
