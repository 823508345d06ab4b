package monitor

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"nurse-triage-backend/internal/advisory"
	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/metrics"
	"nurse-triage-backend/internal/model"
	"nurse-triage-backend/internal/notification"
	"nurse-triage-backend/internal/vitals"
)

// MsgFetchFailed is audited whenever a cycle ends without a usable reading.
const MsgFetchFailed = "ERROR: Failed to fetch patient data"

// Pager delivers pages. A nil Pager disables paging.
type Pager interface {
	Dispatch(job notification.PageJob)
}

// ErrStaleCycle is returned for a refresh cycle whose patient was replaced
// by a registration while the cycle was fetching.
var ErrStaleCycle = errors.New("patient changed while the cycle was in flight")

// Pipeline classifies a reading, advises on it and presents the result.
// Whole cycles are serialized so audit entries never interleave.
type Pipeline struct {
	mu      sync.Mutex
	engine  *advisory.Engine
	log     audit.Appender
	sink    Sink
	pager   Pager
	clock   clock.PassiveClock
	logger  *zap.Logger
	metrics *metrics.Metrics

	last Frame
	// gen advances on every admission so in-flight refresh cycles can
	// tell that their patient is no longer the one on display.
	gen uint64
}

// NewPipeline wires a pipeline. pager and m may be nil.
func NewPipeline(engine *advisory.Engine, log audit.Appender, sink Sink, pager Pager, clk clock.PassiveClock, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		engine:  engine,
		log:     log,
		sink:    sink,
		pager:   pager,
		clock:   clk,
		logger:  logger.Named("pipeline"),
		metrics: m,
	}
}

// Process admits a reading for patientID and runs it through the pipeline.
// Refresh cycles started before the call are discarded when they finish.
// A reading that cannot be classified is handled like a failed fetch and
// its error returned.
func (p *Pipeline) Process(patientID string, r model.VitalsReading) (vitals.Classification, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	return p.process(patientID, r)
}

// Generation returns the admission counter a refresh cycle is started under.
func (p *Pipeline) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// Refreshed runs a reading fetched by a cycle started under gen. The
// reading is dropped with ErrStaleCycle when a patient was admitted since.
func (p *Pipeline) Refreshed(gen uint64, patientID string, r model.VitalsReading) (vitals.Classification, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		p.discard(patientID)
		return vitals.Classification{}, ErrStaleCycle
	}
	return p.process(patientID, r)
}

// RefreshFailed records a failed cycle started under gen, unless a patient
// was admitted since. It reports whether the failure was recorded.
func (p *Pipeline) RefreshFailed(gen uint64, patientID string, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		p.discard(patientID)
		return false
	}
	p.fail(patientID, err, "fetch_error")
	return true
}

func (p *Pipeline) discard(patientID string) {
	p.logger.Info("discarding cycle for replaced patient",
		zap.String("patient_id", patientID), zap.String("current_patient_id", p.last.PatientID))
	p.metrics.ObserveCycle("stale", 0)
}

func (p *Pipeline) process(patientID string, r model.VitalsReading) (vitals.Classification, error) {
	start := p.clock.Now()
	c, err := vitals.Classify(r)
	if err != nil {
		p.fail(patientID, err, "format_error")
		return vitals.Classification{}, err
	}

	advice := p.engine.Advise(r, c.Critical)
	reading := r
	p.present(Frame{
		PatientID:      patientID,
		Reading:        &reading,
		Classification: &c,
		Advice:         advice,
	})

	outcome := "stable"
	if c.Critical {
		outcome = "critical"
		p.page(patientID, r)
	}
	p.metrics.SetCritical(c.Critical)
	p.metrics.ObserveCycle(outcome, p.clock.Since(start))

	p.logger.Debug("cycle processed",
		zap.String("patient_id", patientID),
		zap.Int("hr", r.HeartRate),
		zap.String("bp", r.BloodPressure),
		zap.Float64("temp", r.Temperature),
		zap.Bool("critical", c.Critical))
	return c, nil
}

// Fail records a cycle that produced no reading. The last reading stays
// on display with the fallback advisory.
func (p *Pipeline) Fail(patientID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail(patientID, err, "fetch_error")
}

func (p *Pipeline) fail(patientID string, err error, outcome string) {
	var formatErr *vitals.InputFormatError
	if errors.As(err, &formatErr) {
		p.logger.Error("reading could not be classified",
			zap.String("patient_id", patientID), zap.String("field", formatErr.Field),
			zap.String("value", formatErr.Value), zap.Error(err))
	} else {
		p.logger.Error("failed to fetch patient data", zap.String("patient_id", patientID), zap.Error(err))
	}

	p.log.Append(MsgFetchFailed)
	p.present(Frame{
		PatientID:      patientID,
		Reading:        p.last.Reading,
		Classification: p.last.Classification,
		Advice:         advisory.Fallback(),
		Error:          err.Error(),
	})
	p.metrics.ObserveCycle(outcome, 0)
}

func (p *Pipeline) present(f Frame) {
	f.PresentedAt = p.clock.Now()
	p.last = f
	if p.sink != nil {
		p.sink.Present(f)
	}
}

func (p *Pipeline) page(patientID string, r model.VitalsReading) {
	if p.pager == nil {
		return
	}
	p.pager.Dispatch(notification.PageJob{
		Kind:      notification.KindPhysician,
		PatientID: patientID,
		Message: fmt.Sprintf("%s for patient %s: HR %d, BP %s, Temp %s°F",
			advisory.MsgProtocolTriggered, patientID, r.HeartRate, r.BloodPressure, r.TemperatureString()),
	})
}
