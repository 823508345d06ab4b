// Package advisory picks the canned reasoning shown next to the vitals.
// There are two templates, critical and stable; inputs only fill them in.
package advisory

import (
	"fmt"

	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/model"
)

// Protocol is the protocol named by the critical template.
const Protocol = "P-SHOCK-A"

const (
	MsgProtocolTriggered = "CRITICAL: Protocol " + Protocol + " triggered"
	MsgPhysicianAlerted  = "AI alerted physician automatically"
	MsgRoutineCheck      = "Routine check completed - Patient stable"
)

// Advice is the reasoning/recommendation/action bundle for one cycle.
type Advice struct {
	Reasoning      string  `json:"reasoning"`
	Recommendation string  `json:"recommendation"`
	Action         *string `json:"action"`
}

// Engine selects and fills the advisory template.
type Engine struct {
	log       audit.Appender
	physician string
}

// NewEngine creates an engine that writes its audit messages to log.
func NewEngine(log audit.Appender, physician string) *Engine {
	if physician == "" {
		physician = "Dr. Khan"
	}
	return &Engine{log: log, physician: physician}
}

// Advise returns the template for the verdict and appends its audit messages.
func (e *Engine) Advise(r model.VitalsReading, critical bool) Advice {
	if critical {
		e.log.Append(MsgProtocolTriggered)
		e.log.Append(MsgPhysicianAlerted)
	} else {
		e.log.Append(MsgRoutineCheck)
	}
	return e.Template(r, critical)
}

// Template fills the template for the verdict without auditing anything.
func (e *Engine) Template(r model.VitalsReading, critical bool) Advice {
	if critical {
		action := fmt.Sprintf("Physician (%s) alerted via Paging System", e.physician)
		return Advice{
			Reasoning: fmt.Sprintf(
				"Vitals show high HR (%d bpm), low BP (%s), and fever (%s°F). Situation strongly matches Protocol A (Cardiogenic Shock Risk).",
				r.HeartRate, r.BloodPressure, r.TemperatureString()),
			Recommendation: "Immediate physical assessment required. Prepare for fluid resuscitation as per " + Protocol + " protocol.",
			Action:         &action,
		}
	}
	return Advice{
		Reasoning:      "Vitals within acceptable ranges. No critical protocols triggered.",
		Recommendation: "Continue routine monitoring. Document current status.",
	}
}

// Fallback is shown when no reading could be acquired or classified.
func Fallback() Advice {
	return Advice{
		Reasoning:      "System error: Unable to retrieve patient vitals.",
		Recommendation: "Please check system connection and try manual assessment.",
	}
}
