package telemetry

import "fmt"

// Phase names one step of the instrumentation workflow.
type Phase string

const (
	PhaseBusinessCase Phase = "business-case"
	PhaseModel        Phase = "model"
	PhaseAudit        Phase = "audit"
	PhaseDesign       Phase = "design"
	PhaseInstrument   Phase = "instrument"
	PhaseImplement    Phase = "implement"
	PhaseMaintain     Phase = "maintain"
)

// Phases returns the workflow phases in order.
func Phases() []Phase {
	return []Phase{
		PhaseBusinessCase,
		PhaseModel,
		PhaseAudit,
		PhaseDesign,
		PhaseInstrument,
		PhaseImplement,
		PhaseMaintain,
	}
}

// CanAdvanceToPhase checks whether the artifacts a phase builds on are
// present. The reason names the command that produces the missing artifact.
func CanAdvanceToPhase(s *Store, phase Phase) (bool, string) {
	switch phase {
	case PhaseBusinessCase, PhaseModel, PhaseAudit:
		// These phases read only the target source tree.
		return true, ""

	case PhaseDesign:
		if !s.Exists(CurrentStateFile) {
			return false, missing(s, CurrentStateFile, "tracksmith audit")
		}
		return true, ""

	case PhaseInstrument:
		if !s.Exists(CurrentStateFile) {
			return false, missing(s, CurrentStateFile, "tracksmith audit")
		}
		if !s.Exists(TrackingPlanFile) {
			return false, missing(s, TrackingPlanFile, "tracksmith plan init")
		}
		return true, ""

	case PhaseImplement:
		if !s.Exists(TrackingPlanFile) {
			return false, missing(s, TrackingPlanFile, "tracksmith plan init")
		}
		if !s.Exists(InstrumentFile) {
			return false, missing(s, InstrumentFile, "tracksmith instrument")
		}
		return true, ""

	case PhaseMaintain:
		if !s.Exists(TrackingPlanFile) {
			return false, missing(s, TrackingPlanFile, "tracksmith plan init")
		}
		return true, ""

	default:
		return false, fmt.Sprintf("unknown phase: %s", phase)
	}
}

func missing(s *Store, name, producer string) string {
	return fmt.Sprintf("%s is missing; run %q first", s.Path(name), producer)
}
