package domain

import "github.com/telconova/portal/internal/shared/jsonval"

// Activity is the kind of field service a work order requests.
type Activity string

const (
	ActivityInstallation Activity = "Instalación"
	ActivityRepair       Activity = "Reparación"
	ActivityMaintenance  Activity = "Mantenimiento"
)

// DefaultActivity is what any service type other than INSTALACION or
// REPARACION maps to. This is a business rule, not a parse failure.
const DefaultActivity = ActivityMaintenance

// Priority of a work order.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Media"
	PriorityLow    Priority = "Baja"
)

// DefaultPriority applies to any backend priority other than ALTA or MEDIA.
const DefaultPriority = PriorityLow

// Status of a work order.
type Status string

const (
	StatusOpen       Status = "Abierta"
	StatusInProgress Status = "En progreso"
	StatusClosed     Status = "Cerrada"
)

// DefaultStatus applies to any backend state other than ACTIVA or EN_PROCESO.
const DefaultStatus = StatusClosed

// Backend tokens recognised by the normalizers. Comparison is exact.
const (
	tokenStatusActive    = "ACTIVA"
	tokenStatusInProcess = "EN_PROCESO"
	tokenPriorityHigh    = "ALTA"
	tokenPriorityMedium  = "MEDIA"
	tokenActivityInstall = "INSTALACION"
	tokenActivityRepair  = "REPARACION"
)

func Activities() []Activity {
	return []Activity{ActivityInstallation, ActivityRepair, ActivityMaintenance}
}

func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusClosed}
}

func (a Activity) Valid() bool {
	for _, candidate := range Activities() {
		if a == candidate {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	for _, candidate := range Priorities() {
		if p == candidate {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	for _, candidate := range Statuses() {
		if s == candidate {
			return true
		}
	}
	return false
}

// NormalizeStatus maps a backend estado to the display vocabulary.
func NormalizeStatus(raw jsonval.Value) Status {
	token, _ := raw.AsString()
	switch token {
	case tokenStatusActive:
		return StatusOpen
	case tokenStatusInProcess:
		return StatusInProgress
	default:
		return DefaultStatus
	}
}

// NormalizePriority maps a backend prioridad to the display vocabulary.
func NormalizePriority(raw jsonval.Value) Priority {
	token, _ := raw.AsString()
	switch token {
	case tokenPriorityHigh:
		return PriorityHigh
	case tokenPriorityMedium:
		return PriorityMedium
	default:
		return DefaultPriority
	}
}

// NormalizeActivity maps a backend tipoServicio to the display vocabulary.
func NormalizeActivity(raw jsonval.Value) Activity {
	token, _ := raw.AsString()
	switch token {
	case tokenActivityInstall:
		return ActivityInstallation
	case tokenActivityRepair:
		return ActivityRepair
	default:
		return DefaultActivity
	}
}
