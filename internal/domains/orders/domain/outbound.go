package domain

// The backend expects numeric catalogue identifiers. Creation and edition use
// different priority tables; both are kept as the backend defines them.
// Values outside a table map to 0.

var createActivityIDs = map[Activity]int{
	ActivityInstallation: 1,
	ActivityRepair:       2,
	ActivityMaintenance:  3,
}

var createPriorityIDs = map[Priority]int{
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

var editPriorityIDs = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

var editStatusIDs = map[Status]int{
	StatusOpen:       1,
	StatusInProgress: 2,
	StatusClosed:     4,
}

// ActivityID is the backend tipo de servicio id, shared by create and edit.
func ActivityID(a Activity) int { return createActivityIDs[a] }

// CreatePriorityID is the prioridad id used when creating an order.
func CreatePriorityID(p Priority) int { return createPriorityIDs[p] }

// EditPriorityID is the prioridad id used when editing an order.
func EditPriorityID(p Priority) int { return editPriorityIDs[p] }

// EditStatusID is the estado id used when editing an order.
func EditStatusID(s Status) int { return editStatusIDs[s] }
