package availability

// Outcome результат обновления расписания, идет только в логи и метрики
type Outcome string

const (
	OutcomeUpdated        Outcome = "updated"
	OutcomeNoMatchingSlot Outcome = "no_matching_slot"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeFailed         Outcome = "failed"
)

// SlotState состояние слота при предварительной проверке
type SlotState string

const (
	SlotStateOpen    SlotState = "open"
	SlotStateTaken   SlotState = "taken"
	SlotStateUnknown SlotState = "unknown"
)
