package process_notification

// Outcome исход обработки уведомления
type Outcome string

const (
	// OutcomeProcessed сессия и платеж созданы
	OutcomeProcessed Outcome = "processed"
	// OutcomeDuplicate уведомление по заказу уже обработано
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeNotSuccessful шлюз сообщил о неуспешной оплате, записан только журнал
	OutcomeNotSuccessful Outcome = "not_successful"
	// OutcomeAlreadyCompleted бронирование уже завершено другим путем
	OutcomeAlreadyCompleted Outcome = "already_completed"
)

// Response результат обработки уведомления
type Response struct {
	Outcome   Outcome
	SessionID string
	// RoomProvisioned false для chat сессий и при сбое провайдера комнат
	RoomProvisioned bool
}
