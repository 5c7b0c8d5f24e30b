package domain

// JobStatus статус асинхронной задачи извлечения
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"    // Задача создана, ожидает обработки
	JobStatusProcessing JobStatus = "processing" // Задача в обработке
	JobStatusCompleted  JobStatus = "completed"  // Текст извлечён
	JobStatusFailed     JobStatus = "failed"     // Задача завершилась с ошибкой
)

// IsValid проверяет валидность статуса
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsFinal проверяет, является ли статус финальным
func (s JobStatus) IsFinal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

func (s JobStatus) String() string {
	return string(s)
}
