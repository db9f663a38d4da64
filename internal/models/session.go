package models

// SessionData — це дані сесії, що зберігаються в Redis за непрозорим
// токеном. Час життя обмежено TTL ключа; запис ніколи не змінюється.
type SessionData struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"` // unix мілісекунди
}
