package storage

import "encoding/json"

// ActivityRecord — одно событие активности аккаунта на Polymarket.
// TxHash уникален и служит ключом дедупликации; остальные поля опциональны.
type ActivityRecord struct {
	TxHash       string
	Timestamp    int64 // seconds epoch, 0 если фид не прислал
	ProxyWallet  string
	ConditionID  string
	Type         string
	Side         string
	Asset        string
	Outcome      string
	OutcomeIndex int64
	Price        float64
	Size         float64
	UsdcSize     float64
	Title        string
	Slug         string
	EventSlug    string
	Icon         string

	// Исходный payload фида как есть — для аудита и на случай дрейфа схемы.
	Raw json.RawMessage
}
