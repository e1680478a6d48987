package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pvzzle/polywatch/internal/storage"
)

// ErrNoHash — у записи нет transactionHash; без него дедупликация
// невозможна, такую запись пропускаем.
var ErrNoHash = errors.New("feed: activity without transaction hash")

type rawActivity struct {
	TransactionHash string  `json:"transactionHash"`
	Timestamp       int64   `json:"timestamp"`
	ProxyWallet     string  `json:"proxyWallet"`
	ConditionID     string  `json:"conditionId"`
	Type            string  `json:"type"`
	Side            string  `json:"side"`
	Asset           string  `json:"asset"`
	Outcome         string  `json:"outcome"`
	OutcomeIndex    int64   `json:"outcomeIndex"`
	Price           float64 `json:"price"`
	Size            float64 `json:"size"`
	UsdcSize        float64 `json:"usdcSize"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	EventSlug       string  `json:"eventSlug"`
	Icon            string  `json:"icon"`
}

// Normalize маппит свободную форму фида в каноническую запись.
// Все поля, кроме transactionHash, опциональны: отсутствующие остаются
// нулевыми. Исходные байты сохраняются в Raw нетронутыми.
func Normalize(raw json.RawMessage) (storage.ActivityRecord, error) {
	var item rawActivity
	if err := json.Unmarshal(raw, &item); err != nil {
		return storage.ActivityRecord{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if strings.TrimSpace(item.TransactionHash) == "" {
		return storage.ActivityRecord{}, ErrNoHash
	}

	return storage.ActivityRecord{
		TxHash:       item.TransactionHash,
		Timestamp:    item.Timestamp,
		ProxyWallet:  item.ProxyWallet,
		ConditionID:  item.ConditionID,
		Type:         item.Type,
		Side:         item.Side,
		Asset:        item.Asset,
		Outcome:      item.Outcome,
		OutcomeIndex: item.OutcomeIndex,
		Price:        item.Price,
		Size:         item.Size,
		UsdcSize:     item.UsdcSize,
		Title:        item.Title,
		Slug:         item.Slug,
		EventSlug:    item.EventSlug,
		Icon:         item.Icon,
		Raw:          append(json.RawMessage(nil), raw...),
	}, nil
}
