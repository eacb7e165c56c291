package payments

import (
	"time"

	"gorm.io/datatypes"
)

// ProviderEvent is the audit/dedup record for every delivered webhook event.
// The (provider, event_id) unique index serializes duplicate deliveries: the
// loser of a concurrent race blocks on the index until the winner commits,
// then observes the duplicate and acknowledges without reprocessing.
type ProviderEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	Provider    string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_events_provider_event,priority:1"`
	EventID     string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_provider_events_provider_event,priority:2"`
	EventType   string         `gorm:"type:varchar(64);not null"`
	SessionID   string         `gorm:"type:varchar(128);index:ix_provider_events_session"`
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`

	ReceivedAt  time.Time  `gorm:"type:datetime(3);not null"`
	ProcessedAt *time.Time `gorm:"type:datetime(3)"`
}

func (ProviderEvent) TableName() string { return "provider_events" }
