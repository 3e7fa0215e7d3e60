package dto

import "time"

// PublishSyncMessage asks the consumer to run one reconciliation pass.
type PublishSyncMessage struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

type TriggerSyncRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=64"`
}
