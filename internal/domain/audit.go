package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records an admin or user action for compliance and debugging
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // What action (transaction.approve, plan.create, etc.)
	ResourceType string // Type of resource (transaction, plan, wallet, user)
	ResourceID   string // ID of the resource
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionTransactionApprove AuditAction = "transaction.approve"
	AuditActionTransactionReject  AuditAction = "transaction.reject"
	AuditActionAdjustmentCreate   AuditAction = "adjustment.create"
	AuditActionPlanCreate         AuditAction = "plan.create"
	AuditActionPlanUpdate         AuditAction = "plan.update"
	AuditActionPlanDelete         AuditAction = "plan.delete"
	AuditActionSystemWalletCreate AuditAction = "wallet.system.create"
	AuditActionUserDelete         AuditAction = "user.delete"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
