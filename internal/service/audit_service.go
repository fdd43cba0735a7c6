package service

import (
	"context"
	"encoding/json"
	"time"

	"bookerp/internal/model"
	"bookerp/internal/repository"
)

type AuditLogResponse struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id,omitempty"`
	Username   string      `json:"username,omitempty"`
	Action     string      `json:"action"`
	EntityID   string      `json:"entity_id"`
	EntityName string      `json:"entity_name,omitempty"`
	Details    interface{} `json:"details"`
	CreatedAt  string      `json:"created_at"`
}

type AuditService interface {
	List(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) List(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	entries, total, err := s.auditRepo.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AuditLogResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toAuditResponse(&entries[i]))
	}
	return responses, total, nil
}

func toAuditResponse(entry *model.AuditLog) AuditLogResponse {
	res := AuditLogResponse{
		ID:         entry.ID.String(),
		Action:     entry.Action,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.UserID != nil {
		res.UserID = entry.UserID.String()
	}
	if entry.User != nil {
		res.Username = entry.User.Username
	}

	// Details is stored as a jsonb string; decode so clients see structure.
	var decoded interface{}
	if err := json.Unmarshal([]byte(entry.Details), &decoded); err == nil {
		res.Details = decoded
	} else {
		res.Details = entry.Details
	}
	return res
}
