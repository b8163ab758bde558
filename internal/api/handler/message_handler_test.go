package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

func TestMessageHandler_Post(t *testing.T) {
	svc := &stubMessageService{
		postFn: func(ctx context.Context, in ports.PostMessageInput) (*domain.Message, error) {
			if in.Text != "hello" || in.SenderRole != "client" || in.ContactRequestID != "cr_1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Message{ID: "m_1", ContactRequestID: in.ContactRequestID, SenderRole: domain.RoleClient, Text: in.Text}, nil
		},
	}
	h := NewMessageHandler(svc)

	c, rec := newContext(http.MethodPost, "/messages",
		`{"contact_request_id":"cr_1","sender_id":"C1","sender_name":"Ann","sender_role":"client","message":"hello"}`)
	if err := h.Post(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var out domain.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.ID != "m_1" || out.SenderRole != domain.RoleClient {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestMessageHandler_Post_ValidationError(t *testing.T) {
	svc := &stubMessageService{
		postFn: func(ctx context.Context, in ports.PostMessageInput) (*domain.Message, error) {
			return nil, domain.Invalid("all fields are required")
		},
	}
	h := NewMessageHandler(svc)

	c, _ := newContext(http.MethodPost, "/messages", `{"message":"hello"}`)
	if err := h.Post(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMessageHandler_List(t *testing.T) {
	svc := &stubMessageService{
		listFn: func(ctx context.Context, id string) ([]*domain.Message, error) {
			return []*domain.Message{{ID: "m_1", ContactRequestID: id}, {ID: "m_2", ContactRequestID: id}}, nil
		},
	}
	h := NewMessageHandler(svc)

	c, rec := newContext(http.MethodGet, "/messages/cr_1", "")
	c.SetParamNames("contactRequestId")
	c.SetParamValues("cr_1")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var out []domain.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out) != 2 || out[0].ID != "m_1" || out[1].ContactRequestID != "cr_1" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestMessageHandler_MarkRead(t *testing.T) {
	svc := &stubMessageService{
		markReadFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return domain.ErrMessageNotFound
			}
			return nil
		},
	}
	h := NewMessageHandler(svc)

	c, rec := newContext(http.MethodPut, "/messages/m_1/read", "")
	c.SetParamNames("id")
	c.SetParamValues("m_1")
	if err := h.MarkRead(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPut, "/messages/missing/read", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.MarkRead(c); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
