package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestAfricasTalking_Send(t *testing.T) {
	var gotForm map[string]string
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != messagingPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotKey = r.Header.Get("apiKey")
		gotForm = map[string]string{
			"username": r.PostForm.Get("username"),
			"to":       r.PostForm.Get("to"),
			"message":  r.PostForm.Get("message"),
			"from":     r.PostForm.Get("from"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"SMSMessageData":{"Message":"Sent to 2/2","Recipients":[
			{"statusCode":101,"number":"+254711111111","status":"Success","messageId":"a"},
			{"statusCode":102,"number":"+254722222222","status":"Queued","messageId":"b"}]}}`))
	}))
	defer srv.Close()

	gw := NewAfricasTalking(Config{Username: "sandbox", APIKey: "key", SenderID: "KIND", BaseURL: srv.URL})
	err := gw.Send(context.Background(), []string{"+254711111111", "+254722222222"}, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "key" {
		t.Errorf("expected apiKey header, got %q", gotKey)
	}
	want := map[string]string{"username": "sandbox", "to": "+254711111111,+254722222222", "message": "hello", "from": "KIND"}
	for k, v := range want {
		if gotForm[k] != v {
			t.Errorf("form %s: expected %q, got %q", k, v, gotForm[k])
		}
	}
}

func TestAfricasTalking_RejectedRecipient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"SMSMessageData":{"Recipients":[{"statusCode":403,"number":"+1","status":"InvalidPhoneNumber"}]}}`))
	}))
	defer srv.Close()

	err := NewAfricasTalking(Config{APIKey: "k", BaseURL: srv.URL}).Send(context.Background(), []string{"+1"}, "x")

	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if de.Failed["+1"] != "InvalidPhoneNumber" {
		t.Errorf("unexpected failures: %v", de.Failed)
	}
}

func TestAfricasTalking_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The supplied authentication is invalid", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewAfricasTalking(Config{APIKey: "bad", BaseURL: srv.URL}).Send(context.Background(), []string{"+1"}, "x")

	var de *DeliveryError
	if !errors.As(err, &de) || de.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 DeliveryError, got %v", err)
	}
}

func TestNew_WithoutKeyLogsOnly(t *testing.T) {
	gw := New(Config{}, zerolog.Nop())
	if _, ok := gw.(*LogGateway); !ok {
		t.Fatalf("expected LogGateway, got %T", gw)
	}
	if err := gw.Send(context.Background(), []string{"+1"}, "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
