package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Sends a signed checkout.session.completed or checkout.session.expired
// event to a local webhook endpoint, using Stripe's t=<ts>,v1=<hmac> header
// scheme, so the full webhook path can be exercised without Stripe CLI.
func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/stripe", "Webhook URL")
	secret := flag.String("secret", os.Getenv("STRIPE_WEBHOOK_SECRET_TEST"), "Webhook signing secret")
	eventID := flag.String("event-id", "evt_"+randomHex(12), "Event ID")
	eventType := flag.String("type", "checkout.session.completed", "Event type (checkout.session.completed, checkout.session.expired)")
	sessionID := flag.String("session", "cs_test_"+randomHex(12), "Checkout session ID")
	email := flag.String("email", "customer@example.com", "Customer email")
	name := flag.String("name", "Test Customer", "Customer name")
	withShipping := flag.Bool("shipping", false, "Include a complete shipping address")
	dryRun := flag.Bool("dry-run", false, "Only print body and signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret (or STRIPE_WEBHOOK_SECRET_TEST)")
		os.Exit(1)
	}

	paymentStatus := "paid"
	sessionStatus := "complete"
	if *eventType == "checkout.session.expired" {
		paymentStatus = "unpaid"
		sessionStatus = "expired"
	}

	session := map[string]any{
		"id":             *sessionID,
		"object":         "checkout.session",
		"payment_status": paymentStatus,
		"status":         sessionStatus,
		"customer_details": map[string]any{
			"email": *email,
			"name":  *name,
			"phone": "+15555550100",
		},
	}
	if paymentStatus == "paid" {
		session["payment_intent"] = "pi_" + randomHex(12)
	}
	if *withShipping {
		session["shipping_details"] = map[string]any{
			"name": *name,
			"address": map[string]any{
				"line1":       "120 Aperture Lane",
				"city":        "Portland",
				"state":       "OR",
				"postal_code": "97201",
				"country":     "US",
			},
		}
	}

	event := map[string]any{
		"id":      *eventID,
		"object":  "event",
		"type":    *eventType,
		"created": time.Now().Unix(),
		"data":    map[string]any{"object": session},
	}

	body, err := json.Marshal(event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}

	ts := time.Now().Unix()
	sigHeader := "t=" + strconv.FormatInt(ts, 10) + ",v1=" + sign(*secret, ts, body)

	if *dryRun {
		fmt.Printf("Stripe-Signature: %s\n\n%s\n", sigHeader, body)
		return
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", sigHeader)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s %s\n%s\n", resp.Status, *eventType, respBody)
}

func sign(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, body)
	return hex.EncodeToString(mac.Sum(nil))
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)[:n]
}
