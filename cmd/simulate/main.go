package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"member-portal-be/internal/service"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Sends signed, canned processor deliveries at a locally running server.
// Useful for exercising the pipeline end to end without the real processor.

type scenario struct {
	name       string
	eventType  string
	metadata   map[string]string
	resend     bool   // deliver the same event id twice
	breakSig   bool   // tamper after signing
	wantStatus int
	wantBody   string // substring match, empty to skip
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000/api/webhook/payment", "webhook endpoint")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	secret := os.Getenv("WEBHOOK_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("Error: WEBHOOK_SIGNING_SECRET is not set")
	}
	signer := service.NewSignatureVerifier(secret, 5*time.Minute)

	cartJSON := `[{"tierId":"premium-member","name":"Premium Membership","price":249.00,"quantity":1}]`
	customerJSON := `{"name":"Dewi Lestari","email":"dewi.lestari@example.com"}`
	businessJSON := `{"businessName":"Lestari Consulting","businessType":"services"}`
	contactJSON := `{"firstName":"Dewi","lastName":"Lestari","phone":"+62-812-000-1111"}`

	scenarios := []scenario{
		{
			name:      "new customer checkout",
			eventType: "checkout.session.completed",
			metadata: map[string]string{
				"cart":         cartJSON,
				"customerInfo": customerJSON,
				"businessInfo": businessJSON,
				"contactInfo":  contactJSON,
				"isNewUser":    "true",
			},
			wantStatus: 200,
		},
		{
			name:      "duplicate delivery",
			eventType: "checkout.session.completed",
			metadata: map[string]string{
				"cart":         cartJSON,
				"customerInfo": customerJSON,
			},
			resend:     true,
			wantStatus: 200,
		},
		{
			name:      "malformed cart",
			eventType: "payment_intent.succeeded",
			metadata: map[string]string{
				"cart":         `{"not":"an array"`,
				"customerInfo": customerJSON,
			},
			wantStatus: 200,
			wantBody:   `"flagged":true`,
		},
		{
			name:      "tampered signature",
			eventType: "checkout.session.completed",
			metadata: map[string]string{
				"cart":         cartJSON,
				"customerInfo": customerJSON,
			},
			breakSig:   true,
			wantStatus: 400,
		},
	}

	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	info := color.New(color.FgCyan)

	fmt.Println("=== Webhook Pipeline Simulation Client ===")
	failures := 0

	for _, sc := range scenarios {
		info.Printf("\n--> %s\n", sc.name)

		eventId := "evt_sim_" + uuid.NewString()[:8]
		body := buildEvent(eventId, sc.eventType, sc.metadata)

		deliveries := 1
		if sc.resend {
			deliveries = 2
		}
		for i := 0; i < deliveries; i++ {
			header := signer.Sign(time.Now(), body)
			if sc.breakSig {
				header += "00"
			}

			status, respBody, err := deliver(*baseURL, body, header)
			if err != nil {
				fail.Printf("    delivery error: %v\n", err)
				failures++
				continue
			}

			ok := status == sc.wantStatus
			if ok && sc.wantBody != "" {
				ok = bytes.Contains(respBody, []byte(sc.wantBody))
			}
			if ok {
				pass.Printf("    [PASS] ")
			} else {
				fail.Printf("    [FAIL] ")
				failures++
			}
			fmt.Printf("delivery %d: HTTP %d %s\n", i+1, status, string(respBody))
		}
	}

	fmt.Println()
	if failures > 0 {
		fail.Printf("%d scenario(s) failed\n", failures)
		os.Exit(1)
	}
	pass.Println("All scenarios passed")
}

func buildEvent(eventId, eventType string, metadata map[string]string) []byte {
	payload := map[string]interface{}{
		"id":   eventId,
		"type": eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "cs_sim_" + uuid.NewString()[:8],
				"amount":   24900,
				"currency": "usd",
				"customer": "cus_sim_001",
				"metadata": metadata,
			},
		},
	}
	b, _ := json.Marshal(payload)
	return b
}

func deliver(url string, body []byte, signatureHeader string) (int, []byte, error) {
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("signature", signatureHeader)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, nil
}
