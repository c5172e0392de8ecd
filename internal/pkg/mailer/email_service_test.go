package mailer

import (
	"strings"
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name        string
		templateKey string
		data        map[string]interface{}
		wantSubject string
		wantInBody  []string
		wantErr     bool
	}{
		{
			name:        "member welcome",
			templateKey: TemplateMemberWelcome,
			data:        map[string]interface{}{"name": "Dewi Lestari", "tier": "premium"},
			wantSubject: "Welcome to the Member Portal",
			wantInBody:  []string{"Dewi Lestari", "premium"},
		},
		{
			name:        "payment receipt",
			templateKey: TemplatePaymentReceipt,
			data:        map[string]interface{}{"amount": "249.00", "currency": "usd", "tier": "premium", "event_id": "evt_1"},
			wantSubject: "Payment Received",
			wantInBody:  []string{"249.00", "usd", "evt_1"},
		},
		{
			name:        "admin alert",
			templateKey: TemplateMembershipAdminAlert,
			data:        map[string]interface{}{"name": "Dewi", "email": "dewi@example.com", "tier": "partner", "event_id": "evt_2"},
			wantSubject: "New membership payment processed",
			wantInBody:  []string{"dewi@example.com", "partner", "evt_2"},
		},
		{
			name:        "missing keys render empty, not panic",
			templateKey: TemplatePaymentReceipt,
			data:        nil,
			wantSubject: "Payment Received",
		},
		{
			name:        "unknown template",
			templateKey: "password-reset",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body, err := renderTemplate(tt.templateKey, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("renderTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			for _, want := range tt.wantInBody {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}
