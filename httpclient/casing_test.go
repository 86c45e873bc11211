package httpclient

import "testing"

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"id", "id"},
		{"totalValue", "total_value"},
		{"refreshToken", "refresh_token"},
		{"subscriptionStatus", "subscription_status"},
		{"logoURL", "logo_url"},
		{"myURLProperty", "my_url_property"},
		{"ID", "id"},
		{"URLValue", "url_value"},
		{"address2Line", "address2_line"},
		{"address2", "address2"},
		{"institution_id", "institution_id"},
		{"already_snake_case", "already_snake_case"},
		{"a", "a"},
		{"aB", "a_b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SnakeCase(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"id", "id"},
		{"total_value", "totalValue"},
		{"subscription_status", "subscriptionStatus"},
		{"currency_code", "currencyCode"},
		{"refreshToken", "refreshToken"},
		{"logo_url", "logoUrl"},
		{"institution_id", "institutionId"},
		{"_private_key_", "_privateKey_"},
		{"__", "__"},
		{"a__b", "aB"},
		{"URL_VALUE", "urlValue"},
		{"address_2", "address2"},
		{"line_2_text", "line2Text"},
		{"single", "single"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CamelCase(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCasing_RoundTrip(t *testing.T) {
	keys := []string{"totalValue", "refreshToken", "subscriptionStatus", "monthlyRate", "id", "assetName", "logoUrl"}
	for _, k := range keys {
		t.Run(k, func(t *testing.T) {
			if got := CamelCase(SnakeCase(k)); got != k {
				t.Errorf("expected %q back, got %q (wire %q)", k, got, SnakeCase(k))
			}
		})
	}
}

func TestCasing_DigitSegments(t *testing.T) {
	wire := "address_2"
	camel := CamelCase(wire)
	if camel != "address2" {
		t.Fatalf("expected address2, got %q", camel)
	}
	if got := SnakeCase(camel); got != "address2" {
		t.Errorf("expected digit segment to stay joined, got %q", got)
	}
	if got := CamelCase(SnakeCase(camel)); got != camel {
		t.Errorf("expected in-memory key stable, got %q", got)
	}
}
