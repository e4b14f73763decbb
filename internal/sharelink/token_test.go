package sharelink

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if len(token) != TokenLength {
		t.Errorf("GenerateToken() length = %d, want %d", len(token), TokenLength)
	}
	if strings.ToLower(token) != token {
		t.Errorf("GenerateToken() = %q, want lowercase hex", token)
	}
	for _, r := range token {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("GenerateToken() contains non-hex character %q", r)
		}
	}
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	hashes := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		token, err := GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if seen[token] {
			t.Fatalf("GenerateToken() produced duplicate token after %d iterations", i)
		}
		seen[token] = true

		h := HashToken(token)
		if hashes[h] {
			t.Fatalf("HashToken() produced duplicate fingerprint after %d iterations", i)
		}
		hashes[h] = true
	}
}

func TestHashToken(t *testing.T) {
	token := "a-share-token"

	h1 := HashToken(token)
	h2 := HashToken(token)
	if h1 != h2 {
		t.Errorf("HashToken() not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("HashToken() length = %d, want 64 (hex SHA-256)", len(h1))
	}
	if h1 == token {
		t.Error("HashToken() returned its input")
	}
	if HashToken("another-token") == h1 {
		t.Error("HashToken() collided on distinct inputs")
	}
}

func TestVerifyToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	other, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	fingerprint := HashToken(token)

	tests := []struct {
		name        string
		presented   string
		fingerprint string
		want        bool
	}{
		{"matching token", token, fingerprint, true},
		{"wrong token", other, fingerprint, false},
		{"empty token", "", fingerprint, false},
		{"empty fingerprint", token, "", false},
		{"both empty", "", "", false},
		{"truncated token", token[:32], fingerprint, false},
		{"token with extra byte", token + "0", fingerprint, false},
		{"fingerprint not hex", token, strings.Repeat("z", 64), false},
		{"fingerprint wrong length", token, fingerprint[:40], false},
		{"fingerprint of fingerprint", fingerprint, fingerprint, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyToken(tt.presented, tt.fingerprint); got != tt.want {
				t.Errorf("VerifyToken(%.12q..., %.12q...) = %v, want %v", tt.presented, tt.fingerprint, got, tt.want)
			}
		})
	}
}

// TestVerifyToken_TimingInvariance does a coarse statistical check that the
// comparison cost does not depend on where the first differing byte is.
// Timing measurements are noisy on shared CI machines, so this only runs
// when RUN_TIMING_TESTS is set and only flags an order-of-magnitude skew.
func TestVerifyToken_TimingInvariance(t *testing.T) {
	if os.Getenv("RUN_TIMING_TESTS") == "" {
		t.Skip("Skipping timing test: RUN_TIMING_TESTS not set")
	}

	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	fingerprint := HashToken(token)

	// A token differing in the first byte and one differing in the last.
	early := flipHexChar(token, 0)
	late := flipHexChar(token, len(token)-1)

	const rounds = 200000
	measure := func(presented string) time.Duration {
		start := time.Now()
		for i := 0; i < rounds; i++ {
			if VerifyToken(presented, fingerprint) {
				t.Fatal("mismatched token verified")
			}
		}
		return time.Since(start)
	}

	// Warm up, then interleave to average out scheduler noise.
	measure(early)
	measure(late)
	earlyTotal := measure(early) + measure(early)
	lateTotal := measure(late) + measure(late)

	ratio := float64(earlyTotal) / float64(lateTotal)
	if ratio < 0.5 || ratio > 2.0 {
		t.Errorf("verification time correlates with mismatch position: early/late ratio = %.2f", ratio)
	}
}

func flipHexChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'a' {
		b[i] = 'b'
	} else {
		b[i] = 'a'
	}
	return string(b)
}
