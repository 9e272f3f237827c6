package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"chat-thread/domain"
	"chat-thread/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MyPassw0rdIsS0Safe!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "not-a-hash")
	req.Error(err)
}

func TestRegisterCommandValidation(t *testing.T) {
	validate := NewValidator()
	tests := []struct {
		name    string
		cmd     domain.RegisterCommand
		wantErr error
		reason  string
	}{
		{"valid", domain.RegisterCommand{Email: "test@example.com", Password: "ComplexPass123!"}, nil, ""},
		{"invalid email", domain.RegisterCommand{Email: "notanemail", Password: "ComplexPass123!"}, errors.ErrInvalidRegistration, "email must be a valid email address"},
		{"missing email", domain.RegisterCommand{Password: "ComplexPass123!"}, errors.ErrInvalidRegistration, "email is required"},
		{"too short", domain.RegisterCommand{Email: "test@example.com", Password: "Short1!"}, errors.ErrInvalidPassword, "password must be at least 12 long"},
		{"too long", domain.RegisterCommand{Email: "test@example.com", Password: strings.Repeat("a", 73)}, errors.ErrInvalidPassword, "password must be at most 72 long"},
		{"missing digit", domain.RegisterCommand{Email: "test@example.com", Password: "NoDigitPass!"}, errors.ErrInvalidPassword, "password must mix"},
		{"missing symbol", domain.RegisterCommand{Email: "test@example.com", Password: "NoSpecialChar123"}, errors.ErrInvalidPassword, "password must mix"},
		{"missing uppercase", domain.RegisterCommand{Email: "test@example.com", Password: "nouppercase123!"}, errors.ErrInvalidPassword, "password must mix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := validate.Struct(tt.cmd)
			if tt.wantErr == nil {
				req.NoError(err)
				return
			}
			req.Error(err)
			err = RegistrationError(err)
			req.ErrorIs(err, tt.wantErr)
			req.Contains(err.Error(), tt.reason)
		})
	}
}

func TestExplain_CommandFields(t *testing.T) {
	err := NewValidator().Struct(domain.PostMessageCommand{ConversationID: uuid.New(), SenderID: "alice", ReceiverID: "alice"})

	require.Equal(t, "receiverid must differ from senderid; content is required", Explain(err))
}

func TestToken_RoundTrip(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.GenerateToken("user-1", []string{"user"})
	req.NoError(err)

	claims, err := issuer.ValidateToken(token)
	req.NoError(err)
	req.Equal("user-1", claims.UserID)

	ctx := WithClaims(context.Background(), claims)
	userID, ok := UserID(ctx)
	req.True(ok)
	req.Equal("user-1", userID)
}

func TestToken_Rejected(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)

	// Signed with another secret
	forged, err := NewTokenIssuer("other-secret", time.Hour).GenerateToken("user-1", nil)
	req.NoError(err)
	_, err = issuer.ValidateToken(forged)
	req.Error(err)

	// Expired
	expired, err := NewTokenIssuer("test-secret", -time.Minute).GenerateToken("user-1", nil)
	req.NoError(err)
	_, err = issuer.ValidateToken(expired)
	req.Error(err)

	_, ok := UserID(context.Background())
	req.False(ok)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
