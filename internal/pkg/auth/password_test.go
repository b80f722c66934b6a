// internal/pkg/auth/password_test.go
package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	hash, err := manager.HashPassword("Correct7Horse")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "Correct7Horse" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := manager.VerifyPassword("Correct7Horse", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := manager.VerifyPassword("Wrong7Horse", hash); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Correct7Horse", false},
		{"too short", "Ab1x", true},
		{"no uppercase", "correct7horse", true},
		{"no lowercase", "CORRECT7HORSE", true},
		{"no number", "CorrectHorse", true},
		{"common substring", "MyPassword123", true},
		{"common qwerty", "Qwerty123456", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateTemporaryPassword(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	password, err := manager.GenerateTemporaryPassword()
	if err != nil {
		t.Fatalf("failed to generate password: %v", err)
	}
	if err := manager.ValidatePassword(password); err != nil {
		t.Errorf("generated password fails validation: %v", err)
	}

	other, err := manager.GenerateTemporaryPassword()
	if err != nil {
		t.Fatalf("failed to generate password: %v", err)
	}
	if password == other {
		t.Error("two generated passwords were identical")
	}
}
