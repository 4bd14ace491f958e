package util

import (
	"testing"
)

func TestMain(m *testing.M) {
	LogInit("error")
	m.Run()
}

func TestGetRandStringVariousLengths(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"Zero length", 0},
		{"Single character", 1},
		{"Small string", 5},
		{"Medium string", 10},
		{"Large string", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetRandString(tt.length)

			if len(result) != tt.length {
				t.Errorf("GetRandString(%d) = length %d, expected %d", tt.length, len(result), tt.length)
			}

			for i, char := range result {
				if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')) {
					t.Errorf("GetRandString(%d) contains non-letter at position %d: %c", tt.length, i, char)
				}
			}
		})
	}
}

func TestRegisterNewConfigListener(t *testing.T) {
	config_listeners = []func(){}

	called1 := false
	called2 := false

	listener1 := func() { called1 = true }
	listener2 := func() { called2 = true }

	RegisterNewConfigListener(listener1)
	RegisterNewConfigListener(listener2)

	if len(config_listeners) != 2 {
		t.Errorf("Expected 2 listeners, got %d", len(config_listeners))
	}

	// Duplicate listeners are not added.
	RegisterNewConfigListener(listener1)

	if len(config_listeners) != 2 {
		t.Errorf("Expected 2 listeners after duplicate addition, got %d", len(config_listeners))
	}

	OnNewConfig()

	if !called1 || !called2 {
		t.Error("OnNewConfig should call all registered listeners")
	}
}

func TestSetupConfigDefaults(t *testing.T) {
	SetupConfig()

	if Config.GetString("Broker_URI") == "" {
		t.Error("Broker_URI default should not be empty")
	}
	if Config.GetString("Id_Base") != "audio_controller" {
		t.Errorf("Id_Base default = %s, expected audio_controller", Config.GetString("Id_Base"))
	}
	if Config.GetString("Log_Level") != "info" {
		t.Errorf("Log_Level default = %s, expected info", Config.GetString("Log_Level"))
	}
	if Config.GetInt("Details_Port") == 0 {
		t.Error("Details_Port default should not be zero")
	}
	if !Config.GetBool("Clear_On_Start") {
		t.Error("Clear_On_Start should default to true")
	}
	if Config.GetBool("Console") {
		t.Error("Console should default to false")
	}
}
