package main

import (
	"os"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Circuit Repair Game Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	// Test with default level directory
	originalLevelDir := *levelDir
	*levelDir = "configs"
	defer func() { *levelDir = originalLevelDir }()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	gameService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_InvalidLevelDir(t *testing.T) {
	// Test with non-existent level directory
	originalLevelDir := *levelDir
	*levelDir = "/non/existent/path"
	defer func() { *levelDir = originalLevelDir }()

	_, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent level directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	// Test that flags have reasonable defaults
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *levelDir == "" {
		t.Error("Level directory should have a default value")
	}
}

// Note: We can't easily test main(), runHTTPServer(), and runStdioMCPWithInternalServer()
// without significant mocking or refactoring, as they start servers and block.
// These functions would be better tested in integration tests that start actual servers
// and test their endpoints.

func TestServiceInitialization(t *testing.T) {
	// Test that we can initialize services without panicking
	originalLevelDir := *levelDir
	*levelDir = "configs"
	defer func() { *levelDir = originalLevelDir }()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Service initialization panicked: %v", r)
		}
	}()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	_, err := initializeServices()
	if err != nil {
		// This is expected if levels are missing, but shouldn't panic
		t.Logf("Service initialization failed as expected: %v", err)
	}
}
