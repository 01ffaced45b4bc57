package config

import "time"

const (
	mockAPIPortVar       = "MOCK_API_PORT"
	mockAPILatencyVar    = "MOCK_API_LATENCY"
	mockAPISigningKeyVar = "MOCK_API_SIGNING_KEY"
	mockAPIUsersFileVar  = "MOCK_API_USERS_FILE"
)

type MockAPI struct{}

var _ MockAPIConfig = MockAPI{}

func (MockAPI) GetMockAPIPort() string {
	return portAddr(GetEnv(mockAPIPortVar, "8081"))
}

func (MockAPI) GetMockAPILatency() time.Duration {
	return GetEnvDuration(mockAPILatencyVar, 500*time.Millisecond)
}

func (MockAPI) GetMockAPISigningKey() string {
	return GetEnv(mockAPISigningKeyVar, "dev-signing-key")
}

// GetMockAPIUsersFile points at a YAML user directory; empty means any credentials are accepted
func (MockAPI) GetMockAPIUsersFile() string {
	return GetEnv(mockAPIUsersFileVar, "")
}
