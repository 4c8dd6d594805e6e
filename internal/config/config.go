package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	ListenAddr  string
	OpsAddr     string
	DataFile    string
	MaxSessions int
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Defaults match the standalone single-host deployment.
	env := Config{
		ListenAddr:  ":8080",
		OpsAddr:     ":9446",
		DataFile:    "bank_data.json",
		MaxSessions: 5,
	}

	envListenAddr := os.Getenv("BANK_LISTEN_ADDR")
	envOpsAddr := os.Getenv("BANK_OPS_ADDR")
	envDataFile := os.Getenv("BANK_DATA_FILE")
	envMaxSessions := os.Getenv("BANK_MAX_SESSIONS")

	if len(envListenAddr) != 0 {
		env.ListenAddr = envListenAddr
	}

	if len(envOpsAddr) != 0 {
		env.OpsAddr = envOpsAddr
	}

	if len(envDataFile) != 0 {
		env.DataFile = envDataFile
	}

	if len(envMaxSessions) != 0 {
		maxSessions, err := strconv.Atoi(envMaxSessions)
		if err != nil || maxSessions < 1 {
			return nil, fmt.Errorf("BANK_MAX_SESSIONS must be a positive integer, got %q", envMaxSessions)
		}
		env.MaxSessions = maxSessions
	}

	return &env, nil
}
