// pkg/config/env.go
package config

import (
	"os"
	"strconv"
)

// Environment variables read by ApplyEnvironmentOverrides.
const (
	EnvBodyCount   = "BALLPIT_BODY_COUNT"
	EnvSeed        = "BALLPIT_SEED"
	EnvGravityY    = "BALLPIT_GRAVITY_Y"
	EnvMaxSubSteps = "BALLPIT_MAX_SUBSTEPS"
	EnvFrameRate   = "BALLPIT_FRAME_RATE"
	EnvTimeScale   = "BALLPIT_TIME_SCALE"
	EnvRenderer    = "BALLPIT_RENDERER"
	EnvHealthAddr  = "BALLPIT_HEALTH_ADDR"
)

// ApplyEnvironmentOverrides applies BALLPIT_* environment variables on top of
// config and validates the result. Unparseable values leave the field as is.
func ApplyEnvironmentOverrides(config *SimulationConfig) error {
	config.Bodies.Count = getEnvAsIntOrDefault(EnvBodyCount, config.Bodies.Count)
	config.Bodies.Seed = uint64(getEnvAsIntOrDefault(EnvSeed, int(config.Bodies.Seed)))
	config.Physics.GravityY = getEnvAsFloatOrDefault(EnvGravityY, config.Physics.GravityY)
	config.Physics.MaxSubSteps = getEnvAsIntOrDefault(EnvMaxSubSteps, config.Physics.MaxSubSteps)
	config.Display.FrameRate = getEnvAsIntOrDefault(EnvFrameRate, config.Display.FrameRate)
	config.Display.TimeScale = getEnvAsFloatOrDefault(EnvTimeScale, config.Display.TimeScale)
	config.Display.Renderer = getEnvOrDefault(EnvRenderer, config.Display.Renderer)
	config.Health.Address = getEnvOrDefault(EnvHealthAddr, config.Health.Address)

	return config.Validate()
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns environment variable as int or default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns environment variable as float64 or default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
