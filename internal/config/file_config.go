package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the environment keys so a deployment can ship one YAML file instead of many variables.
type FileConfig struct {
	Port           string `yaml:"port"`
	AppName        string `yaml:"app_name"`
	Env            string `yaml:"env"`
	DataFolder     string `yaml:"data_folder"`
	LogLevel       string `yaml:"log_level"`
	AllowedOrigins string `yaml:"cors_allowed_origins"`

	API struct {
		BaseURL       string `yaml:"base_url"`
		Timeout       string `yaml:"timeout"`
		RedirectDelay string `yaml:"redirect_delay"`
	} `yaml:"api"`

	Storage struct {
		Backend       string `yaml:"backend"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       string `yaml:"redis_db"`
		RedisPrefix   string `yaml:"redis_prefix"`
	} `yaml:"storage"`

	MockAPI struct {
		Port       string `yaml:"port"`
		Latency    string `yaml:"latency"`
		SigningKey string `yaml:"signing_key"`
		UsersFile  string `yaml:"users_file"`
	} `yaml:"mock_api"`
}

func (f FileConfig) values() map[string]string {
	return map[string]string{
		portEnvVar:           f.Port,
		appNameVar:           f.AppName,
		"ENV":                f.Env,
		folderEnvVar:         f.DataFolder,
		logLevelEnvVar:       f.LogLevel,
		allowedOriginsVar:    f.AllowedOrigins,
		apiBaseURLVar:        f.API.BaseURL,
		apiTimeoutVar:        f.API.Timeout,
		redirectDelayVar:     f.API.RedirectDelay,
		storageBackendVar:    f.Storage.Backend,
		redisAddrVar:         f.Storage.RedisAddr,
		redisPasswordVar:     f.Storage.RedisPassword,
		redisDBVar:           f.Storage.RedisDB,
		redisPrefixVar:       f.Storage.RedisPrefix,
		mockAPIPortVar:       f.MockAPI.Port,
		mockAPILatencyVar:    f.MockAPI.Latency,
		mockAPISigningKeyVar: f.MockAPI.SigningKey,
		mockAPIUsersFileVar:  f.MockAPI.UsersFile,
	}
}

// Load fills unset environment variables from dotEnvPath and then from yamlPath.
// Variables already present in the process environment always win. Either path may be empty.
func Load(dotEnvPath, yamlPath string) (Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("[config Load] failed to load %s: %w", dotEnvPath, err)
			}
		}
	}

	if yamlPath != "" {
		fc, err := ReadFile(yamlPath)
		if err != nil {
			return nil, err
		}
		for k, v := range fc.values() {
			if v == "" {
				continue
			}
			if _, set := os.LookupEnv(k); set {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return nil, fmt.Errorf("[config Load] failed to set %s: %w", k, err)
			}
		}
	}

	return New(), nil
}

// ReadFile parses a YAML configuration file.
func ReadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fc, fmt.Errorf("[config ReadFile] failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("[config ReadFile] failed to parse %s: %w", path, err)
	}
	return fc, nil
}
