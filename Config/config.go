package Config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config holds the runtime configuration for the workspace server.
// Values are layered: built-in defaults, then config.json5 if present,
// then environment variables for anything secret.
type Config struct {
	Port                string `json:"port"`
	DatabasePath        string `json:"database_path"`
	LeadPasscode        string `json:"lead_passcode"`
	MemberPasscode      string `json:"member_passcode"`
	SyncIntervalSeconds int    `json:"sync_interval_seconds"`
	BackupDir           string `json:"backup_dir"`
	BackupSchedule      string `json:"backup_schedule"`
	DigestSchedule      string `json:"digest_schedule"`
	SlackChannel        string `json:"slack_channel"`
	RequireBlockers     bool   `json:"require_blocker_disclosure"`
	SeedDemoTask        bool   `json:"seed_demo_task"`
}

func Default() Config {
	return Config{
		Port:                "8080",
		DatabasePath:        "workspace.db",
		LeadPasscode:        "admin123",
		MemberPasscode:      "team2024",
		SyncIntervalSeconds: 5,
		BackupDir:           "backups",
		BackupSchedule:      "0 0 2 * * *",
		DigestSchedule:      "0 0 18 * * *",
	}
}

// Load reads configuration from the given json5 file, falling back to
// defaults when the file is absent. A .env file is loaded first so that
// environment overrides below pick it up.
func Load(path string) Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json5.Unmarshal(data, &cfg); err != nil {
			log.Printf("Error parsing %s: %v (using defaults)", path, err)
			cfg = Default()
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if lead := os.Getenv("LEAD_PASSCODE"); lead != "" {
		cfg.LeadPasscode = lead
	}
	if member := os.Getenv("MEMBER_PASSCODE"); member != "" {
		cfg.MemberPasscode = member
	}

	return cfg
}

// JWTSecret returns the signing key for session cookies.
func JWTSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "secret"
}
