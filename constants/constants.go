package constants

import (
	"os"
	"strings"
)

func getEnv(name string, fallback string) string {
	val := os.Getenv(name)
	if val != "" {
		return val
	}
	return fallback
}

func GetOutputDir() string {
	return getEnv("OUTPUT_DIR", "./datasets")
}

// GetLegacyLogPath is the file that collects urls of songs still served in
// the legacy xml format.
func GetLegacyLogPath() string {
	return getEnv("LEGACY_LOG", GetOutputDir()+"/old_xml_format.txt")
}

func GetLegacySink() string {
	return getEnv("LEGACY_SINK", "file")
}

func GetAPIURL() string {
	return strings.TrimSuffix(getEnv("API_URL", "https://api.hooktheory.com/v1/songs/public"), "/")
}

func GetSiteURL() string {
	return strings.TrimSuffix(getEnv("SITE_URL", "https://www.hooktheory.com"), "/")
}

func GetPort() string {
	return getEnv("PORT", "8080")
}

func GetDynamoEndpoint() string {
	return getEnv("DYNAMO_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return getEnv("DYNAMO_REGION", "localhost")
}

func GetDynamoTable() string {
	return getEnv("DYNAMO_TABLE", "theorytab-legacy")
}

// GetKafkaBrokers returns nil when publishing is disabled.
func GetKafkaBrokers() []string {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func GetKafkaTopic() string {
	return getEnv("KAFKA_TOPIC", "theorytab.songs")
}

const SongInfoFilename = "song_info.json"

// 4th-note resolution used when rendering sections to midi
const TicksPerBeat = 960
