package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	FirebaseApiKey  string

	CloudinaryCloudName   string
	CloudinaryImagePreset string
	CloudinaryVideoPreset string
	MediaFolderPrefix     string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:  getEnv("FIREBASE_API_KEY", ""),

		CloudinaryCloudName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryImagePreset: getEnv("CLOUDINARY_UPLOAD_PRESET_IMAGES", "mhhf_image_unsigned_preset"),
		CloudinaryVideoPreset: getEnv("CLOUDINARY_UPLOAD_PRESET_VIDEOS", "mhhf_video_unsigned_preset"),
		MediaFolderPrefix:     getEnv("MEDIA_FOLDER_PREFIX", "mhhf"),
	}

	return config, nil
}

// MediaConfigured reports whether the hosted media stack has enough
// configuration to operate. When it returns false the admin console is
// served in a disabled state instead of failing at startup.
func (c *Config) MediaConfigured() bool {
	return c.FirebaseProject != "" && c.CloudinaryCloudName != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
