package config

import (
	"os"
	"sync"
)

type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	Folder       string
}

var (
	cloudinaryConfig *CloudinaryConfig
	cloudinaryOnce   sync.Once
)

func LoadCloudinaryConfig() *CloudinaryConfig {
	cloudinaryOnce.Do(func() {
		folder := os.Getenv("CLOUDINARY_FOLDER")
		if folder == "" {
			folder = "cv-files"
		}
		cloudinaryConfig = &CloudinaryConfig{
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			UploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
			Folder:       folder,
		}
	})
	return cloudinaryConfig
}
