package config

import (
	"os"
	"sync"
)

type FirebaseConfig struct {
	DatabaseURL  string
	DatabaseAuth string
	FCMServerKey string
}

var (
	firebaseConfig *FirebaseConfig
	firebaseOnce   sync.Once
)

func LoadFirebaseConfig() *FirebaseConfig {
	firebaseOnce.Do(func() {
		firebaseConfig = &FirebaseConfig{
			DatabaseURL:  os.Getenv("FIREBASE_DATABASE_URL"),
			DatabaseAuth: os.Getenv("FIREBASE_DATABASE_SECRET"),
			FCMServerKey: os.Getenv("FCM_SERVER_KEY"),
		}
	})
	return firebaseConfig
}
